// Package nuget fetches the Harmony patching library from the NuGet v3
// flat-container API.
package nuget

import (
	"archive/zip"
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hos-modding/hosmod/internal/defs"
)

const (
	// DefaultBaseURL is the public NuGet flat-container endpoint.
	DefaultBaseURL = "https://api.nuget.org/v3-flatcontainer"

	// HarmonyPackageID is the package carrying a prebuilt 0Harmony.dll.
	HarmonyPackageID = "lib.harmony.thin"
)

// preferredTargets orders the .NET target frameworks we accept, best first.
// The game ships net48 assemblies, so older desktop frameworks are close
// enough fallbacks when the package drops a target.
var preferredTargets = []string{"lib/net48/", "lib/net472/", "lib/net452/"}

// Sentinel errors for registry operations.
var (
	// ErrNoVersions indicates the registry lists no published versions.
	ErrNoVersions = errors.New("nuget: no published versions")

	// ErrPayloadNotFound indicates the package archive lacks the wanted
	// assembly.
	ErrPayloadNotFound = errors.New("nuget: assembly not found in package")
)

// Client queries one flat-container registry.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// NewClient creates a Client for the given registry base URL. An empty
// baseURL selects the public NuGet endpoint; a nil http.Client gets a
// 60-second timeout. For testing, pass the httptest.Server URL directly.
func NewClient(baseURL string, client *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Ensure makes sure the Harmony assembly exists in libDir and returns its
// path. An existing copy is returned unchanged without consulting the
// registry, even if a newer version has been published; refreshing happens
// by deleting the file, never implicitly.
func (c *Client) Ensure(ctx context.Context, libDir string) (string, error) {
	path := filepath.Join(libDir, defs.HarmonyDLL)
	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("harmony already present", "path", path)
		return path, nil
	}

	version, err := c.LatestVersion(ctx, HarmonyPackageID)
	if err != nil {
		return "", err
	}
	archive, err := c.DownloadPackage(ctx, HarmonyPackageID, version)
	if err != nil {
		return "", err
	}
	payload, err := ExtractAssembly(archive, defs.HarmonyDLL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return "", fmt.Errorf("nuget: create %s: %w", libDir, err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("nuget: write %s: %w", path, err)
	}
	c.logger.Info("downloaded Harmony", "version", version, "path", path)
	return path, nil
}

// LatestVersion returns the newest published version of packageID.
func (c *Client) LatestVersion(ctx context.Context, packageID string) (string, error) {
	url := fmt.Sprintf("%s/%s/index.json", c.baseURL, packageID)
	body, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("nuget: query versions for %s: %w", packageID, err)
	}

	var index struct {
		Versions []string `json:"versions"`
	}
	if err := json.Unmarshal(body, &index); err != nil {
		return "", fmt.Errorf("nuget: decode version index for %s: %w", packageID, err)
	}
	if len(index.Versions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoVersions, packageID)
	}
	// The flat-container index is sorted ascending.
	return index.Versions[len(index.Versions)-1], nil
}

// DownloadPackage fetches the nupkg archive for packageID at version.
func (c *Client) DownloadPackage(ctx context.Context, packageID, version string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s.%s.nupkg", c.baseURL, packageID, version, packageID, version)
	data, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("nuget: download %s: %w", url, err)
	}
	return data, nil
}

// get fetches url with a single attempt; a registry failure is terminal
// for the invocation.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ExtractAssembly returns the named assembly from a nupkg archive. A nupkg
// is a zip; the assembly is searched under lib/, preferring the newest
// supported target framework and the shortest path on ties.
func ExtractAssembly(archive []byte, name string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("nuget: open package archive: %w", err)
	}

	suffix := strings.ToLower(name)
	var candidates []*zip.File
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "lib/") && strings.HasSuffix(strings.ToLower(file.Name), suffix) {
			candidates = append(candidates, file)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPayloadNotFound, name)
	}

	best := slices.MinFunc(candidates, func(a, b *zip.File) int {
		if c := cmp.Compare(targetRank(a.Name), targetRank(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(len(a.Name), len(b.Name))
	})

	rc, err := best.Open()
	if err != nil {
		return nil, fmt.Errorf("nuget: open %s in package: %w", best.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("nuget: read %s from package: %w", best.Name, err)
	}
	return data, nil
}

func targetRank(path string) int {
	lower := strings.ToLower(path)
	for i, marker := range preferredTargets {
		if strings.Contains(lower, marker) {
			return i
		}
	}
	return len(preferredTargets)
}
