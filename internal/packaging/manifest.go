package packaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
)

// manifestVersionPattern accepts semantic versions with an optional
// pre-release or build suffix, e.g. "1.2.0" or "1.2.0-beta.1".
var manifestVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.+-]+)?$`)

// ReadManifestVersion extracts the version field from the mod manifest at
// path. The manifest is the single source of truth for the mod version:
// the rest of the file is the game's concern and is never interpreted
// here.
func ReadManifestVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrManifestNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("packaging: read manifest %s: %w", path, err)
	}

	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("packaging: parse manifest %s: %w", path, err)
	}
	if manifest.Version == "" {
		return "", fmt.Errorf("%w: %s has no version field", ErrManifestVersion, path)
	}
	if !manifestVersionPattern.MatchString(manifest.Version) {
		return "", fmt.Errorf("%w: %q in %s is not a semantic version", ErrManifestVersion, manifest.Version, path)
	}
	return manifest.Version, nil
}
