package packaging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hos-modding/hosmod/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mod:     config.Mod{Name: "Test Mod", Slug: "test-mod", Folder: "Test Mod"},
		Project: config.Project{File: "TestMod.csproj", TargetFramework: "net48", OutputDLL: "TestMod.dll"},
	}
}

func writeManifest(t *testing.T, root, version string) {
	t.Helper()
	manifest := fmt.Sprintf(`{"name": "Test Mod", "version": %q, "author": "someone"}`, version)
	if err := os.WriteFile(filepath.Join(root, "Manifest.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func writeArtifact(t *testing.T, root string, content string) string {
	t.Helper()
	dir := filepath.Join(root, "output", "net48")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir artifact dir: %v", err)
	}
	artifact := filepath.Join(dir, "TestMod.dll")
	if err := os.WriteFile(artifact, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return artifact
}

// newProject lays out a deployable project: manifest, artifact, and a
// small assets tree.
func newProject(t *testing.T, version string) (string, string) {
	t.Helper()
	root := t.TempDir()
	writeManifest(t, root, version)
	artifact := writeArtifact(t, root, "dll-bytes")

	mapDir := filepath.Join(root, "assets", "Maps")
	if err := os.MkdirAll(mapDir, 0o755); err != nil {
		t.Fatalf("mkdir assets: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mapDir, "winter.map"), []byte("hexes"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return root, artifact
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestReadManifestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string
		want     string
		wantErr  error
	}{
		{
			name:     "plain semver",
			manifest: `{"version": "1.2.0"}`,
			want:     "1.2.0",
		},
		{
			name:     "prerelease suffix",
			manifest: `{"version": "1.2.0-beta.1"}`,
			want:     "1.2.0-beta.1",
		},
		{
			name:     "build metadata suffix",
			manifest: `{"version": "0.0.1+local"}`,
			want:     "0.0.1+local",
		},
		{
			name:     "extra fields ignored",
			manifest: `{"name": "X", "version": "3.0.4", "tags": ["maps"]}`,
			want:     "3.0.4",
		},
		{
			name:     "missing version field",
			manifest: `{"name": "X"}`,
			wantErr:  ErrManifestVersion,
		},
		{
			name:     "two components",
			manifest: `{"version": "1.2"}`,
			wantErr:  ErrManifestVersion,
		},
		{
			name:     "not a version at all",
			manifest: `{"version": "latest"}`,
			wantErr:  ErrManifestVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "Manifest.json")
			if err := os.WriteFile(path, []byte(tt.manifest), 0o644); err != nil {
				t.Fatalf("write manifest: %v", err)
			}

			got, err := ReadManifestVersion(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadManifestVersion: %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadManifestVersion_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadManifestVersion(filepath.Join(t.TempDir(), "Manifest.json"))
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("err = %v, want ErrManifestNotFound", err)
	}
}

func TestReadManifestVersion_UnparsableJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Manifest.json")
	if err := os.WriteFile(path, []byte(`{"version": `), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	_, err := ReadManifestVersion(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if errors.Is(err, ErrManifestNotFound) || errors.Is(err, ErrManifestVersion) {
		t.Fatalf("parse failure should be its own error, got %v", err)
	}
}

func TestPackage_FirstDeployIsRevisionZero(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")

	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}

	wantDir := filepath.Join(root, "package", "test-mod-v1.2.0-0")
	if pkg.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", pkg.Dir, wantDir)
	}
	if pkg.Revision != 0 || pkg.Version != "1.2.0" || pkg.Slug != "test-mod" {
		t.Errorf("unexpected package identity: %+v", pkg)
	}

	modDir := filepath.Join(wantDir, "Test Mod")
	if pkg.ModDir != modDir {
		t.Errorf("ModDir = %q, want %q", pkg.ModDir, modDir)
	}
	if got := mustRead(t, filepath.Join(modDir, "Libraries", "TestMod.dll")); got != "dll-bytes" {
		t.Errorf("staged artifact = %q, want %q", got, "dll-bytes")
	}
	if got := mustRead(t, filepath.Join(modDir, "assets", "Maps", "winter.map")); got != "hexes" {
		t.Errorf("staged asset = %q, want %q", got, "hexes")
	}
	if !strings.Contains(mustRead(t, filepath.Join(modDir, "Manifest.json")), `"1.2.0"`) {
		t.Error("staged manifest does not carry the version")
	}
}

func TestPackage_RepeatedDeploysNeverOverwrite(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")
	packager := NewPackager(root, cfg, nil)

	for want := 0; want < 3; want++ {
		pkg, err := packager.Package(artifact)
		if err != nil {
			t.Fatalf("deploy %d: %v", want, err)
		}
		if pkg.Revision != want {
			t.Fatalf("deploy %d revision = %d", want, pkg.Revision)
		}
	}

	// All three revisions remain on disk with their payloads intact.
	for rev := 0; rev < 3; rev++ {
		dll := filepath.Join(root, "package", fmt.Sprintf("test-mod-v1.2.0-%d", rev),
			"Test Mod", "Libraries", "TestMod.dll")
		if _, err := os.Stat(dll); err != nil {
			t.Errorf("revision %d payload missing: %v", rev, err)
		}
	}
}

func TestPackage_VersionBumpRestartsAtZero(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")

	if _, err := NewPackager(root, cfg, nil).Package(artifact); err != nil {
		t.Fatalf("first deploy: %v", err)
	}

	writeManifest(t, root, "1.3.0")
	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("deploy after bump: %v", err)
	}
	if pkg.Revision != 0 {
		t.Errorf("revision after version bump = %d, want 0", pkg.Revision)
	}
	if want := filepath.Join(root, "package", "test-mod-v1.3.0-0"); pkg.Dir != want {
		t.Errorf("Dir = %q, want %q", pkg.Dir, want)
	}
}

func TestPackage_ResumesPastHighestRevision(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")

	// Only revision 5 survives on disk, say after manual cleanup.
	if err := os.MkdirAll(filepath.Join(root, "package", "test-mod-v1.2.0-5"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	if pkg.Revision != 6 {
		t.Errorf("revision = %d, want 6", pkg.Revision)
	}
}

func TestPackage_StrayArchiveCounts(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")

	// A zipped-up old package still claims its revision number.
	if err := os.MkdirAll(filepath.Join(root, "package"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	stray := filepath.Join(root, "package", "test-mod-v1.2.0-2.zip")
	if err := os.WriteFile(stray, []byte("zip"), 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}

	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	if pkg.Revision != 3 {
		t.Errorf("revision = %d, want 3", pkg.Revision)
	}
}

func TestPackage_IgnoresForeignEntries(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, artifact := newProject(t, "1.2.0")

	for _, name := range []string{
		"other-mod-v1.2.0-7", // different slug
		"test-mod-v9.9.9-4",  // different version
		"test-mod-v1.2.0-x",  // not a number
		"notes.txt",
	} {
		path := filepath.Join(root, "package", name)
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}

	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	if pkg.Revision != 0 {
		t.Errorf("revision = %d, want 0", pkg.Revision)
	}
}

func TestPackage_NoAssetsDir(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root := t.TempDir()
	writeManifest(t, root, "1.2.0")
	artifact := writeArtifact(t, root, "dll-bytes")

	pkg, err := NewPackager(root, cfg, nil).Package(artifact)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkg.ModDir, "assets")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("assets dir should not be staged when the project has none, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(pkg.ModDir, "Libraries", "TestMod.dll")); err != nil {
		t.Errorf("artifact missing from package: %v", err)
	}
}

func TestPackage_MissingManifest(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root := t.TempDir()
	artifact := writeArtifact(t, root, "dll-bytes")

	_, err := NewPackager(root, cfg, nil).Package(artifact)
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("err = %v, want ErrManifestNotFound", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, "package")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("nothing should be staged when the manifest is missing")
	}
}

func TestPackage_StageFailureKeepsPartialDir(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	root, _ := newProject(t, "1.2.0")
	missing := filepath.Join(root, "output", "net48", "Gone.dll")

	_, err := NewPackager(root, cfg, nil).Package(missing)
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("err = %v, want *StageError", err)
	}

	wantDir := filepath.Join(root, "package", "test-mod-v1.2.0-0")
	if stageErr.Dir != wantDir {
		t.Errorf("StageError.Dir = %q, want %q", stageErr.Dir, wantDir)
	}
	if !strings.Contains(stageErr.Error(), wantDir) {
		t.Errorf("error should name the partial directory: %v", stageErr)
	}
	if _, statErr := os.Stat(wantDir); statErr != nil {
		t.Errorf("partial directory should be kept for inspection: %v", statErr)
	}
}
