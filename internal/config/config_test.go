package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "hosmod.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write hosmod.yaml: %v", err)
	}
}

const fullConfig = `mod:
  name: Supply Lines
  slug: supply-lines
  folder: Supply Lines
  harmony_id: com.hexofsteel.supply-lines
project:
  file: SupplyLines.csproj
  target_framework: net48
  output_dll: SupplyLines.dll
assemblies:
  - Assembly-CSharp.dll
  - UnityEngine.dll
`

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, fullConfig)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mod.Name != "Supply Lines" {
		t.Errorf("Mod.Name = %q, want %q", cfg.Mod.Name, "Supply Lines")
	}
	if cfg.Mod.Slug != "supply-lines" {
		t.Errorf("Mod.Slug = %q, want %q", cfg.Mod.Slug, "supply-lines")
	}
	if got := cfg.AssemblyNames(); len(got) != 2 {
		t.Errorf("AssemblyNames() = %v, want the 2 configured entries", got)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `mod:
  name: Winter War
  slug: winter-war
project:
  file: WinterWar.csproj
  output_dll: WinterWar.dll
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.TargetFramework != DefaultTargetFramework {
		t.Errorf("TargetFramework = %q, want %q", cfg.Project.TargetFramework, DefaultTargetFramework)
	}
	if cfg.Mod.Folder != "Winter War" {
		t.Errorf("Mod.Folder = %q, want mod name fallback", cfg.Mod.Folder)
	}
	if got := cfg.AssemblyNames(); len(got) != len(DefaultAssemblies) {
		t.Errorf("AssemblyNames() returned %d entries, want default set of %d", len(got), len(DefaultAssemblies))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "missing mod name",
			content: "mod:\n  slug: x\nproject:\n  file: X.csproj\n  output_dll: X.dll\n",
			field:   "mod.name",
		},
		{
			name:    "missing slug",
			content: "mod:\n  name: X\nproject:\n  file: X.csproj\n  output_dll: X.dll\n",
			field:   "mod.slug",
		},
		{
			name:    "uppercase slug",
			content: "mod:\n  name: X\n  slug: Bad-Slug\nproject:\n  file: X.csproj\n  output_dll: X.dll\n",
			field:   "mod.slug",
		},
		{
			name:    "missing project file",
			content: "mod:\n  name: X\n  slug: x\nproject:\n  output_dll: X.dll\n",
			field:   "project.file",
		},
		{
			name:    "missing output dll",
			content: "mod:\n  name: X\n  slug: x\nproject:\n  file: X.csproj\n",
			field:   "project.output_dll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Load error = %v, want ErrInvalid", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Load error = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestFindRoot_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, fullConfig)
	nested := filepath.Join(root, "src", "patches")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot: %v", err)
	}
	if got != root {
		t.Errorf("FindRoot = %q, want %q", got, root)
	}
}

func TestFindRoot_NotAProject(t *testing.T) {
	t.Parallel()

	_, err := FindRoot(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FindRoot error = %v, want ErrNotFound", err)
	}
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, fullConfig)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantArtifact := filepath.Join(dir, "output", "net48", "SupplyLines.dll")
	if got := cfg.ArtifactPath(dir); got != wantArtifact {
		t.Errorf("ArtifactPath = %q, want %q", got, wantArtifact)
	}
	if got := cfg.ProjectFile(dir); got != filepath.Join(dir, "SupplyLines.csproj") {
		t.Errorf("ProjectFile = %q", got)
	}
	if got := cfg.PackagePrefix("1.2.0"); got != "supply-lines-v1.2.0-" {
		t.Errorf("PackagePrefix = %q, want %q", got, "supply-lines-v1.2.0-")
	}
}
