// Package config loads the per-project hosmod.yaml settings file that marks
// a directory as a mod project and names its build inputs and outputs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/hos-modding/hosmod/internal/defs"
)

// DefaultTargetFramework is the .NET target the game's assemblies are
// built for; the build artifact lands under output/<target framework>/.
const DefaultTargetFramework = "net48"

// DefaultAssemblies is the set of game assemblies a mod build links
// against, refreshed into Libraries/ from the game install.
var DefaultAssemblies = []string{
	"Assembly-CSharp.dll",
	"Newtonsoft.Json.dll",
	"PhotonUnityNetworking.dll",
	"LeTai.TranslucentImage.dll",
	"Unity.TextMeshPro.dll",
	"UnityEngine.dll",
	"UnityEngine.AudioModule.dll",
	"UnityEngine.CoreModule.dll",
	"UnityEngine.ImageConversionModule.dll",
	"UnityEngine.TextRenderingModule.dll",
	"UnityEngine.UI.dll",
	"UnityEngine.UIModule.dll",
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Config is the parsed hosmod.yaml.
type Config struct {
	Mod     Mod     `yaml:"mod"`
	Project Project `yaml:"project"`

	// Assemblies overrides DefaultAssemblies when non-empty.
	Assemblies []string `yaml:"assemblies"`
}

// Mod identifies the mod as the game and the packaging pipeline see it.
type Mod struct {
	Name      string `yaml:"name"`
	Slug      string `yaml:"slug"`
	Folder    string `yaml:"folder"`
	HarmonyID string `yaml:"harmony_id"`
}

// Project names the build inputs and the expected artifact.
type Project struct {
	File            string `yaml:"file"`
	TargetFramework string `yaml:"target_framework"`
	OutputDLL       string `yaml:"output_dll"`
}

// Load reads and validates <root>/hosmod.yaml, applying defaults for
// optional fields.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, defs.ConfigYAML)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindRoot locates the project root by searching for hosmod.yaml, starting
// at start and traversing upward. It anchors every pipeline operation to
// the project root regardless of the invocation directory.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, defs.ConfigYAML)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or any parent directory (run 'hosmod new' to create a project)",
				ErrNotFound, defs.ConfigYAML, start)
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Project.TargetFramework == "" {
		c.Project.TargetFramework = DefaultTargetFramework
	}
	if c.Mod.Folder == "" {
		c.Mod.Folder = c.Mod.Name
	}
}

func (c *Config) validate() error {
	switch {
	case c.Mod.Name == "":
		return &ValidationError{Field: "mod.name", Message: "must not be empty"}
	case c.Mod.Slug == "":
		return &ValidationError{Field: "mod.slug", Message: "must not be empty"}
	case !slugPattern.MatchString(c.Mod.Slug):
		return &ValidationError{Field: "mod.slug", Message: fmt.Sprintf("%q must be lowercase words separated by hyphens", c.Mod.Slug)}
	case c.Project.File == "":
		return &ValidationError{Field: "project.file", Message: "must not be empty"}
	case c.Project.OutputDLL == "":
		return &ValidationError{Field: "project.output_dll", Message: "must not be empty"}
	}
	return nil
}

// AssemblyNames returns the assemblies to refresh from the game install.
func (c *Config) AssemblyNames() []string {
	if len(c.Assemblies) > 0 {
		return c.Assemblies
	}
	return DefaultAssemblies
}

// ProjectFile returns the absolute path of the build input.
func (c *Config) ProjectFile(root string) string {
	return filepath.Join(root, c.Project.File)
}

// ArtifactPath returns where the compiler is expected to leave the built
// mod assembly.
func (c *Config) ArtifactPath(root string) string {
	return filepath.Join(root, defs.OutputDir, c.Project.TargetFramework, c.Project.OutputDLL)
}

// PackagePrefix returns the directory-name prefix shared by every package
// revision of the given version.
func (c *Config) PackagePrefix(version string) string {
	return fmt.Sprintf("%s-v%s-", c.Mod.Slug, version)
}
