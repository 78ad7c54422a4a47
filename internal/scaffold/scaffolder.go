// Package scaffold instantiates new mod projects from the embedded
// template tree, substituting project metadata into file names and text
// content.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hos-modding/hosmod/internal/defs"
	"github.com/hos-modding/hosmod/internal/fsutil"
)

//go:embed all:templates
var templateFS embed.FS

// placeholderPattern matches ${token} placeholders in template text and
// file-name patterns. Bare $ characters pass through untouched.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// namePatterns maps template file names to their rendered names. Any name
// not listed here is kept as is.
var namePatterns = map[string]string{
	"TemplateScript.cs":       "${mod_class_name}.cs",
	"template_project.csproj": "${project_filename}",
	"template_project.sln":    "${solution_filename}",
}

// Result describes what a scaffold run created.
type Result struct {
	// Dir is the project root that was written.
	Dir string

	// Files lists the created files relative to Dir, in walk order.
	Files []string
}

// Scaffolder renders a template tree into a destination directory.
type Scaffolder struct {
	templates fs.FS
	logger    *log.Logger
}

// New returns a Scaffolder backed by the embedded template tree.
func New(logger *log.Logger) *Scaffolder {
	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		// The embed directive guarantees the templates root exists.
		panic(err)
	}
	return NewFromFS(templates, logger)
}

// NewFromFS returns a Scaffolder over an arbitrary template tree. Tests
// use testing/fstest.MapFS here. A nil logger discards output.
func NewFromFS(templates fs.FS, logger *log.Logger) *Scaffolder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scaffolder{templates: templates, logger: logger}
}

// Scaffold renders the template tree into dest. The destination must not
// exist, or must be an empty directory, unless force is set; that check
// runs before anything is written. A failure mid-render leaves the
// partial destination in place for inspection.
func (s *Scaffolder) Scaffold(dest string, meta Metadata, force bool) (*Result, error) {
	if err := checkDestination(dest, force); err != nil {
		return nil, err
	}

	values := meta.values()
	result := &Result{Dir: dest}

	err := fs.WalkDir(s.templates, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return os.MkdirAll(dest, 0o755)
		}

		relative, err := renderName(path, values)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, relative)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := s.renderFile(path, target, values); err != nil {
			return err
		}
		result.Files = append(result.Files, relative)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(dest, defs.AssetsDir), 0o755); err != nil {
		return nil, fmt.Errorf("scaffold: create assets directory: %w", err)
	}
	if err := writeEnvStub(filepath.Join(dest, defs.OverrideEnv)); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, defs.OverrideEnv)

	s.logger.Info("project scaffolded", "dest", dest, "files", len(result.Files))
	return result, nil
}

// checkDestination enforces the no-clobber rule before the first write.
func checkDestination(dest string, force bool) error {
	info, err := os.Stat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scaffold: stat %s: %w", dest, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s exists and is not a directory", ErrDestinationConflict, dest)
	}
	if force {
		return nil
	}

	empty, err := fsutil.IsDirEmpty(dest)
	if err != nil {
		return fmt.Errorf("scaffold: inspect %s: %w", dest, err)
	}
	if !empty {
		return fmt.Errorf("%w: %s is not empty (use --force to scaffold anyway)", ErrDestinationConflict, dest)
	}
	return nil
}

// renderName maps and substitutes every segment of a template path.
func renderName(path string, values map[string]string) (string, error) {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		pattern, ok := namePatterns[part]
		if !ok {
			pattern = part
		}
		rendered, err := renderText(pattern, values, path)
		if err != nil {
			return "", err
		}
		parts[i] = rendered
	}
	return filepath.Join(parts...), nil
}

func (s *Scaffolder) renderFile(src, target string, values map[string]string) error {
	data, err := fs.ReadFile(s.templates, src)
	if err != nil {
		return fmt.Errorf("scaffold: read template %s: %w", src, err)
	}

	if isBinary(data) {
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("scaffold: write %s: %w", target, err)
		}
		return nil
	}

	rendered, err := renderText(string(data), values, src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("scaffold: write %s: %w", target, err)
	}
	return nil
}

// renderText substitutes ${token} placeholders. Every token must have a
// value: a template referencing an unknown token is broken, and silently
// leaving the literal in place would ship the breakage into the project.
func renderText(text string, values map[string]string, file string) (string, error) {
	var unknown []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		token := match[1]
		if _, ok := values[token]; !ok && !slices.Contains(unknown, token) {
			unknown = append(unknown, token)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return "", &UnknownPlaceholderError{File: file, Tokens: unknown}
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		return values[m[2:len(m)-1]]
	})
	return rendered, nil
}

// isBinary sniffs for a NUL byte in the first KiB, the same heuristic git
// uses to separate text from binary payloads.
func isBinary(data []byte) bool {
	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	return bytes.IndexByte(sample, 0) >= 0
}

// writeEnvStub drops a commented-out .env so the override variables are
// one uncomment away when path auto-detection fails.
func writeEnvStub(path string) error {
	content := fmt.Sprintf(`# Hex of Steel path overrides. Uncomment and adjust when auto-detection
# cannot find your install.
#%s="/path/to/Hex of Steel_Data/Managed"
#%s="/path/to/Hex of Steel/MODS"
`, defs.EnvManagedDir, defs.EnvModsPath)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return nil
}
