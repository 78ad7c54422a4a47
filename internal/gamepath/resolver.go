// Package gamepath locates the two game directories the pipeline depends
// on: the Managed assembly directory inside the Hex of Steel install and
// the MODS directory the game scans for installed mods.
//
// Resolution is a pure probe computed fresh per call: an environment
// variable beats the project's .env override file, which beats the known
// OS install locations; the first candidate that exists on disk wins.
package gamepath

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/hos-modding/hosmod/internal/defs"
)

// Resolved holds the outcome of one resolution pass. Fields are empty when
// no candidate existed; callers that need a path use the Require accessors
// to fail with an actionable error before touching the filesystem.
type Resolved struct {
	ManagedDir string
	ModsDir    string

	managedCandidates []string
	modsCandidates    []string
}

// RequireManagedDir returns the Managed directory or a NotFoundError
// naming HOS_MANAGED_DIR and every location probed.
func (r *Resolved) RequireManagedDir() (string, error) {
	if r.ManagedDir != "" {
		return r.ManagedDir, nil
	}
	return "", &NotFoundError{
		What:       "the Hex of Steel Managed directory",
		EnvVar:     defs.EnvManagedDir,
		Candidates: r.managedCandidates,
		sentinel:   ErrManagedDirNotFound,
	}
}

// RequireModsDir returns the MODS directory or a NotFoundError naming
// HOS_MODS_PATH and every location probed.
func (r *Resolved) RequireModsDir() (string, error) {
	if r.ModsDir != "" {
		return r.ModsDir, nil
	}
	return "", &NotFoundError{
		What:       "the Hex of Steel MODS directory",
		EnvVar:     defs.EnvModsPath,
		Candidates: r.modsCandidates,
		sentinel:   ErrModsDirNotFound,
	}
}

// Resolver probes for the game directories on behalf of one project.
type Resolver struct {
	root   string
	logger *log.Logger
}

// NewResolver returns a Resolver for the project at root. The project's
// .env file and its parent directory's .env are honored as overrides.
func NewResolver(root string, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{root: root, logger: logger}
}

// Resolve probes all candidates and returns whatever was found. It never
// mutates the filesystem.
func (r *Resolver) Resolve() *Resolved {
	overrides := r.loadOverrides()
	home, err := os.UserHomeDir()
	if err != nil {
		r.logger.Debug("home directory unavailable, skipping home-based candidates", "err", err)
		home = ""
	}

	managed := r.collect(overrides, defs.EnvManagedDir, managedCandidates(home))
	mods := r.collect(overrides, defs.EnvModsPath, modsCandidates(home))

	resolved := &Resolved{
		ManagedDir:        firstExistingDir(managed),
		ModsDir:           firstExistingDir(mods),
		managedCandidates: managed,
		modsCandidates:    mods,
	}
	r.logger.Debug("resolved game paths",
		"managed", resolved.ManagedDir, "mods", resolved.ModsDir)
	return resolved
}

// loadOverrides layers the override sources: the parent directory's .env
// is read first so the project's own .env wins on conflicts, and
// AutomaticEnv keeps real environment variables above both.
func (r *Resolver) loadOverrides() *viper.Viper {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	dirs := []string{filepath.Dir(r.root), r.root}
	if dirs[0] == dirs[1] {
		dirs = dirs[1:]
	}

	loaded := false
	for _, dir := range dirs {
		path := filepath.Join(dir, defs.OverrideEnv)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		var err error
		if loaded {
			err = v.MergeInConfig()
		} else {
			err = v.ReadInConfig()
		}
		if err != nil {
			r.logger.Warn("ignoring unreadable override file", "path", path, "err", err)
			continue
		}
		loaded = true
		r.logger.Debug("loaded override file", "path", path)
	}
	return v
}

// collect builds the ordered, de-duplicated candidate list for one
// variable: the override value (if any) first, then the OS defaults.
func (r *Resolver) collect(overrides *viper.Viper, envVar string, defaults []string) []string {
	var candidates []string
	if value := overrides.GetString(envVar); value != "" {
		candidates = append(candidates, expandHome(value))
	}
	candidates = append(candidates, defaults...)

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}

func firstExistingDir(candidates []string) string {
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
