// Package assets keeps a mod project's local copies of the game's
// assemblies current: it refreshes Libraries/ from the installed game,
// maintains a per-version cache of decompiled reference source, and pulls
// in the Harmony dependency.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/hos-modding/hosmod/internal/config"
	"github.com/hos-modding/hosmod/internal/defs"
	"github.com/hos-modding/hosmod/internal/execx"
	"github.com/hos-modding/hosmod/internal/fsutil"
	"github.com/hos-modding/hosmod/internal/gamepath"
)

// decompilerTool is the external decompiler invoked for reference source.
const decompilerTool = "ilspycmd"

// DependencyFetcher ensures the Harmony assembly is present locally.
// Implemented by nuget.Client.
type DependencyFetcher interface {
	Ensure(ctx context.Context, libDir string) (string, error)
}

// ProgressFunc reports assembly copy progress for UI display.
type ProgressFunc func(done, total int, name string)

// Result describes one refresh run.
type Result struct {
	GameVersion      string
	Copied           []string
	DecompileDir     string
	DecompileSkipped bool

	// DecompileErr is non-nil when the decompiler ran and failed. The
	// rest of the refresh still completed; callers surface this as a
	// warning rather than aborting.
	DecompileErr error
}

// Refresher copies game assemblies into a project and maintains its
// decompiled reference cache.
type Refresher struct {
	root     string
	cfg      *config.Config
	paths    *gamepath.Resolved
	runner   execx.Runner
	fetcher  DependencyFetcher
	logger   *log.Logger
	progress ProgressFunc
}

// NewRefresher creates a Refresher for the project at root.
func NewRefresher(root string, cfg *config.Config, paths *gamepath.Resolved, runner execx.Runner, fetcher DependencyFetcher, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Refresher{
		root:     root,
		cfg:      cfg,
		paths:    paths,
		runner:   runner,
		fetcher:  fetcher,
		logger:   logger,
		progress: func(int, int, string) {},
	}
}

// SetProgress installs a hook called after each assembly copy.
func (r *Refresher) SetProgress(fn ProgressFunc) {
	if fn != nil {
		r.progress = fn
	}
}

// Refresh copies the configured assemblies from the game install,
// decompiles the vanilla assembly into the per-version cache unless it is
// already populated, and ensures the Harmony dependency. A missing
// Managed directory aborts before anything is written.
func (r *Refresher) Refresh(ctx context.Context) (*Result, error) {
	managed, err := r.paths.RequireManagedDir()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if result.Copied, err = r.copyAssemblies(managed); err != nil {
		return nil, err
	}

	if result.GameVersion, err = DetectGameVersion(managed); err != nil {
		return nil, err
	}
	r.logger.Debug("detected game version", "version", result.GameVersion)

	result.DecompileDir, result.DecompileSkipped, result.DecompileErr = r.decompile(ctx, managed, result.GameVersion)
	if result.DecompileErr != nil {
		r.logger.Warn("decompilation failed, continuing", "err", result.DecompileErr)
	}

	if _, err := r.fetcher.Ensure(ctx, filepath.Join(r.root, defs.LibrariesDir)); err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshLibraries copies the configured assemblies and ensures Harmony
// without touching the decompiled cache.
func (r *Refresher) RefreshLibraries(ctx context.Context) (*Result, error) {
	managed, err := r.paths.RequireManagedDir()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if result.Copied, err = r.copyAssemblies(managed); err != nil {
		return nil, err
	}
	if _, err := r.fetcher.Ensure(ctx, filepath.Join(r.root, defs.LibrariesDir)); err != nil {
		return nil, err
	}
	return result, nil
}

// copyAssemblies overwrites Libraries/ with the configured assemblies
// from managed, pruning stale DLLs that are neither configured nor the
// Harmony payload.
func (r *Refresher) copyAssemblies(managed string) ([]string, error) {
	names := r.cfg.AssemblyNames()
	libDir := filepath.Join(r.root, defs.LibrariesDir)
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create %s: %w", libDir, err)
	}
	if err := r.pruneStale(libDir, names); err != nil {
		return nil, err
	}

	copied := make([]string, 0, len(names))
	for i, name := range names {
		src := filepath.Join(managed, name)
		if _, err := os.Stat(src); err != nil {
			return nil, fmt.Errorf("%w: %s (looked at %s)", ErrAssemblyMissing, name, src)
		}
		if err := fsutil.CopyFile(src, filepath.Join(libDir, name)); err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		copied = append(copied, name)
		r.progress(i+1, len(names), name)
	}
	r.logger.Debug("refreshed libraries", "count", len(copied), "dir", libDir)
	return copied, nil
}

// pruneStale removes DLLs left behind by earlier game versions or
// configuration changes. The Harmony payload is always kept so it never
// has to be re-downloaded.
func (r *Refresher) pruneStale(libDir string, keep []string) error {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return fmt.Errorf("assets: read %s: %w", libDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".dll") {
			continue
		}
		if strings.EqualFold(name, defs.HarmonyDLL) || containsFold(keep, name) {
			continue
		}
		if err := os.Remove(filepath.Join(libDir, name)); err != nil {
			return fmt.Errorf("assets: prune %s: %w", name, err)
		}
		r.logger.Debug("pruned stale library", "name", name)
	}
	return nil
}

// decompile runs the decompiler into decompiled/<version>/ unless that
// cache is already populated. Failures leave partial output in place and
// are returned for the caller to surface, not to abort on.
func (r *Refresher) decompile(ctx context.Context, managed, version string) (dir string, skipped bool, err error) {
	dir = filepath.Join(r.root, defs.DecompiledDir, version)
	if CachePopulated(dir) {
		r.logger.Debug("decompiled cache populated, skipping", "dir", dir)
		return dir, true, nil
	}

	assembly := filepath.Join(managed, defs.VanillaAssembly)
	if _, statErr := os.Stat(assembly); statErr != nil {
		return dir, false, fmt.Errorf("%w: %s (looked at %s)", ErrAssemblyMissing, defs.VanillaAssembly, assembly)
	}
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return dir, false, fmt.Errorf("assets: create %s: %w", dir, mkErr)
	}

	r.logger.Info("decompiling vanilla assembly", "version", version, "dir", dir)
	output, runErr := r.runner.Run(ctx, r.root, decompilerTool, assembly, "-p", "-o", dir)
	if runErr != nil {
		return dir, false, &DecompileError{Dir: dir, Output: string(output), Err: runErr}
	}
	return dir, false, nil
}

// CachePopulated reports whether dir holds usable decompiler output,
// meaning at least one top-level source or project file. Junk left by an
// interrupted run does not count, so the next refresh redoes it.
func CachePopulated(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.IsDir() && (ext == ".cs" || ext == ".csproj") {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if strings.EqualFold(candidate, needle) {
			return true
		}
	}
	return false
}
