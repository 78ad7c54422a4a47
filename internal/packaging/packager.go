// Package packaging stages built mods into versioned package directories
// and installs them into the game's mods directory.
//
// Every deploy produces a fresh revision under package/, named
// <slug>-v<version>-<revision>. Revisions start at 0 for each manifest
// version and only ever count up, so earlier packages stay on disk as an
// audit trail and are never overwritten.
package packaging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hos-modding/hosmod/internal/config"
	"github.com/hos-modding/hosmod/internal/defs"
	"github.com/hos-modding/hosmod/internal/fsutil"
)

// Package describes one staged package revision on disk.
type Package struct {
	// Dir is the revision directory, package/<slug>-v<version>-<revision>.
	Dir string

	// ModDir is the installable payload inside Dir, named after the mod
	// folder the game expects.
	ModDir string

	Slug     string
	Version  string
	Revision int
}

// Packager assembles package revisions from a built project.
type Packager struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
}

// NewPackager returns a Packager rooted at the project directory. A nil
// logger discards output.
func NewPackager(root string, cfg *config.Config, logger *log.Logger) *Packager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Packager{root: root, cfg: cfg, logger: logger}
}

// Package stages a new package revision containing the manifest, the
// built artifact, and the assets tree. The revision number is one past
// the highest already on disk for the manifest's current version, or 0
// for the first deploy.
//
// On a staging failure the partial directory is left in place and the
// returned *StageError names it.
func (p *Packager) Package(artifactPath string) (*Package, error) {
	version, err := ReadManifestVersion(filepath.Join(p.root, defs.ManifestJSON))
	if err != nil {
		return nil, err
	}

	packageRoot := filepath.Join(p.root, defs.PackageDir)
	prefix := p.cfg.PackagePrefix(version)
	revision := nextRevision(packageRoot, prefix)

	pkg := &Package{
		Dir:      filepath.Join(packageRoot, fmt.Sprintf("%s%d", prefix, revision)),
		Slug:     p.cfg.Mod.Slug,
		Version:  version,
		Revision: revision,
	}
	pkg.ModDir = filepath.Join(pkg.Dir, p.cfg.Mod.Folder)

	p.logger.Debug("staging package", "dir", pkg.Dir)
	if err := p.stage(pkg, artifactPath); err != nil {
		return nil, &StageError{Dir: pkg.Dir, Err: err}
	}

	p.logger.Info("package staged", "version", version, "revision", revision, "dir", pkg.Dir)
	return pkg, nil
}

func (p *Packager) stage(pkg *Package, artifactPath string) error {
	libDir := filepath.Join(pkg.ModDir, defs.LibrariesDir)
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return err
	}

	manifest := filepath.Join(p.root, defs.ManifestJSON)
	if err := fsutil.CopyFile(manifest, filepath.Join(pkg.ModDir, defs.ManifestJSON)); err != nil {
		return err
	}
	if err := fsutil.CopyFile(artifactPath, filepath.Join(libDir, filepath.Base(artifactPath))); err != nil {
		return err
	}

	// The assets tree is an opaque payload for the game: copied verbatim,
	// structure intact, nothing validated or rewritten.
	assets := filepath.Join(p.root, defs.AssetsDir)
	if fsutil.DirExists(assets) {
		if err := fsutil.CopyTree(assets, filepath.Join(pkg.ModDir, defs.AssetsDir)); err != nil {
			return err
		}
	}
	return nil
}
