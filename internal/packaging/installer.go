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
	"github.com/hos-modding/hosmod/internal/gamepath"
)

// Installer copies a staged package into the game's MODS directory so the
// game picks it up on next launch.
type Installer struct {
	root   string
	cfg    *config.Config
	paths  *gamepath.Resolved
	logger *log.Logger
}

// NewInstaller returns an Installer for the project at root. A nil logger
// discards output.
func NewInstaller(root string, cfg *config.Config, paths *gamepath.Resolved, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installer{root: root, cfg: cfg, paths: paths, logger: logger}
}

// Install copies last's mod folder into the MODS directory, replacing any
// previously installed copy of the mod wholesale so stale files from an
// earlier install can never linger.
//
// A nil last means a standalone install: the package to install is
// re-derived from disk by reading the manifest version and picking the
// highest staged revision for it.
func (i *Installer) Install(last *Package) (string, error) {
	modsDir, err := i.paths.RequireModsDir()
	if err != nil {
		return "", err
	}

	pkg := last
	if pkg == nil {
		pkg, err = i.findNewest()
		if err != nil {
			return "", err
		}
		i.logger.Debug("standalone install", "dir", pkg.Dir)
	}

	target := filepath.Join(modsDir, i.cfg.Mod.Folder)
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("packaging: remove previous install %s: %w", target, err)
	}
	if err := fsutil.CopyTree(pkg.ModDir, target); err != nil {
		return "", fmt.Errorf("packaging: install %s: %w", pkg.Dir, err)
	}

	i.logger.Info("mod installed",
		"version", pkg.Version, "revision", pkg.Revision, "path", target)
	return target, nil
}

// findNewest locates the highest staged revision of the manifest's
// current version. Older revisions and other versions are ignored.
func (i *Installer) findNewest() (*Package, error) {
	version, err := ReadManifestVersion(filepath.Join(i.root, defs.ManifestJSON))
	if err != nil {
		return nil, err
	}

	packageRoot := filepath.Join(i.root, defs.PackageDir)
	prefix := i.cfg.PackagePrefix(version)
	revision, ok := highestPackageDir(packageRoot, prefix)
	if !ok {
		return nil, fmt.Errorf("%w for version %s under %s (run a deploy first)",
			ErrNoPackageFound, version, packageRoot)
	}

	pkg := &Package{
		Dir:      filepath.Join(packageRoot, fmt.Sprintf("%s%d", prefix, revision)),
		Slug:     i.cfg.Mod.Slug,
		Version:  version,
		Revision: revision,
	}
	pkg.ModDir = filepath.Join(pkg.Dir, i.cfg.Mod.Folder)
	return pkg, nil
}
