// Package cli implements the hosmod command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hos-modding/hosmod/internal/assets"
	"github.com/hos-modding/hosmod/internal/config"
	"github.com/hos-modding/hosmod/internal/dotnet"
	"github.com/hos-modding/hosmod/internal/execx"
	"github.com/hos-modding/hosmod/internal/gamepath"
	"github.com/hos-modding/hosmod/internal/nuget"
	"github.com/hos-modding/hosmod/internal/packaging"
	"github.com/hos-modding/hosmod/internal/ui"
	"github.com/hos-modding/hosmod/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "hosmod",
	Short: "Build and packaging pipeline for Hex of Steel mods",
	Long: `hosmod drives the build and packaging pipeline for Hex of Steel mods.

It refreshes game assemblies and decompiled reference source from the
installed game, compiles the mod project, stages versioned package
revisions, and installs them into the game's MODS directory.

Pipeline flags combine and always run in the same order: refresh,
then build and stage, then install.

  hosmod -g       refresh Libraries/, decompiled/, and the Harmony dependency
  hosmod -d       build the mod and stage a new package revision
  hosmod -d -i    build, stage, and install into the game
  hosmod -i       install the newest staged revision
  hosmod -r       refresh Libraries/ only, without redecompiling`,
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().BoolP("get-dlls", "g", false, "Refresh game assemblies, decompiled reference source, and Harmony")
	rootCmd.Flags().BoolP("deploy", "d", false, "Build the mod and stage a new package revision")
	rootCmd.Flags().BoolP("install", "i", false, "Install a staged package into the game's MODS directory")
	rootCmd.Flags().BoolP("refresh-libs", "r", false, "Refresh Libraries/ without redecompiling")
	rootCmd.Flags().String("project", "", "Project directory (default: walk up from the current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// newLogger builds the pipeline logger on stderr so stdout stays clean
// for command output.
func newLogger(verbose bool) *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// pipeline carries the dependencies shared by the root command's stages.
type pipeline struct {
	root     string
	cfg      *config.Config
	paths    *gamepath.Resolved
	runner   execx.Runner
	logger   *log.Logger
	reporter *ui.Reporter
	out      io.Writer
}

// runRoot dispatches the pipeline flags. Stages always run in the same
// order regardless of flag order on the command line: refresh first,
// then build and stage, then install.
func runRoot(cmd *cobra.Command, _ []string) error {
	getDLLs := getBoolFlag(cmd, "get-dlls")
	deploy := getBoolFlag(cmd, "deploy")
	install := getBoolFlag(cmd, "install")
	refreshLibs := getBoolFlag(cmd, "refresh-libs")

	if !getDLLs && !deploy && !install && !refreshLibs {
		return cmd.Help()
	}

	logger := newLogger(getBoolFlag(cmd, "verbose"))
	root, err := projectRoot(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	logger.Debug("project resolved", "root", root, "mod", cfg.Mod.Name)

	pipe := &pipeline{
		root:     root,
		cfg:      cfg,
		paths:    gamepath.NewResolver(root, logger).Resolve(),
		runner:   execx.System{},
		logger:   logger,
		reporter: ui.NewReporter(),
		out:      cmd.OutOrStdout(),
	}

	ctx := cmd.Context()
	switch {
	case getDLLs:
		if err := pipe.refreshAll(ctx); err != nil {
			return err
		}
	case refreshLibs:
		if err := pipe.refreshLibraries(ctx); err != nil {
			return err
		}
	}

	var staged *packaging.Package
	if deploy {
		if staged, err = pipe.deploy(ctx); err != nil {
			return err
		}
	}
	if install {
		if err := pipe.install(staged); err != nil {
			return err
		}
	}
	return nil
}

// projectRoot resolves the project directory: --project names it
// explicitly, otherwise the search walks up from the working directory.
func projectRoot(cmd *cobra.Command) (string, error) {
	if dir := getStringFlag(cmd, "project"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve project path %q: %w", dir, err)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return config.FindRoot(cwd)
}

// refreshAll refreshes Libraries/, the decompiled reference cache, and
// the Harmony dependency. A failed decompiler run is surfaced as a
// warning; the refresh itself still succeeds.
func (p *pipeline) refreshAll(ctx context.Context) error {
	refresher := p.newRefresher()
	attachProgress(refresher, p.reporter)

	result, err := refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, renderSuccessCard("Libraries refreshed", refreshDetails(result)...))
	return nil
}

// refreshLibraries refreshes Libraries/ and Harmony without touching the
// decompiled cache.
func (p *pipeline) refreshLibraries(ctx context.Context) error {
	refresher := p.newRefresher()
	attachProgress(refresher, p.reporter)

	result, err := refresher.RefreshLibraries(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, renderSuccessCard("Libraries refreshed",
		renderKeyValueLines([]kvPair{
			{"Assemblies", fmt.Sprintf("%d refreshed", len(result.Copied))},
		})))
	return nil
}

// deploy builds the mod and stages a fresh package revision.
func (p *pipeline) deploy(ctx context.Context) (*packaging.Package, error) {
	spin := p.reporter.Spinner("Building " + p.cfg.Project.File)
	artifact, err := dotnet.Build(ctx, p.runner, p.root, p.cfg, p.logger)
	spin.Stop()
	if err != nil {
		return nil, err
	}

	pkg, err := packaging.NewPackager(p.root, p.cfg, p.logger).Package(artifact)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, renderSuccessCard("Package staged",
		renderKeyValueLines([]kvPair{
			{"Mod", p.cfg.Mod.Name},
			{"Version", pkg.Version},
			{"Revision", fmt.Sprintf("%d", pkg.Revision)},
			{"Directory", pkg.Dir},
		})))
	return pkg, nil
}

// install copies a staged package into the game's MODS directory. With a
// package staged in this run it installs that one; otherwise it falls
// back to the newest staged revision on disk.
func (p *pipeline) install(staged *packaging.Package) error {
	installer := packaging.NewInstaller(p.root, p.cfg, p.paths, p.logger)
	target, err := installer.Install(staged)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, renderSuccessCard("Mod installed",
		renderKeyValueLines([]kvPair{
			{"Mod", p.cfg.Mod.Name},
			{"Into", target},
		})))
	return nil
}

func (p *pipeline) newRefresher() *assets.Refresher {
	fetcher := nuget.NewClient("", nil, p.logger)
	return assets.NewRefresher(p.root, p.cfg, p.paths, p.runner, fetcher, p.logger)
}

// attachProgress wires a progress bar into the refresher's assembly copy
// loop. The bar is created lazily on the first callback so a refresh that
// fails before copying anything shows no bar at all.
func attachProgress(refresher *assets.Refresher, reporter *ui.Reporter) {
	var bar ui.ProgressBar
	refresher.SetProgress(func(done, total int, name string) {
		if bar == nil {
			bar = reporter.Progress("Copying game assemblies", total)
		}
		bar.SetTitle(name)
		bar.Increment(1)
		if done == total {
			bar.Done()
		}
	})
}

// refreshDetails renders the card body for a full refresh.
func refreshDetails(result *assets.Result) []string {
	reference := result.DecompileDir
	if result.DecompileSkipped {
		reference += cliMuted.Render(" (cached)")
	}

	details := []string{renderKeyValueLines([]kvPair{
		{"Game version", result.GameVersion},
		{"Assemblies", fmt.Sprintf("%d refreshed", len(result.Copied))},
		{"Reference source", reference},
	})}
	if result.DecompileErr != nil {
		details = append(details,
			symWarning()+" "+cliWarn.Render("Decompilation failed; Libraries/ are still current. Rerun with -g to retry."))
	}
	return details
}

// Execute runs the root command.
func Execute() error {
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.GetVersion()),
		fang.WithNotifySignal(os.Interrupt),
	)
}
