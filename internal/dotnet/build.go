// Package dotnet drives the external .NET compiler for mod builds.
package dotnet

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/hos-modding/hosmod/internal/config"
	"github.com/hos-modding/hosmod/internal/execx"
)

// buildTool is the compiler binary expected on PATH.
const buildTool = "dotnet"

// Build compiles the project in Release configuration and returns the
// artifact path. The tool's exit status is the sole success signal: a
// non-zero exit yields a *BuildError carrying the captured output, and a
// zero exit without the expected artifact yields ErrArtifactMissing so
// operators can tell a rejected build from a lying compiler.
func Build(ctx context.Context, runner execx.Runner, root string, cfg *config.Config, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	project := cfg.ProjectFile(root)
	if _, err := os.Stat(project); err != nil {
		return "", fmt.Errorf("dotnet: project file not found at %s: %w", project, err)
	}

	logger.Info("building", "project", cfg.Project.File, "configuration", "Release")
	output, err := runner.Run(ctx, root, buildTool, "build", project, "--configuration", "Release")
	if err != nil {
		if execx.IsNotInstalled(err) {
			return "", fmt.Errorf("dotnet: the %q tool is not on PATH; install the .NET SDK: %w", buildTool, err)
		}
		return "", &BuildError{Project: cfg.Project.File, Output: string(output), Err: err}
	}

	artifact := cfg.ArtifactPath(root)
	if _, err := os.Stat(artifact); err != nil {
		return "", fmt.Errorf("%w: expected it at %s", ErrArtifactMissing, artifact)
	}
	logger.Debug("build artifact ready", "path", artifact)
	return artifact, nil
}
