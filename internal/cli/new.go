package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hos-modding/hosmod/internal/assets"
	"github.com/hos-modding/hosmod/internal/config"
	"github.com/hos-modding/hosmod/internal/execx"
	"github.com/hos-modding/hosmod/internal/gamepath"
	"github.com/hos-modding/hosmod/internal/nuget"
	"github.com/hos-modding/hosmod/internal/scaffold"
	"github.com/hos-modding/hosmod/internal/ui"
)

var newCmd = &cobra.Command{
	Use:   "new <destination>",
	Short: "Scaffold a new mod project",
	Long: `Scaffold a new Hex of Steel mod project in the given directory.

The destination gets a ready-to-build project: manifest, C# project and
solution, a Harmony entry point, and the hosmod.yaml pipeline settings.
Libraries/ and decompiled/ are then filled from the installed game so
the first build works immediately.

Missing metadata is collected interactively when run in a terminal;
pass --mod-name and --mod-author (or --non-interactive) to skip the
wizard.

Examples:
  hosmod new winter-war                        Ask for metadata, scaffold ./winter-war/
  hosmod new winter-war --mod-name "Winter War" --mod-author "Jo"
  hosmod new winter-war --non-interactive --mod-name "Winter War" --mod-author "Jo"`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().String("mod-name", "", "Mod display name")
	newCmd.Flags().String("mod-author", "", "Mod author name")
	newCmd.Flags().String("mod-description", "", "One-line mod description")
	newCmd.Flags().Bool("non-interactive", false, "Skip the interactive wizard; use flags only")
	newCmd.Flags().Bool("force", false, "Scaffold into a non-empty directory")
}

func runNew(cmd *cobra.Command, args []string) error {
	name := getStringFlag(cmd, "mod-name")
	author := getStringFlag(cmd, "mod-author")
	description := getStringFlag(cmd, "mod-description")
	nonInteractive := getBoolFlag(cmd, "non-interactive")

	if (name == "" || author == "") && !nonInteractive && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(cmd.OutOrStdout(), renderCard("New mod project",
			"A few questions set up the manifest and build files.\n"+
				cliMuted.Render("Press Esc to cancel.")))
		if err := runNewWizard(&name, &author, &description); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStderr(), "Scaffolding cancelled.")
				return nil
			}
			return fmt.Errorf("wizard failed: %w", err)
		}
	}
	if name == "" {
		return fmt.Errorf("a mod name is required: pass --mod-name or answer the wizard")
	}
	if author == "" {
		return fmt.Errorf("a mod author is required: pass --mod-author or answer the wizard")
	}

	dest, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve destination %q: %w", args[0], err)
	}

	logger := newLogger(getBoolFlag(cmd, "verbose"))

	// Resolve the game install before writing anything so a missing game
	// fails the command while the destination is still untouched.
	paths := gamepath.NewResolver(dest, logger).Resolve()
	if _, err := paths.RequireManagedDir(); err != nil {
		return err
	}
	if _, err := paths.RequireModsDir(); err != nil {
		return err
	}

	meta := scaffold.Derive(name, author, description)
	result, err := scaffold.New(logger).Scaffold(dest, meta, getBoolFlag(cmd, "force"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSuccessCard("Mod project created",
		renderKeyValueLines([]kvPair{
			{"Mod", meta.ModName},
			{"Slug", meta.ModSlug},
			{"Directory", result.Dir},
			{"Files", fmt.Sprintf("%d written", len(result.Files))},
		})))

	cfg, err := config.Load(dest)
	if err != nil {
		return err
	}

	reporter := ui.NewReporter()
	fetcher := nuget.NewClient("", nil, logger)
	refresher := assets.NewRefresher(dest, cfg, paths, execx.System{}, fetcher, logger)
	attachProgress(refresher, reporter)

	refreshed, err := refresher.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("project created at %s, but the first refresh failed: %w", dest, err)
	}
	fmt.Fprintln(out, renderSuccessCard("Libraries refreshed", refreshDetails(refreshed)...))

	steps := fmt.Sprintf(nextStepsFormat, meta.ModClassName, meta.ModName)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprint(out, renderMarkdown(steps))
	} else {
		fmt.Fprint(out, steps)
	}
	return nil
}

// runNewWizard collects missing metadata interactively. Flag values
// pre-fill the fields so a partial flag set only asks for the rest.
func runNewWizard(name, author, description *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Mod name").
			Description("Shown in the game's mod list").
			Validate(requireAnswer("a mod name")).
			Value(name),
		huh.NewInput().
			Title("Author").
			Validate(requireAnswer("an author")).
			Value(author),
		huh.NewInput().
			Title("Description").
			Description("One line, optional").
			Value(description),
	))
	return form.Run()
}

func requireAnswer(what string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("enter %s", what)
		}
		return nil
	}
}

const nextStepsFormat = "## Next steps\n\n" +
	"1. Browse `decompiled/` for the game code you want to change, then write Harmony patches in `%s.cs`.\n" +
	"2. `hosmod -d` builds the mod and stages a package revision under `package/`.\n" +
	"3. `hosmod -d -i` builds and installs into the game; enable **%s** in the game's mod list.\n"

// renderMarkdown renders markdown for terminal display. On any renderer
// failure the raw markdown is returned so the content still reaches the
// user.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
