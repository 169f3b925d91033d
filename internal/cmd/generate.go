package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evertjr/llm-commit/internal/app"
	"github.com/evertjr/llm-commit/internal/pkg/config"
	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
	"github.com/evertjr/llm-commit/internal/pkg/git"
	"github.com/evertjr/llm-commit/internal/pkg/ui"
)

// GenerateFlags holds the flags for the generate command.
type GenerateFlags struct {
	OutputFile string
	RepoDirs   []string
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for the staged changes",
		Long: `Generate a commit message for the staged changes of the first Git
repository found and print it to stdout, or write it to a file with --output.

Notices and progress go to stderr, so the message can be piped or captured.

Examples:
  llm-commit generate                   # Print the message
  llm-commit generate -o msg.txt        # Save the message to a file
  llm-commit generate --repo ../api     # Use another repository
  git commit -F <(llm-commit generate)  # Commit with the message`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	addGenerateFlags(cmd, flags)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, flags *GenerateFlags) {
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write the generated message to a file instead of stdout")
	cmd.Flags().StringArrayVar(&flags.RepoDirs, "repo", nil, "Directory to search for a repository (repeatable; default: current directory)")
}

// runGenerate executes the generate command logic. A run that does not
// deliver a message exits with status 1; its notice has already been shown.
func runGenerate(cmd *cobra.Command, flags *GenerateFlags) error {
	var box git.InputBox
	if flags.OutputFile != "" {
		box = git.NewFileBox(flags.OutputFile)
	} else {
		box = git.NewWriterBox(cmd.OutOrStdout(), "stdout")
	}

	outcome, err := runPipeline(cmd, box, flags.RepoDirs)
	if err != nil {
		return err
	}
	if !outcome.Delivered {
		return &ExitError{Code: 1}
	}
	return nil
}

// runPipeline wires the generation service for one invocation and runs it.
func runPipeline(cmd *cobra.Command, box git.InputBox, repoDirs []string) (app.Outcome, error) {
	mgr, err := newConfigManager(cmd)
	if err != nil {
		return app.Outcome{}, err
	}

	// Presentation settings only; the service loads and reports the
	// configuration itself.
	display := config.Config{UI: config.UIConfig{Color: true, Progress: true}}
	if cfg, err := mgr.Load(); err == nil {
		display = *cfg
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	console := ui.NewConsole(cmd.ErrOrStderr(), display.UI.Color && !noColor)

	var progress app.Progress = ui.NoopProgress{}
	if f, ok := stderrFile(cmd); ok && display.UI.Progress && !noProgress && ui.IsTerminal(f) {
		progress = ui.NewProgressBar(f)
	}

	integration := git.NewCLI(
		git.WithSearchDirs(repoDirs...),
		git.WithInputBox(box),
	)

	service := app.NewGenerateService(mgr, integration, console,
		app.WithProgress(progress),
		app.WithLogger(apperrors.Default()),
	)

	outcome := service.Generate(cmd.Context())
	if outcome.Err != nil && apperrors.IsVerbose() {
		fmt.Fprint(cmd.ErrOrStderr(), apperrors.FormatErrorVerbose(outcome.Err))
	}
	return outcome, nil
}
