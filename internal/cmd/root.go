// Package cmd contains the CLI command definitions for llm-commit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evertjr/llm-commit/internal/pkg/config"
	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

// ExitError carries a non-zero exit status for a failure that has already
// been reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd creates the root command for llm-commit CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &GenerateFlags{}

	rootCmd := &cobra.Command{
		Use:   "llm-commit",
		Short: "Write commit messages for staged changes with an LLM",
		Long: `llm-commit sends the staged diff of the current Git repository to an
OpenAI-compatible chat completions endpoint (LM Studio, Ollama, OpenAI or
any custom server) and writes the returned commit message.

Run without a subcommand it behaves like 'llm-commit generate'. Install the
prepare-commit-msg hook with 'llm-commit hook install' to have the message
filled in whenever you run 'git commit'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)
			apperrors.SetOutput(cmd.ErrOrStderr())
		},
		// Default action is to run the generate command
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	// Set version template
	rootCmd.SetVersionTemplate(`llm-commit {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.llm-commit/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "Provider to use (lm-studio, ollama, openai, custom)")
	rootCmd.PersistentFlags().String("model", "", "Model to use")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Do not show the progress bar")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Generate flags on the root command for the default action
	addGenerateFlags(rootCmd, flags)

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewHookCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewProvidersCmd())

	return rootCmd
}

// newConfigManager opens the configuration named by --config and applies
// the --provider and --model overrides.
func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	// Flags take highest priority (flags > env > file > defaults) and are
	// never written to the file.
	if providerOverride, _ := cmd.Flags().GetString("provider"); providerOverride != "" {
		mgr.SetOverride("provider", providerOverride)
		apperrors.Debug("Provider overridden via flag: %s", providerOverride)
	}
	if modelOverride, _ := cmd.Flags().GetString("model"); modelOverride != "" {
		mgr.SetOverride("model", modelOverride)
		apperrors.Debug("Model overridden via flag: %s", modelOverride)
	}

	return mgr, nil
}

// stderrFile returns the command's error stream as a file when it is one.
func stderrFile(cmd *cobra.Command) (*os.File, bool) {
	f, ok := cmd.ErrOrStderr().(*os.File)
	return f, ok
}
