package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
	"github.com/evertjr/llm-commit/internal/pkg/git"
)

// executablePath is a variable to allow substitution in tests.
var executablePath = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// NewHookCmd creates the hook command and its subcommands.
func NewHookCmd() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the prepare-commit-msg Git hook",
		Long: `Manage the prepare-commit-msg hook that fills in the commit message
whenever 'git commit' opens the editor without a message.

Commits made with -m, -F, merges, squashes and amends are left untouched.`,
	}

	hookCmd.AddCommand(newHookInstallCmd())
	hookCmd.AddCommand(newHookUninstallCmd())
	hookCmd.AddCommand(newHookRunCmd())

	return hookCmd
}

func newHookInstallCmd() *cobra.Command {
	var force bool
	var repoDirs []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.FirstRepository(cmd.Context(), repoDirs...)
			if err != nil {
				return err
			}

			exe, err := executablePath()
			if err != nil {
				return fmt.Errorf("failed to locate llm-commit executable: %w", err)
			}

			hookPath, err := git.InstallHook(cmd.Context(), repo, exe, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s hook at %s\n", git.HookName, hookPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing hook not written by llm-commit")
	cmd.Flags().StringArrayVar(&repoDirs, "repo", nil, "Repository directory (default: current directory)")
	return cmd
}

func newHookUninstallCmd() *cobra.Command {
	var repoDirs []string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the prepare-commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.FirstRepository(cmd.Context(), repoDirs...)
			if err != nil {
				return err
			}

			hookPath, err := git.UninstallHook(cmd.Context(), repo)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s hook from %s\n", git.HookName, hookPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&repoDirs, "repo", nil, "Repository directory (default: current directory)")
	return cmd
}

// newHookRunCmd is what the installed hook executes. It never fails, so a
// broken backend cannot block a commit.
func newHookRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "run <message-file> [source] [sha]",
		Short:  "Fill the commit message file (called by Git)",
		Hidden: true,
		Args:   cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) > 1 {
				source = args[1]
			}
			if !git.ShouldGenerate(source) {
				apperrors.Debug("hook: commit source %q already has a message", source)
				return nil
			}

			box := git.OpenCommitMessageFile(args[0], git.CommentChar(cmd.Context(), "."))
			if _, err := runPipeline(cmd, box, nil); err != nil {
				apperrors.Debug("hook: %v", err)
			}
			return nil
		},
	}
}
