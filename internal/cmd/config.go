package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/evertjr/llm-commit/internal/pkg/config"
	"github.com/evertjr/llm-commit/internal/pkg/security"
	"github.com/evertjr/llm-commit/internal/pkg/ui"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage llm-commit configuration",
		Long: `Manage llm-commit configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.llm-commit/config.yaml by default. Every key
can also be set through an LLM_COMMIT_* environment variable, which takes
precedence over the file.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetupCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file with default values.

The configuration file will be created with permissions 0600 (user read/write only)
for security, as it may contain API keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Init(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", mgr.GetConfigPath())
			fmt.Fprintln(cmd.OutOrStdout(), "Edit this file or run 'llm-commit config setup' to choose a provider.")
			return nil
		},
	}
}

// newConfigSetupCmd creates the 'config setup' subcommand.
func newConfigSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Choose a provider interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			return ui.RunInteractiveSetup(cmd.Context(), mgr, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key and save it to the configuration file.

Valid keys: ` + strings.Join(config.Keys, ", ") + `

Examples:
  llm-commit config set provider ollama
  llm-commit config set model llama3.1
  llm-commit config set provider custom
  llm-commit config set apiUrl http://gpu-box:8000/v1/chat/completions
  llm-commit config set maxDiffLength 8000
  llm-commit config set ui.progress false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			if err := mgr.Set(key, value); err != nil {
				return err
			}

			displayValue := value
			if isSecretKey(key) {
				displayValue = security.MaskAPIKey(value)

				// The key is saved either way; a malformed one is only flagged.
				if cfg, err := mgr.Load(); err == nil {
					if err := security.ValidateAPIKeyFormat(cfg.Provider, value); err != nil {
						ui.NewConsole(cmd.ErrOrStderr(), false).Warn(err.Error())
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, displayValue)
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			value, err := mgr.Get(args[0])
			if err != nil {
				return err
			}
			if isSecretKey(args[0]) && value != "" {
				value = security.MaskAPIKey(value)
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all effective configuration values as YAML.

API keys are masked for security, showing only the last 4 characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			cfg, err := mgr.Load()
			if err != nil {
				return err
			}

			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", mgr.GetConfigPath())
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// renderConfig returns cfg as YAML with the API key masked.
func renderConfig(cfg *config.Config) (string, error) {
	masked := *cfg
	if masked.APIKey != "" {
		masked.APIKey = security.MaskAPIKey(masked.APIKey)
	}

	out, err := yaml.Marshal(&masked)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}

func isSecretKey(key string) bool {
	return strings.EqualFold(key, "apiKey")
}
