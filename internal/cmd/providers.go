package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evertjr/llm-commit/internal/pkg/provider"
	"github.com/evertjr/llm-commit/internal/pkg/ui"
)

// NewProvidersCmd creates the providers command.
func NewProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the built-in providers",
		Long: `List the built-in providers with their endpoint, default model and
whether the configured API key is sent.

Select one with 'llm-commit config set provider <name>' or --provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			printPresets(ui.NewConsole(cmd.OutOrStdout(), !noColor), provider.Presets())
			return nil
		},
	}
}

func printPresets(c *ui.Console, presets []provider.Preset) {
	for i, p := range presets {
		if i > 0 {
			c.Muted("")
		}

		name := p.ID.String()
		if p.ID == provider.LMStudio {
			name += " (default)"
		}
		c.Title(name)

		endpoint := p.Endpoint
		if p.ID == provider.Custom {
			endpoint = "apiUrl, or " + p.Endpoint + " when unset"
		}
		c.Muted("  endpoint: " + endpoint)
		c.Muted("  model:    " + p.Model)

		key := "not sent"
		if p.UsesCredential {
			key = "sent as a Bearer token when set"
		}
		c.Muted("  api key:  " + key)
	}
}
