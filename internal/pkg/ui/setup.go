package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/evertjr/llm-commit/internal/pkg/provider"
)

// ConfigWriter persists configuration keys.
type ConfigWriter interface {
	Set(key string, value string) error
	GetConfigPath() string
}

// SetupAnswers are the values collected by the setup wizard.
type SetupAnswers struct {
	Provider string
	APIURL   string
	APIKey   string
	Model    string
}

// DefaultAnswers pre-fills the wizard for a preset.
func DefaultAnswers(preset provider.Preset) SetupAnswers {
	answers := SetupAnswers{
		Provider: preset.ID.String(),
		Model:    preset.Model,
	}
	// Only the custom preset reads apiUrl.
	if preset.ID == provider.Custom {
		answers.APIURL = preset.Endpoint
	}
	return answers
}

// ValidateEndpoint accepts an empty value or an absolute http(s) URL.
func ValidateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// ValidateModel rejects a blank model name.
func ValidateModel(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// ApplySetup writes answers through w. Keys the preset does not read are
// cleared.
func ApplySetup(w ConfigWriter, answers SetupAnswers) error {
	preset := findPreset(provider.ParseID(answers.Provider))

	apiURL := strings.TrimSpace(answers.APIURL)
	if preset.ID != provider.Custom {
		apiURL = ""
	}
	apiKey := strings.TrimSpace(answers.APIKey)
	if !preset.UsesCredential {
		apiKey = ""
	}

	values := []struct {
		key   string
		value string
	}{
		{"provider", preset.ID.String()},
		{"apiUrl", apiURL},
		{"apiKey", apiKey},
		{"model", strings.TrimSpace(answers.Model)},
	}

	for _, kv := range values {
		if err := w.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv.key, err)
		}
	}
	return nil
}

func findPreset(id provider.ID) provider.Preset {
	for _, p := range provider.Presets() {
		if p.ID == id {
			return p
		}
	}
	return provider.Presets()[0]
}

// RunInteractiveSetup runs the setup wizard on in/out and saves the result.
func RunInteractiveSetup(ctx context.Context, w ConfigWriter, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Let's set up llm-commit!")
	fmt.Fprintln(out)

	presets := provider.Presets()
	options := make([]huh.Option[string], 0, len(presets))
	for _, p := range presets {
		options = append(options, huh.NewOption(presetLabel(p), p.ID.String()))
	}

	var selected string

	// Stage 1: Select Provider
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select AI Provider").
			Options(options...).
			Value(&selected),
	)).WithInput(in).WithOutput(out).RunWithContext(ctx)
	if err != nil {
		return err
	}

	preset := findPreset(provider.ParseID(selected))
	answers := DefaultAnswers(preset)

	// Stage 2: Details
	var fields []huh.Field

	if preset.ID == provider.Custom {
		fields = append(fields,
			huh.NewInput().
				Title("API URL").
				Description("Chat completions URL of your server").
				Value(&answers.APIURL).
				Validate(ValidateEndpoint),
		)
	}

	if preset.UsesCredential {
		fields = append(fields,
			huh.NewInput().
				Title("API Key").
				Description("Sent as a Bearer token; leave empty if the server needs none").
				Value(&answers.APIKey).
				EchoMode(huh.EchoModePassword),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Model Name").
			Description("Model to use").
			Value(&answers.Model).
			Validate(ValidateModel),
	)

	err = huh.NewForm(huh.NewGroup(fields...)).
		WithInput(in).
		WithOutput(out).
		RunWithContext(ctx)
	if err != nil {
		return err
	}

	if err := ApplySetup(w, answers); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", w.GetConfigPath())
	fmt.Fprintln(out, "Setup complete! Stage some changes and run llm-commit.")
	return nil
}

func presetLabel(p provider.Preset) string {
	switch p.ID {
	case provider.LMStudio:
		return "LM Studio (Local)"
	case provider.Ollama:
		return "Ollama (Local)"
	case provider.OpenAI:
		return "OpenAI"
	default:
		return "Custom (OpenAI-compatible)"
	}
}
