// Package provider maps configuration onto a concrete LLM endpoint profile.
package provider

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/evertjr/llm-commit/internal/pkg/config"
	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

// ID identifies a provider preset.
type ID int

const (
	LMStudio ID = iota
	Ollama
	OpenAI
	Custom
)

const (
	// DefaultModel is used by every preset except openai when no model is configured.
	DefaultModel = "qwen2.5-coder-7b-instruct"
	// DefaultOpenAIModel is the openai preset's model.
	DefaultOpenAIModel = "gpt-4.1"

	LMStudioEndpoint = "http://127.0.0.1:1234/v1/chat/completions"
	OllamaEndpoint   = "http://127.0.0.1:11434/v1/chat/completions"
	OpenAIEndpoint   = "https://api.openai.com/v1/chat/completions"
	// CustomFallbackEndpoint is used by the custom preset when apiUrl is empty.
	CustomFallbackEndpoint = "http://localhost:1234/v1/chat/completions"
)

// String returns the configuration name of the provider.
func (id ID) String() string {
	switch id {
	case LMStudio:
		return "lm-studio"
	case Ollama:
		return "ollama"
	case OpenAI:
		return "openai"
	default:
		return "custom"
	}
}

// ParseID turns a configured provider name into an ID.
// Empty input selects lm-studio; anything unrecognized is treated as custom.
func ParseID(name string) ID {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lm-studio":
		return LMStudio
	case "ollama":
		return Ollama
	case "openai":
		return OpenAI
	default:
		return Custom
	}
}

// Profile is the resolved endpoint, credential and model for one invocation.
type Profile struct {
	ID          ID
	EndpointURL string
	Credential  string
	Model       string
}

// Resolve builds the profile for id from cfg. It does no validation and no I/O.
// A nil cfg resolves the bare preset.
func Resolve(id ID, cfg *config.Config) Profile {
	var apiURL, apiKey, model string
	if cfg != nil {
		apiURL, apiKey, model = cfg.APIURL, cfg.APIKey, cfg.Model
	}

	p := Profile{ID: id, Model: DefaultModel}

	switch id {
	case LMStudio:
		p.EndpointURL = LMStudioEndpoint
	case Ollama:
		p.EndpointURL = OllamaEndpoint
	case OpenAI:
		p.EndpointURL = OpenAIEndpoint
		p.Credential = apiKey
		p.Model = DefaultOpenAIModel
	default:
		p.ID = Custom
		p.EndpointURL = apiURL
		if p.EndpointURL == "" {
			p.EndpointURL = CustomFallbackEndpoint
		}
		p.Credential = apiKey
	}

	if model != "" {
		p.Model = model
	}

	return p
}

// ResolveConfig parses cfg's provider name and resolves it.
func ResolveConfig(cfg *config.Config) Profile {
	if cfg == nil {
		return Resolve(LMStudio, nil)
	}
	return Resolve(ParseID(cfg.Provider), cfg)
}

// Validate checks that the profile can be sent a request.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.EndpointURL) == "" {
		return apperrors.NewInvalidConfigError(fmt.Errorf("endpoint URL is empty"))
	}
	if strings.TrimSpace(p.Model) == "" {
		return apperrors.NewInvalidConfigError(fmt.Errorf("model is empty"))
	}

	u, err := url.Parse(p.EndpointURL)
	if err != nil {
		return apperrors.NewInvalidConfigError(fmt.Errorf("endpoint URL %q: %w", p.EndpointURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewInvalidConfigError(fmt.Errorf("endpoint URL %q must be an absolute http(s) URL", p.EndpointURL))
	}

	return nil
}

// Preset describes a provider's built-in defaults.
type Preset struct {
	ID             ID
	Endpoint       string
	Model          string
	UsesCredential bool
}

// Presets lists the built-in providers in display order.
func Presets() []Preset {
	ids := []ID{LMStudio, Ollama, OpenAI, Custom}
	presets := make([]Preset, 0, len(ids))
	for _, id := range ids {
		p := Resolve(id, nil)
		presets = append(presets, Preset{
			ID:             id,
			Endpoint:       p.EndpointURL,
			Model:          p.Model,
			UsesCredential: id == OpenAI || id == Custom,
		})
	}
	return presets
}
