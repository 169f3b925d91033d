// Package config provides configuration management for llm-commit.
package config

import "strings"

// DefaultMaxDiffLength is the diff length used when none is configured.
const DefaultMaxDiffLength = 4000

// DefaultTimeoutSeconds bounds a single completion request.
const DefaultTimeoutSeconds = 120

// DefaultPrompt is the built-in prompt template. The first {diff} is
// replaced with the staged diff.
const DefaultPrompt = `You are an expert at writing Git commit messages.
Write a concise commit message for the staged changes below.
Follow the Conventional Commits format: <type>(<optional scope>): <description>.
Use the imperative mood, keep the subject under 72 characters, and add a short
body only when the change needs explaining.
Reply with the commit message only, without quotes or any other text.

{diff}`

// Config represents the complete llm-commit configuration.
type Config struct {
	Provider       string   `mapstructure:"provider" yaml:"provider"`
	APIURL         string   `mapstructure:"apiUrl" yaml:"apiUrl"`
	APIKey         string   `mapstructure:"apiKey" yaml:"apiKey"`
	Model          string   `mapstructure:"model" yaml:"model"`
	Prompt         string   `mapstructure:"prompt" yaml:"prompt"`
	MaxDiffLength  int      `mapstructure:"maxDiffLength" yaml:"maxDiffLength"`
	TimeoutSeconds int      `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds"`
	UI             UIConfig `mapstructure:"ui" yaml:"ui"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Color    bool `mapstructure:"color" yaml:"color"`
	Progress bool `mapstructure:"progress" yaml:"progress"`
}

// Keys lists every configuration key accepted by Set and Get.
var Keys = []string{
	"provider",
	"apiUrl",
	"apiKey",
	"model",
	"prompt",
	"maxDiffLength",
	"timeoutSeconds",
	"ui.color",
	"ui.progress",
}

// IsKnownKey reports whether key names a configuration setting.
// Keys are matched case-insensitively, as viper stores them.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// Reader loads the current configuration. Implementations must not cache:
// every call reflects the latest file and environment state.
type Reader interface {
	Load() (*Config, error)
}

// Manager defines the interface for configuration management.
type Manager interface {
	Reader
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
