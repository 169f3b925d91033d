package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the directory under the user's home holding the config file.
	DefaultConfigDir = ".llm-commit"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
	// EnvPrefix prefixes every environment variable read by llm-commit.
	EnvPrefix = "LLM_COMMIT"
)

// envBindings maps configuration keys to their environment variables.
var envBindings = map[string]string{
	"provider":       "LLM_COMMIT_PROVIDER",
	"apiUrl":         "LLM_COMMIT_API_URL",
	"apiKey":         "LLM_COMMIT_API_KEY",
	"model":          "LLM_COMMIT_MODEL",
	"prompt":         "LLM_COMMIT_PROMPT",
	"maxDiffLength":  "LLM_COMMIT_MAX_DIFF_LENGTH",
	"timeoutSeconds": "LLM_COMMIT_TIMEOUT_SECONDS",
	"ui.color":       "LLM_COMMIT_UI_COLOR",
	"ui.progress":    "LLM_COMMIT_UI_PROGRESS",
}

// ViperManager implements the Manager interface using Viper.
// Every read builds a fresh viper instance, so edits to the file or the
// environment are picked up by the next Load.
type ViperManager struct {
	configPath string
	overrides  map[string]interface{}
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.llm-commit/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config."+DefaultConfigFileExt)
	}

	return &ViperManager{
		configPath: configPath,
		overrides:  make(map[string]interface{}),
	}, nil
}

// newViper returns a viper instance with defaults and the config file set.
// Environment variables are bound only when withEnv is true so that values
// taken from the environment never get written back to the file.
func (m *ViperManager) newViper(withEnv bool) *viper.Viper {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)
	v.SetConfigFile(m.configPath)

	setDefaults(v)

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		bindEnvVars(v)
	}

	return v
}

// bindEnvVars explicitly binds environment variables for all config keys.
// The camelCase keys do not map onto the SNAKE_CASE names automatically.
func bindEnvVars(v *viper.Viper) {
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "lm-studio")
	v.SetDefault("apiUrl", "")
	v.SetDefault("apiKey", "")
	v.SetDefault("model", "")
	v.SetDefault("prompt", DefaultPrompt)
	v.SetDefault("maxDiffLength", DefaultMaxDiffLength)
	v.SetDefault("timeoutSeconds", DefaultTimeoutSeconds)

	v.SetDefault("ui.color", true)
	v.SetDefault("ui.progress", true)
}

// readFile loads the config file into v. A missing file is not an error.
func readFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// Load loads the configuration from file, environment, and defaults.
// Priority: overrides (flags) > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	v := m.newViper(true)
	if err := readFile(v); err != nil {
		return nil, err
	}

	for key, value := range m.overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 since the file may hold an API key.
func (m *ViperManager) Init() error {
	if m.ConfigExists() {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	if err := ensureDir(m.configPath); err != nil {
		return err
	}

	v := m.newViper(false)
	if err := v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key and writes the file.
// Nested keys use dot notation (e.g., "ui.color").
func (m *ViperManager) Set(key string, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
	}

	v := m.newViper(false)
	if err := readFile(v); err != nil {
		return err
	}

	convertedValue, err := convertValue(value, v.Get(key))
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	v.Set(key, convertedValue)

	if err := ensureDir(m.configPath); err != nil {
		return err
	}
	if err := v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// convertValue converts a string value to the type of the existing value.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}

// Get retrieves the effective value of a configuration key.
func (m *ViperManager) Get(key string) (string, error) {
	if !IsKnownKey(key) {
		return "", fmt.Errorf("key not found: %s", key)
	}

	v := m.newViper(true)
	if err := readFile(v); err != nil {
		return "", err
	}
	for k, value := range m.overrides {
		v.Set(k, value)
	}

	return fmt.Sprintf("%v", v.Get(key)), nil
}

// List returns all effective configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	v := m.newViper(true)
	_ = readFile(v)
	for k, value := range m.overrides {
		v.Set(k, value)
	}

	return v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// This is used for command-line flag overrides that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.overrides[key] = value
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
