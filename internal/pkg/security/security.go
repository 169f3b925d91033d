// Package security provides helpers for keeping credentials and diffs where they belong.
package security

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// openAIKeyPattern is the shape of keys issued by api.openai.com.
var openAIKeyPattern = regexp.MustCompile(`^sk-[a-zA-Z0-9_-]{20,}$`)

// MaskAPIKey masks an API key, showing only the last 4 characters.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ValidateAPIKeyFormat checks a credential against what the provider expects.
// Local servers accept anything, including no key at all, so only the openai
// provider is checked.
func ValidateAPIKeyFormat(provider, apiKey string) error {
	if provider != "openai" {
		return nil
	}

	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("API key is required for %s provider", provider)
	}

	if !openAIKeyPattern.MatchString(apiKey) {
		return fmt.Errorf("API key format appears invalid for %s provider (expected format: sk-...)", provider)
	}

	return nil
}

// HasCredential reports whether key should be sent as a Bearer token.
func HasCredential(key string) bool {
	return strings.TrimSpace(key) != ""
}

var logPatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), "sk-****"},
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
}

// SanitizeForLogging masks API keys and bearer tokens in s.
func SanitizeForLogging(s string) string {
	result := s
	for _, p := range logPatterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// IsLocalEndpoint reports whether rawURL points at this machine.
// Unparseable URLs are treated as remote.
func IsLocalEndpoint(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// RemoteEndpointNotice is shown when staged diffs will leave the machine.
func RemoteEndpointNotice(endpoint string) string {
	return fmt.Sprintf("Staged changes will be sent to %s. Do not stage secrets you would not share with that service.", endpoint)
}
