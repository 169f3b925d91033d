package ai

import (
	"strings"

	"github.com/evertjr/llm-commit/internal/pkg/config"
	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

const (
	// DiffPlaceholder is replaced with the diff text in prompt templates.
	DiffPlaceholder = "{diff}"
	// TruncationMarker is appended to a diff cut at the length limit.
	TruncationMarker = "\n... (diff truncated)"
)

// TruncateDiff cuts diff to maxLength characters and appends TruncationMarker.
// Diffs within the limit are returned unchanged. maxLength <= 0 uses the default.
func TruncateDiff(diff string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = config.DefaultMaxDiffLength
	}

	// Fast path: byte length bounds rune count.
	if len(diff) <= maxLength {
		return diff
	}

	runes := []rune(diff)
	if len(runes) <= maxLength {
		return diff
	}

	return string(runes[:maxLength]) + TruncationMarker
}

// BuildPrompt renders template with the (possibly truncated) diff.
// Only the first {diff} is substituted; any later occurrence stays literal.
func BuildPrompt(diff, template string, maxLength int) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", apperrors.NewMissingPromptError()
	}

	return strings.Replace(template, DiffPlaceholder, TruncateDiff(diff, maxLength), 1), nil
}
