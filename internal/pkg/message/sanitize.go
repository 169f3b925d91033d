// Package message cleans up and checks commit messages returned by a model.
package message

import (
	"strings"
	"unicode"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
)

var labelPrefixes = []string{"commit message:", "message:"}

// isSpace also treats the byte order mark as whitespace; some servers emit it.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// stripLabel removes prefix from the start of s, ignoring case.
func stripLabel(s, prefix string) string {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s
	}
	return s[len(prefix):]
}

// Sanitize removes surrounding whitespace, one layer of quotes and a leading
// "Commit message:" then "Message:" label from raw model output, in a single
// pass. Stacked wrappers such as nested quotes or a "Message:" label in front
// of a "Commit message:" label keep their inner layer, so Sanitize is only
// idempotent on output without them. An empty result is a content error.
func Sanitize(raw string) (string, error) {
	s := trim(raw)

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = s[1 : len(s)-1]
		}
	}

	for _, prefix := range labelPrefixes {
		s = trim(stripLabel(s, prefix))
	}

	if s == "" {
		return "", apperrors.NewEmptyMessageError()
	}
	return s, nil
}
