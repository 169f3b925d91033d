package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// ValidCommitTypes contains all valid Conventional Commits types.
var ValidCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// conventionalSubject matches <type>(<scope>)!: <description>, scope and ! optional.
var conventionalSubject = regexp.MustCompile(`^([a-z]+)(\([^)]+\))?(!)?:\s*(.+)$`)

// Subject returns the first line of msg.
func Subject(msg string) string {
	subject, _, _ := strings.Cut(msg, "\n")
	return strings.TrimRight(subject, "\r")
}

// Lint returns advisory findings about msg. None of them stop delivery;
// the default prompt asks for Conventional Commits but custom prompts need not.
func Lint(msg string) []string {
	var findings []string

	subject := Subject(msg)
	if n := utf8.RuneCountInString(subject); n > MaxSubjectLength {
		findings = append(findings, fmt.Sprintf(
			"subject line exceeds %d characters (%d chars)", MaxSubjectLength, n,
		))
	}

	m := conventionalSubject.FindStringSubmatch(subject)
	switch {
	case m == nil:
		findings = append(findings, "subject does not follow Conventional Commits format")
	case !IsValidCommitType(m[1]):
		findings = append(findings, fmt.Sprintf(
			"unknown commit type: %s (valid types: %s)", m[1], strings.Join(ValidCommitTypes, ", "),
		))
	}

	if rest := strings.SplitN(msg, "\n", 3); len(rest) >= 2 && strings.TrimSpace(rest[1]) != "" {
		findings = append(findings, "body is not separated from subject by a blank line")
	}

	return findings
}

// IsValidCommitType checks if the given type is a valid Conventional Commits type.
func IsValidCommitType(commitType string) bool {
	return slices.Contains(ValidCommitTypes, commitType)
}
