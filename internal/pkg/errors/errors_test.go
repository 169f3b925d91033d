package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorCode_Category(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected Category
	}{
		{"InvalidConfig", ErrInvalidConfig, CategoryConfiguration},
		{"MissingPrompt", ErrMissingPrompt, CategoryConfiguration},
		{"NoRepository", ErrNoRepository, CategoryPrecondition},
		{"NoStagedChanges", ErrNoStagedChanges, CategoryPrecondition},
		{"NoInputBox", ErrNoInputBox, CategoryContent},
		{"GitUnavailable", ErrGitUnavailable, CategorySystem},
		{"GitCommandFailed", ErrGitCommandFailed, CategorySystem},
		{"FileSystemError", ErrFileSystemError, CategorySystem},
		{"NetworkError", ErrNetworkError, CategoryTransport},
		{"AuthenticationFailed", ErrAuthenticationFailed, CategoryProtocol},
		{"EndpointNotFound", ErrEndpointNotFound, CategoryProtocol},
		{"RateLimited", ErrRateLimited, CategoryProtocol},
		{"APIFailed", ErrAPIFailed, CategoryProtocol},
		{"NoChoices", ErrNoChoices, CategoryContent},
		{"EmptyMessage", ErrEmptyMessage, CategoryContent},
		{"Unexpected", ErrUnexpected, CategoryUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.Category(); got != tt.expected {
				t.Errorf("Category() = %v, want %v", got, tt.expected)
			}
			if got := tt.code.String(); got != tt.name {
				t.Errorf("String() = %v, want %v", got, tt.name)
			}
		})
	}
}

func TestCategory_Severity(t *testing.T) {
	tests := []struct {
		category Category
		expected Severity
	}{
		{CategoryConfiguration, SeverityError},
		{CategoryPrecondition, SeverityInfo},
		{CategorySystem, SeverityError},
		{CategoryTransport, SeverityError},
		{CategoryProtocol, SeverityError},
		{CategoryContent, SeverityWarning},
		{CategoryUnexpected, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			if got := tt.category.Severity(); got != tt.expected {
				t.Errorf("Severity() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewNoStagedChangesError(),
			expected: "No staged changes found.",
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Notice(t *testing.T) {
	err := NewNetworkError(errors.New("dial tcp: connection refused"), "http://127.0.0.1:1234/v1/chat/completions")
	if got := err.Notice(); got != "Could not connect to API at http://127.0.0.1:1234/v1/chat/completions. Is the service running?" {
		t.Errorf("Notice() = %q", got)
	}

	withHint := &AppError{Code: ErrGitUnavailable, Message: "Git is not available.", Suggestion: "Install git."}
	if got := withHint.Notice(); got != "Git is not available. Install git." {
		t.Errorf("Notice() = %q", got)
	}
}

func TestNoticeTexts(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{"config", NewInvalidConfigError(nil), "LLM Commit configuration is missing (API URL, Model, or Prompt). Please check settings."},
		{"prompt", NewMissingPromptError(), "LLM Commit configuration is missing (API URL, Model, or Prompt). Please check settings."},
		{"no repo", NewNoRepositoryError(), "No Git repository found."},
		{"no input box", NewNoInputBoxError(), "Could not find Git commit input box."},
		{"auth", NewAuthenticationError(), "Authentication failed. Please check your API key."},
		{"not found", NewEndpointNotFoundError(), "API endpoint not found. Please check your API URL."},
		{"rate limit", NewRateLimitError(0), "Rate limit exceeded. Please try again later."},
		{"api", NewAPIError(500, "model crashed"), "API Error (500): model crashed"},
		{"no choices", NewNoChoicesError(), "API returned no choices."},
		{"empty", NewEmptyMessageError(), "API returned an empty message."},
		{"git", NewGitError(errors.New("exit status 128"), ""), "Error getting git diff: exit status 128"},
		{"git stderr", NewGitError(errors.New("exit status 128"), "fatal: bad object HEAD\nmore"), "Error getting git diff: fatal: bad object HEAD"},
		{"repository lookup", NewRepositoryLookupError(errors.New("exit status 1"), "fatal: detected dubious ownership"), "Error finding Git repository: fatal: detected dubious ownership"},
		{"unexpected", NewUnexpectedError(errors.New("boom")), "Error: boom"},
		{"unexpected without text", NewUnexpectedError(nil), "An unknown error occurred while generating the commit message."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Notice(); got != tt.expected {
				t.Errorf("Notice() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Code: ErrGitCommandFailed, Message: "git failed"}
	err.WithContext("command", "git diff --staged")
	err.WithContext("exit_code", 1)

	if err.Context["command"] != "git diff --staged" {
		t.Errorf("Context[command] = %v, want 'git diff --staged'", err.Context["command"])
	}
	if err.Context["exit_code"] != 1 {
		t.Errorf("Context[exit_code] = %v, want 1", err.Context["exit_code"])
	}
}

func TestGetAppError(t *testing.T) {
	appErr := NewNoStagedChangesError()
	chained := fmt.Errorf("generate: %w", appErr)

	if got := GetAppError(chained); got != appErr {
		t.Errorf("GetAppError() = %v, want %v", got, appErr)
	}
	if !HasCode(chained, ErrNoStagedChanges) {
		t.Error("HasCode should find the code through the chain")
	}
	if HasCode(errors.New("plain"), ErrNoStagedChanges) {
		t.Error("HasCode should be false for plain errors")
	}
	if IsAppError(errors.New("regular error")) {
		t.Error("IsAppError should return false for regular error")
	}
}

func TestAsAppError(t *testing.T) {
	if AsAppError(nil) != nil {
		t.Error("AsAppError(nil) should be nil")
	}

	plain := AsAppError(errors.New("kaboom"))
	if plain.Code != ErrUnexpected {
		t.Errorf("Code = %v, want %v", plain.Code, ErrUnexpected)
	}

	known := NewEmptyMessageError()
	if AsAppError(known) != known {
		t.Error("AsAppError should return AppErrors unchanged")
	}
}

func TestParseRetryAfterHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "60", 60 * time.Second},
		{"invalid", "invalid", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRetryAfterHeader(tt.header); got != tt.expected {
				t.Errorf("ParseRetryAfterHeader() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	err := NewNetworkError(fmt.Errorf("post: %w", errors.New("connection refused")), "http://localhost:1234")
	err.WithContext("model", "qwen")

	out := FormatErrorVerbose(err)
	for _, want := range []string{"transport/NetworkError", "Error chain:", "connection refused", "model: qwen"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatErrorVerbose() should contain %q, got %q", want, out)
		}
	}

	if FormatErrorVerbose(nil) != "" {
		t.Error("FormatErrorVerbose(nil) should be empty")
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	msg := "request failed for key sk-abcdefghijklmnopqrstuvwxyz"
	got := SanitizeErrorMessage(msg)

	if strings.Contains(got, "abcdefghijklmnop") {
		t.Errorf("key should be masked, got %q", got)
	}
	if !strings.HasSuffix(got, "wxyz") {
		t.Errorf("last four characters should survive, got %q", got)
	}
	if SanitizeErrorMessage("nothing secret") != "nothing secret" {
		t.Error("messages without keys should be unchanged")
	}
}
