// Package errors provides error types, handling utilities, and logging for llm-commit.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrorCode identifies a specific failure.
type ErrorCode int

// Configuration errors
const (
	ErrInvalidConfig ErrorCode = 100 + iota
	ErrMissingPrompt
)

// Preconditions that end an invocation quietly
const (
	ErrNoRepository ErrorCode = 200 + iota
	ErrNoStagedChanges
	ErrNoInputBox
)

// Local system failures
const (
	ErrGitUnavailable ErrorCode = 300 + iota
	ErrGitCommandFailed
	ErrFileSystemError
)

// Backend failures
const (
	ErrNetworkError ErrorCode = 400 + iota
	ErrAuthenticationFailed
	ErrEndpointNotFound
	ErrRateLimited
	ErrAPIFailed
)

// Backend answered with nothing usable
const (
	ErrNoChoices ErrorCode = 500 + iota
	ErrEmptyMessage
)

const ErrUnexpected ErrorCode = 900

// Category groups error codes by how the user should read them.
type Category int

const (
	CategoryUnexpected Category = iota
	CategoryConfiguration
	CategoryPrecondition
	CategorySystem
	CategoryTransport
	CategoryProtocol
	CategoryContent
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryConfiguration:
		return "configuration"
	case CategoryPrecondition:
		return "precondition"
	case CategorySystem:
		return "system"
	case CategoryTransport:
		return "transport"
	case CategoryProtocol:
		return "protocol"
	case CategoryContent:
		return "content"
	default:
		return "unexpected"
	}
}

// Severity is the notice level a failure is reported with.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// Severity returns the notice level for the category.
func (c Category) Severity() Severity {
	switch c {
	case CategoryPrecondition:
		return SeverityInfo
	case CategoryContent:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Category returns the category of the error code.
func (c ErrorCode) Category() Category {
	switch {
	case c == ErrNoInputBox:
		// Reported as a warning, like other content problems.
		return CategoryContent
	case c >= 100 && c < 200:
		return CategoryConfiguration
	case c >= 200 && c < 300:
		return CategoryPrecondition
	case c >= 300 && c < 400:
		return CategorySystem
	case c == ErrNetworkError:
		return CategoryTransport
	case c > ErrNetworkError && c < 500:
		return CategoryProtocol
	case c >= 500 && c < 600:
		return CategoryContent
	default:
		return CategoryUnexpected
	}
}

// Severity returns the notice level for the error code.
func (c ErrorCode) Severity() Severity {
	return c.Category().Severity()
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrMissingPrompt:
		return "MissingPrompt"
	case ErrNoRepository:
		return "NoRepository"
	case ErrNoStagedChanges:
		return "NoStagedChanges"
	case ErrNoInputBox:
		return "NoInputBox"
	case ErrGitUnavailable:
		return "GitUnavailable"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrNetworkError:
		return "NetworkError"
	case ErrAuthenticationFailed:
		return "AuthenticationFailed"
	case ErrEndpointNotFound:
		return "EndpointNotFound"
	case ErrRateLimited:
		return "RateLimited"
	case ErrAPIFailed:
		return "APIFailed"
	case ErrNoChoices:
		return "NoChoices"
	case ErrEmptyMessage:
		return "EmptyMessage"
	case ErrUnexpected:
		return "Unexpected"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
	RetryAfter time.Duration // For rate limit errors
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Category returns the category of the error.
func (e *AppError) Category() Category {
	return e.Code.Category()
}

// Severity returns the notice level of the error.
func (e *AppError) Severity() Severity {
	return e.Code.Severity()
}

// Notice returns the text shown to the user for this error.
// The cause is not included; it goes to the log.
func (e *AppError) Notice() string {
	if e.Suggestion == "" {
		return e.Message
	}
	return e.Message + " " + e.Suggestion
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// AsAppError returns err as an AppError, wrapping foreign errors as unexpected.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}
	return NewUnexpectedError(err)
}

// configMissingMessage is shared by every configuration gap that blocks a run.
const configMissingMessage = "LLM Commit configuration is missing (API URL, Model, or Prompt). Please check settings."

// NewInvalidConfigError creates an error for a missing or unusable endpoint or model.
func NewInvalidConfigError(cause error) *AppError {
	return &AppError{
		Code:    ErrInvalidConfig,
		Message: configMissingMessage,
		Cause:   cause,
	}
}

// NewMissingPromptError creates an error for an empty prompt template.
func NewMissingPromptError() *AppError {
	return &AppError{
		Code:    ErrMissingPrompt,
		Message: configMissingMessage,
		Cause:   errors.New("prompt template is empty"),
	}
}

// NewConfigLoadError creates an error for a configuration file that cannot be read.
func NewConfigLoadError(err error) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    fmt.Sprintf("Failed to load LLM Commit configuration: %s", SanitizeErrorMessage(errorText(err))),
		Cause:      err,
		Suggestion: "Run 'llm-commit config init' to create a valid configuration file.",
	}
}

// NewNoRepositoryError creates an error for a workspace without repositories.
func NewNoRepositoryError() *AppError {
	return &AppError{
		Code:    ErrNoRepository,
		Message: "No Git repository found.",
	}
}

// NewNoStagedChangesError creates an error for no staged changes.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:    ErrNoStagedChanges,
		Message: "No staged changes found.",
	}
}

// NewNoInputBoxError creates an error for a repository without a writable message field.
func NewNoInputBoxError() *AppError {
	return &AppError{
		Code:    ErrNoInputBox,
		Message: "Could not find Git commit input box.",
	}
}

// NewGitUnavailableError creates an error for a missing git integration.
func NewGitUnavailableError(err error) *AppError {
	return &AppError{
		Code:       ErrGitUnavailable,
		Message:    "Git is not available.",
		Cause:      err,
		Suggestion: "Please install git and make sure it is on your PATH.",
	}
}

// NewGitError creates an error for a failed staged diff.
// When git wrote to stderr, its first line is the more useful cause.
func NewGitError(err error, output string) *AppError {
	return gitCommandError("Error getting git diff", err, output)
}

// NewRepositoryLookupError creates an error for a failed repository search.
func NewRepositoryLookupError(err error, output string) *AppError {
	return gitCommandError("Error finding Git repository", err, output)
}

func gitCommandError(action string, err error, output string) *AppError {
	detail := errorText(err)
	if first, _, _ := strings.Cut(strings.TrimSpace(output), "\n"); first != "" {
		detail = first
	}
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: fmt.Sprintf("%s: %s", action, detail),
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewFileSystemError creates an error for failed writes to a message surface.
func NewFileSystemError(err error, target string) *AppError {
	return &AppError{
		Code:    ErrFileSystemError,
		Message: fmt.Sprintf("Could not write commit message to %s: %s", target, errorText(err)),
		Cause:   err,
	}
}

// NewNetworkError creates an error for an endpoint that cannot be reached.
func NewNetworkError(err error, endpoint string) *AppError {
	return &AppError{
		Code:    ErrNetworkError,
		Message: fmt.Sprintf("Could not connect to API at %s. Is the service running?", endpoint),
		Cause:   err,
	}
}

// NewAuthenticationError creates an error for authentication failures.
func NewAuthenticationError() *AppError {
	return &AppError{
		Code:    ErrAuthenticationFailed,
		Message: "Authentication failed. Please check your API key.",
	}
}

// NewEndpointNotFoundError creates an error for a 404 from the backend.
func NewEndpointNotFoundError() *AppError {
	return &AppError{
		Code:    ErrEndpointNotFound,
		Message: "API endpoint not found. Please check your API URL.",
	}
}

// NewRateLimitError creates an error for rate limiting.
func NewRateLimitError(retryAfter time.Duration) *AppError {
	return &AppError{
		Code:       ErrRateLimited,
		Message:    "Rate limit exceeded. Please try again later.",
		RetryAfter: retryAfter,
	}
}

// NewAPIError creates an error for any other non-success status.
func NewAPIError(status int, message string) *AppError {
	return &AppError{
		Code:    ErrAPIFailed,
		Message: fmt.Sprintf("API Error (%d): %s", status, message),
	}
}

// NewNoChoicesError creates an error for a success response without choices.
func NewNoChoicesError() *AppError {
	return &AppError{
		Code:    ErrNoChoices,
		Message: "API returned no choices.",
	}
}

// NewEmptyMessageError creates an error for a response that sanitizes to nothing.
func NewEmptyMessageError() *AppError {
	return &AppError{
		Code:    ErrEmptyMessage,
		Message: "API returned an empty message.",
	}
}

// NewUnexpectedError creates an error for anything outside the taxonomy.
func NewUnexpectedError(err error) *AppError {
	msg := "An unknown error occurred while generating the commit message."
	if text := errorText(err); text != "" {
		msg = "Error: " + SanitizeErrorMessage(text)
	}
	return &AppError{
		Code:    ErrUnexpected,
		Message: msg,
		Cause:   err,
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ParseRetryAfterHeader parses the Retry-After header value.
// It handles both seconds (integer) and HTTP-date formats.
func ParseRetryAfterHeader(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		duration := time.Until(t)
		if duration > 0 {
			return duration
		}
	}

	return 0
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are automatically masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s/%s]: %s\n", appErr.Category(), appErr.Code, SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.RetryAfter > 0 {
			sb.WriteString(fmt.Sprintf("  Retry after: %v\n", appErr.RetryAfter))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, SanitizeErrorMessage(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches common API key patterns.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`)
