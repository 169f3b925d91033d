package errors

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/evertjr/llm-commit/internal/pkg/security"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelError logs only errors.
	LogLevelError LogLevel = iota
	// LogLevelWarn logs warnings and errors.
	LogLevelWarn
	// LogLevelInfo logs info, warnings, and errors.
	LogLevelInfo
	// LogLevelDebug logs everything including debug messages.
	LogLevelDebug
)

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger writes timestamped diagnostic lines. Nothing it writes is a user notice.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	verbose bool
	prefix  string
}

var defaultLogger = NewLogger(os.Stderr, false)

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.verbose = verbose
	if verbose {
		defaultLogger.level = LogLevelDebug
	} else {
		defaultLogger.level = LogLevelError
	}
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
}

// Default returns the process-wide logger.
func Default() *Logger {
	return defaultLogger
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(output io.Writer, verbose bool) *Logger {
	level := LogLevelError
	if verbose {
		level = LogLevelDebug
	}
	return &Logger{
		output:  output,
		level:   level,
		verbose: verbose,
	}
}

// WithRun returns a logger whose lines carry the given run identifier.
// It shares output and level with its parent at the time of the call.
func (l *Logger) WithRun(runID string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		output:  l.output,
		level:   l.level,
		verbose: l.verbose,
		prefix:  "run=" + runID + " ",
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}

	timestamp := time.Now().Format("15:04:05")
	message := security.SanitizeForLogging(fmt.Sprintf(format, args...))
	fmt.Fprintf(l.output, "[%s] %s: %s%s\n", timestamp, level.String(), l.prefix, message)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogLevelError, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogLevelWarn, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogLevelInfo, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogLevelDebug, format, args...)
}

// LogAPIRequest logs an outgoing completion request in verbose mode.
func (l *Logger) LogAPIRequest(endpoint, model string, promptLength int, authenticated bool) {
	if !l.verbose {
		return
	}
	l.Debug("API Request: endpoint=%s, model=%s, prompt_length=%d, auth=%t",
		endpoint, model, promptLength, authenticated)
}

// LogAPIResponse logs a completion response in verbose mode.
func (l *Logger) LogAPIResponse(statusCode int, responseLength int, duration time.Duration) {
	if !l.verbose {
		return
	}
	l.Debug("API Response: status=%d, response_length=%d, duration=%v",
		statusCode, responseLength, duration)
}

// LogTransition logs an orchestrator state change in verbose mode.
func (l *Logger) LogTransition(from, to string) {
	if !l.verbose {
		return
	}
	l.Debug("state %s -> %s", from, to)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}
