// Package logging provides the structured server-side logger used across the
// lead pipeline. Every entry is sanitized for PII and secrets, size-bounded,
// and written as a single JSON line: ERROR and WARN go to stderr, INFO to
// stdout. Logging never panics; internal failures fall back to a single
// unstructured line so events are never silently lost.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Level is the severity of a log entry.
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
	LevelInfo  Level = "INFO"
)

// Context carries structured debugging fields attached to a log entry. All
// string values are sanitized before emission; a key whose name suggests
// secrecy has its entire value redacted.
type Context map[string]interface{}

const (
	defaultEndpoint    = "unknown"
	defaultEnvironment = "production"
	environmentVar     = "LEADS_APP_ENV"
	timestampLayout    = "2006-01-02T15:04:05.000Z"
)

// Logger writes sanitized, size-bounded structured entries.
type Logger struct {
	stdout io.Writer
	stderr io.Writer
	outLog zerolog.Logger
	errLog zerolog.Logger
}

// New returns a logger bound to the process's standard streams.
func New() *Logger {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters returns a logger bound to the given streams. INFO entries go
// to stdout, ERROR and WARN entries to stderr.
func NewWithWriters(stdout, stderr io.Writer) *Logger {
	return &Logger{
		stdout: stdout,
		stderr: stderr,
		outLog: zerolog.New(stdout),
		errLog: zerolog.New(stderr),
	}
}

// Error logs an event that failed completely and needs attention.
func (l *Logger) Error(message string, ctx Context, endpoint string) {
	l.log(LevelError, message, ctx, endpoint)
}

// Warn logs a degraded but recoverable condition.
func (l *Logger) Warn(message string, ctx Context, endpoint string) {
	l.log(LevelWarn, message, ctx, endpoint)
}

// Info logs an operational event. Use sparingly.
func (l *Logger) Info(message string, ctx Context, endpoint string) {
	l.log(LevelInfo, message, ctx, endpoint)
}

func (l *Logger) log(level Level, message string, ctx Context, endpoint string) {
	writer, emitter := l.stream(level)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(writer, "[LOGGER FAILED] %s\n", message)
		}
	}()

	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if ctx == nil {
		ctx = Context{}
	}

	sanitizedMessage := SanitizeString(truncateMessage(message))
	cleanContext := truncateContext(sanitizeContext(ctx))

	emitter.Log().
		Str("timestamp", time.Now().UTC().Format(timestampLayout)).
		Str("endpoint", endpoint).
		Str("environment", environment()).
		Str("requestId", uuid.NewString()).
		Str("level", string(level)).
		Str("message", sanitizedMessage).
		Str("error_type", inferErrorType(sanitizedMessage, cleanContext)).
		Interface("context", cleanContext).
		Send()
}

func (l *Logger) stream(level Level) (io.Writer, zerolog.Logger) {
	if level == LevelInfo {
		return l.stdout, l.outLog
	}
	return l.stderr, l.errLog
}

// environment reads the deployment environment on every call so that the
// logger has no startup ordering dependency on configuration loading.
func environment() string {
	if env := os.Getenv(environmentVar); env != "" {
		return env
	}
	return defaultEnvironment
}
