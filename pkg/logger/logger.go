// Package logger is a thin structured-logging layer over slog. Loggers are
// immutable; With and its helpers return new instances so a package-level
// logger can be shared freely.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

// DefaultTraceIDKey is the context key trace ids are stored under.
const DefaultTraceIDKey contextKey = "traceID"

// Format selects the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config controls logger construction for callers that need more than the
// New defaults.
type Config struct {
	Name      string
	Format    Format
	Level     slog.Level
	Writer    io.Writer // defaults to os.Stderr
	AddSource bool
}

// Logger is the interface the rest of the codebase logs through. The Err
// family both logs and returns an error so call sites can log and propagate
// in one statement.
type Logger interface {
	Errorf(msg string, errMessage string) error
	Error(msg string, args ...any) error
	ErrorWithType(errType error, msg string, args ...any) error
	Err(msg string, err error, args ...any) error
	ErrMsg(msg string) error
	Er(msg string, err error, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	With(args ...any) Logger
	File(name string) Logger
	Function(name string) Logger
	Timer(msg string) func()

	WithTraceID(traceID string) Logger
	TraceFromContext(ctx context.Context) Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// New returns a logger tagged with the given package name. Output is JSON on
// stderr unless LOG_FORMAT=text; under `go test` all output is discarded.
func New(name string) Logger {
	return &slogLogger{logger: slog.New(defaultHandler()).With("package", name)}
}

func defaultHandler() slog.Handler {
	if underTest() {
		return slog.NewTextHandler(io.Discard, nil)
	}
	if os.Getenv("LOG_FORMAT") == string(FormatText) {
		return slog.Default().Handler()
	}
	return slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// NewWithConfig builds a logger from an explicit Config.
func NewWithConfig(config Config) Logger {
	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == FormatText {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	return &slogLogger{logger: slog.New(handler).With("package", config.Name)}
}

// NewWithContext is New plus any trace id already present on the context.
func NewWithContext(ctx context.Context, name string) Logger {
	return New(name).TraceFromContext(ctx)
}

func underTest() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// ContextWithTraceID stores a trace id on the context.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, DefaultTraceIDKey, traceID)
}

// TraceIDFromContext returns the trace id on the context, or "".
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(DefaultTraceIDKey).(string)
	return traceID
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) File(name string) Logger {
	return l.With("file", name)
}

func (l *slogLogger) Function(name string) Logger {
	return l.With("function", name)
}

func (l *slogLogger) WithTraceID(traceID string) Logger {
	return l.With("traceID", traceID)
}

func (l *slogLogger) TraceFromContext(ctx context.Context) Logger {
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		return l.WithTraceID(traceID)
	}
	return l
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }

// Error logs at error level and returns msg as a new error.
func (l *slogLogger) Error(msg string, args ...any) error {
	l.logger.Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

// ErrorWithType logs at error level and returns msg wrapped in errType, so
// callers can classify the failure with errors.Is.
func (l *slogLogger) ErrorWithType(errType error, msg string, args ...any) error {
	l.logger.Error(msg, args...)
	return fmt.Errorf("%w: %s", errType, msg)
}

// Err logs err under msg and passes it back unchanged.
func (l *slogLogger) Err(msg string, err error, args ...any) error {
	l.logger.Error(msg, append([]any{"error", err}, args...)...)
	return err
}

// Er is Err without the return, for paths that swallow the error.
func (l *slogLogger) Er(msg string, err error, args ...any) {
	l.logger.Error(msg, append([]any{"error", err}, args...)...)
}

func (l *slogLogger) ErrMsg(msg string) error {
	l.logger.Error(msg)
	return fmt.Errorf("%s", msg)
}

func (l *slogLogger) Errorf(msg string, errMessage string) error {
	err := fmt.Errorf("error: %s", errMessage)
	l.logger.Error(msg, "error", err)
	return err
}

// Timer logs the duration of an operation when the returned func runs.
func (l *slogLogger) Timer(msg string) func() {
	start := time.Now()
	l.logger.Debug("Starting", "operation", msg)

	return func() {
		elapsed := time.Since(start)
		l.logger.Info("Timer Completed",
			"operation", msg,
			"duration_ms", elapsed.Milliseconds(),
			"duration", elapsed.String(),
		)
	}
}
