package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Success(t *testing.T) {
	logger := New("test-package")

	assert.NotNil(t, logger)
	assert.IsType(t, &slogLogger{}, logger)
}

func TestNewWithConfig_JSONFormat(t *testing.T) {
	config := Config{
		Name:   "test-service",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
	}

	logger := NewWithConfig(config)

	assert.NotNil(t, logger)
	assert.IsType(t, &slogLogger{}, logger)
}

func TestNewWithConfig_WritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "buffered",
		Format: FormatJSON,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	logger.Info("hello", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "hello")
	assert.Contains(t, output, "buffered")
	assert.Contains(t, output, "value")
}

func TestTraceFromContext_ExtractsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "traced",
		Format: FormatJSON,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	ctx := ContextWithTraceID(context.Background(), "trace-abc-123")
	logger.TraceFromContext(ctx).Info("test message")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "traceID")
	assert.Contains(t, output, "trace-abc-123")
}

func TestTraceFromContext_NoTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "traced",
		Format: FormatJSON,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	logger.TraceFromContext(context.Background()).Info("untraced message")

	output := buf.String()
	assert.Contains(t, output, "untraced message")
	assert.NotContains(t, output, "traceID")
}

func TestTraceIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))
}

func TestWith_ChainMethod(t *testing.T) {
	logger := New("test")

	newLogger := logger.With("key1", "value1")

	assert.NotNil(t, newLogger)
	assert.IsType(t, &slogLogger{}, newLogger)
}

func TestFunction_Method(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "test",
		Format: FormatJSON,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	logger.Function("handleLogin").Info("called")

	assert.Contains(t, buf.String(), "handleLogin")
}

func TestTimer_Functionality(t *testing.T) {
	logger := New("test")

	done := logger.Timer("test operation")

	assert.NotNil(t, done)
	done()
}

func TestError_ReturnsError(t *testing.T) {
	logger := New("test")

	err := logger.Error("test error message")

	assert.Error(t, err)
	assert.Equal(t, "test error message", err.Error())
}

func TestErrorWithType_WrapsSentinel(t *testing.T) {
	logger := New("test")
	sentinel := errors.New("validation error")

	err := logger.ErrorWithType(sentinel, "title is required")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, strings.Contains(err.Error(), "title is required"))
}

func TestErr_ReturnsOriginalError(t *testing.T) {
	logger := New("test")
	original := errors.New("db down")

	err := logger.Err("failed to query", original, "table", "users")

	assert.Equal(t, original, err)
}

func TestErrMsg_ReturnsMessageError(t *testing.T) {
	logger := New("test")

	err := logger.ErrMsg("something went wrong")

	assert.Error(t, err)
	assert.Equal(t, "something went wrong", err.Error())
}
