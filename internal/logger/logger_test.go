package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasedConstructor(t *testing.T) {
	log := New("aliased")

	assert.NotNil(t, log)
	assert.NotNil(t, log.Function("test"))
	assert.NotNil(t, log.File("test.go"))
	assert.NotNil(t, log.With("key", "value"))
}

func TestAliasedTraceHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-789")

	assert.Equal(t, "trace-789", TraceIDFromContext(ctx))
	assert.NotNil(t, New("aliased").TraceFromContext(ctx))
}

func TestAliasedErrorHelpers(t *testing.T) {
	log := New("aliased")

	original := errors.New("boom")
	assert.Equal(t, original, log.Err("wrapped", original))
	assert.Error(t, log.Error("plain failure"))
}
