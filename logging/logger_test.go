package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_StampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentSimulation, Output: &buf})

	logger.Info("schedule computed", FieldMonths, 12)

	out := buf.String()
	assert.Contains(t, out, "component=simulation")
	assert.Contains(t, out, "months=12")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Component: ComponentApp, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	logger := Discard().WithComponent(ComponentHTTP)
	ctx := NewContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpSimulate).
		WithError(errors.New("boom")).
		WithLoan(1000, 1.2, 2, 0).
		WithError(nil)

	assert.Equal(t, OpSimulate, f[FieldOperation])
	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, 2, f[FieldTermYears])
	assert.Len(t, f.ToSlice(), len(f)*2)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.Equal(t, ComponentApp, cfg.Component)
	assert.NotNil(t, cfg.Output)
	assert.Equal(t, ComponentApp, New(cfg).Component())
}
