package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "text", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "n", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "n=3")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New("info", "JSON", &buf).Info("filled", "bytes", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "filled", rec["msg"])
	assert.Equal(t, float64(12), rec["bytes"])
}

func TestNew_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	New("debug", "text", &buf).Debug("x")
	assert.Contains(t, buf.String(), "source=")
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
