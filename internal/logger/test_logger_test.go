package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]charmlog.Level{
		"debug":   charmlog.DebugLevel,
		" WARN ":  charmlog.WarnLevel,
		"warning": charmlog.WarnLevel,
		"error":   charmlog.ErrorLevel,
		"":        charmlog.InfoLevel,
		"verbose": charmlog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info("hidden")
	l.Warn("shown", "path", "README.md")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "README.md")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf, JSON: true}).With("run", "r1").Info("classified", "pattern", "Layers")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "classified", entry["msg"])
	assert.Equal(t, "Layers", entry["pattern"])
	assert.Equal(t, "r1", entry["run"])
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})
	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// absent logger falls back to a no-op
	assert.NotPanics(t, func() { FromContext(context.Background()).Error("dropped") })
}
