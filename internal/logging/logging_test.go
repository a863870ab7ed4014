package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, l)

	l, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, l)

	_, err = ParseLevel("chatty")
	require.Error(t, err)
}

func TestNewWithoutDestinationIsNop(t *testing.T) {
	l, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWritesSessionToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expwiz.log")
	l, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", zap.String("kind", "title"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "title", entry["kind"])
	require.NotEmpty(t, entry["session"])
}
