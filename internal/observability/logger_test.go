package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithoutOutputsIsNop(t *testing.T) {
	logger := New(Config{Level: "debug"})
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "typefast.log")
	logger := New(Config{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1})
	logger.Debug("hidden")
	logger.Info("session complete", zap.Int("wpm", 72))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"session complete"`)
	assert.Contains(t, out, `"wpm":72`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.NotContains(t, out, "hidden")
}

func TestNewConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "bogus", Console: zapcore.AddSync(&buf)})
	logger.Debug("below default level")
	logger.Warn("fallback text used")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.True(t, strings.Contains(out, "WARN"), out)
	assert.Contains(t, out, "typefast.")
	assert.Contains(t, out, "fallback text used")
	assert.NotContains(t, out, "below default level")
}
