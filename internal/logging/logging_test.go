package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "carbook.log")
	logger, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", zap.String("key", "selectedBrand"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "dropped")
	assert.Contains(t, string(raw), `"msg":"kept"`)
	assert.Contains(t, string(raw), `"key":"selectedBrand"`)
	assert.Contains(t, string(raw), `"time":`)
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New(Options{Level: "error", Verbose: true, File: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
