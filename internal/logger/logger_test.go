package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileLoggingWritesEntries(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "assetgrip.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
	require.NoError(t, InitWithFileConfig("debug", cfg, false))
	t.Cleanup(func() {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
	})

	Info("catalog loaded", zap.String("category", "Objects"), zap.Int("page", 2))
	Debug("navigation ignored")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	content := string(data)
	require.True(t, strings.Contains(content, "catalog loaded"))
	require.True(t, strings.Contains(content, "navigation ignored"))
	require.True(t, strings.Contains(content, "INFO"))
}

func TestLevelFiltering(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "warn.log")
	require.NoError(t, InitWithFileConfig("warn", DefaultFileConfig(logFile), false))
	t.Cleanup(func() {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
	})

	Info("hidden")
	Warn("shown")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
	require.Contains(t, string(data), "shown")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, "debug", parseLevel("debug").String())
	require.Equal(t, "info", parseLevel("bogus").String())
	require.Equal(t, "error", parseLevel("error").String())
}
