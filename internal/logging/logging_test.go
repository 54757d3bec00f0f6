package logging

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLevels(t *testing.T) {
	dir := t.TempDir()

	info, err := New(false, filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.False(t, info.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, info.Desugar().Core().Enabled(zapcore.InfoLevel))

	debug, err := New(true, filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.True(t, debug.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestNewWritesToOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := New(false, path)
	require.NoError(t, err)
	log.Infow("layout changed", "layout", "ru")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "layout changed")
	assert.Contains(t, string(data), `"layout": "ru"`)
}
