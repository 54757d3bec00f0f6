package config

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)

	registry, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []layout.LanguageTag{"en", "ru"}, registry.Tags())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LAYOUTCAST_LAYOUTS", "en; ru ;de")
	t.Setenv("LAYOUTCAST_POLL_INTERVAL", "250ms")
	t.Setenv("LAYOUTCAST_JOURNAL", "json")
	t.Setenv("LAYOUTCAST_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "ru", "de"}, cfg.Layouts)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, JournalJSON, cfg.Journal.Kind)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "layoutcast:events", cfg.Redis.Channel)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LAYOUTCAST_LAYOUTS", "en;ru")
	t.Setenv("LAYOUTCAST_DEBUG", "false")

	cfg, err := Load([]string{"-layouts", "de;fr;;uk", "-debug", "-journal", "none", "-poll-interval", "1s"})
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "fr", "uk"}, cfg.Layouts)
	assert.True(t, cfg.Debug)
	assert.Equal(t, JournalNone, cfg.Journal.Kind)
	assert.Equal(t, time.Second, cfg.PollInterval)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string][]string{
		"no layouts":       {"-layouts", ";"},
		"bad layout":       {"-layouts", "en;!!"},
		"duplicate layout": {"-layouts", "en;eng"},
		"zero interval":    {"-poll-interval", "0s"},
		"zero bus buffer":  {"-bus-buffer", "0"},
		"unknown journal":  {"-journal", "postgres"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(args)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadBadFlag(t *testing.T) {
	_, err := Load([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestJournalFile(t *testing.T) {
	cfg := Defaults()
	cfg.Journal.Path = filepath.Join(t.TempDir(), "j.db")

	path, err := cfg.JournalFile()
	require.NoError(t, err)
	assert.Equal(t, cfg.Journal.Path, path)
}
