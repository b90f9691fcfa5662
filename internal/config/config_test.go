package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgrip/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), FileName), nil)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	svc := NewConfigServiceAt(path, nil)

	cfg := DefaultConfig()
	cfg.Backend.URL = "http://localhost:9000"
	cfg.Backend.Demo = true
	cfg.Browse.PageSize = 120
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[browse]
page_size = 25

[backend]
timeout_seconds = -3
`))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Browse.PageSize)
	assert.Equal(t, 100, cfg.Browse.HistoryLimit)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds, "invalid timeout falls back")
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("[browse\npage_size = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line")

	_, err = Parse([]byte("[browse]\npage_sise = 10\n"))
	require.Error(t, err, "unknown keys are rejected")
}

func TestLoadFromPathNotFound(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), FileName), nil)
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "exports"), ExpandPath("~/exports"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x"))
}

func TestWatcherPublishesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	var mu sync.Mutex
	var got []eventbus.ConfigChangedEvent
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		mu.Lock()
		got = append(got, e.(eventbus.ConfigChangedEvent))
		mu.Unlock()
	})

	svc := NewConfigServiceAt(path, bus)
	w, err := Watch(svc, bus)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	cfg := DefaultConfig()
	cfg.Browse.PageSize = 42
	require.NoError(t, svc.SaveToPath(cfg, path))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range got {
			if e.PageSize == 42 {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		cur := w.Current()
		return cur != nil && cur.Browse.PageSize == 42
	}, 3*time.Second, 20*time.Millisecond)
}
