package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beamtune.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
backend:
  base_url: http://analysis.internal:8080
  timeout: 10s
engine:
  linear_debounce: 50ms
  planar_debounce: 200ms
  live_mode: false
tui:
  start_mode: planar
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://analysis.internal:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.LinearDebounce)
	assert.Equal(t, 200*time.Millisecond, cfg.Engine.PlanarDebounce)
	assert.False(t, cfg.Engine.LiveMode)
	assert.Equal(t, "planar", cfg.TUI.StartMode)

	// Unset sections still get defaults.
	assert.Equal(t, DefaultDemoListenAddr, cfg.Demo.ListenAddr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `
backend:
  base_url: "not a url at all ://"
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendBaseURL, cfg.Backend.BaseURL)
	assert.True(t, cfg.Engine.LiveMode)
	assert.True(t, cfg.Engine.ShowCurrent)
}

func TestLoadFromEnv_Override(t *testing.T) {
	t.Setenv("BEAMTUNE_BACKEND_BASE_URL", "http://env.example.com")
	t.Setenv("BEAMTUNE_TUI_START_MODE", "planar")
	t.Setenv("BEAMTUNE_ENGINE_LINEAR_DEBOUNCE", "75ms")
	t.Setenv("BEAMTUNE_ENGINE_LIVE_MODE", "false")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "planar", cfg.TUI.StartMode)
	assert.Equal(t, 75*time.Millisecond, cfg.Engine.LinearDebounce)
	assert.False(t, cfg.Engine.LiveMode)
}

func TestWatch_DeliversUpdatedConfig(t *testing.T) {
	path := writeConfigFile(t, "engine:\n  linear_debounce: 100ms\n")

	updated := make(chan *Config, 1)
	Watch(path, func(cfg *Config) {
		select {
		case updated <- cfg:
		default:
		}
	})

	// Give the watcher a moment to start before rewriting.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  linear_debounce: 250ms\n"), 0o644))

	select {
	case cfg := <-updated:
		assert.Equal(t, 250*time.Millisecond, cfg.Engine.LinearDebounce)
	case <-time.After(3 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
