package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraylab/beamtune/internal/config"
)

func TestNewRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("backend"))
	assert.Contains(t, cmd.Version, "dev")
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	sub, _, err := cmd.Find([]string{"demo-backend"})
	require.NoError(t, err)
	assert.Equal(t, "demo-backend", sub.Name())
	assert.NotNil(t, sub.Flags().Lookup("listen"))

	alias, _, err := cmd.Find([]string{"demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo-backend", alias.Name())

	for _, name := range []string{"tui", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestVersionCommand_Output(t *testing.T) {
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "beamtune dev")
}

func TestInitConfig_FlagOverrides(t *testing.T) {
	cfg, err := initConfig(&RootOptions{
		LogLevel: "debug",
		Backend:  "http://analysis.internal:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://analysis.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, config.DefaultLinearDebounce, cfg.Engine.LinearDebounce)
}

func TestInitConfig_RejectsInvalidOverride(t *testing.T) {
	_, err := initConfig(&RootOptions{Backend: "ftp://nope"})
	assert.Error(t, err)
}

func TestInitConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beamtune.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: http://filehost:5000\n"), 0o644))

	cfg, err := initConfig(&RootOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://filehost:5000", cfg.Backend.BaseURL)
}

func TestInitConfig_MissingExplicitFile(t *testing.T) {
	_, err := initConfig(&RootOptions{ConfigPath: "/nonexistent/beamtune.yaml"})
	assert.Error(t, err)
}

func TestInitLogger_OverridesOutput(t *testing.T) {
	cfg, err := initConfig(&RootOptions{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tune.log")
	logger, err := initLogger(cfg, path)
	require.NoError(t, err)
	logger.Info("hello")
}
