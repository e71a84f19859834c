// Package config defines all configuration structures for beamtune.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/arraylab/beamtune/internal/logging"
)

// BackendConfig holds parameters for the external numeric analysis service.
type BackendConfig struct {
	// BaseURL is the root of the analysis service, e.g. "http://localhost:5000".
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single analyze call.  Zero means no client-side
	// timeout; a slow response is then held open until it resolves, is
	// cancelled, or errors.
	Timeout time.Duration `mapstructure:"timeout"`

	// UserAgent overrides the default User-Agent header when non-empty.
	UserAgent string `mapstructure:"user_agent"`
}

// EngineConfig holds live-analysis engine tunables.  The debounce intervals
// are policy, not mechanism: short for cheap linear recomputation, longer for
// the more expensive planar/3-D upstream work.
type EngineConfig struct {
	LinearDebounce time.Duration `mapstructure:"linear_debounce"`
	PlanarDebounce time.Duration `mapstructure:"planar_debounce"`

	// LiveMode starts the session with automatic analysis on parameter edits.
	LiveMode bool `mapstructure:"live_mode"`

	// ShowCurrent starts the session with the current result included in
	// axis-range derivation.
	ShowCurrent bool `mapstructure:"show_current"`
}

// TUIConfig holds terminal front-end settings.
type TUIConfig struct {
	// StartMode selects the analysis mode shown at startup: "linear" | "planar".
	StartMode string `mapstructure:"start_mode"`

	// LogFile receives log output while the TUI owns the terminal.
	LogFile string `mapstructure:"log_file"`
}

// DemoConfig holds settings for the bundled demo analysis backend.
type DemoConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`

	// Mode is the gin mode: "debug" | "release" | "test".
	Mode string `mapstructure:"mode"`

	// EnableMetrics exposes prometheus metrics on /metrics.
	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// Config is the root configuration structure.  Every component reads its
// settings from the relevant sub-struct.
type Config struct {
	Backend BackendConfig  `mapstructure:"backend"`
	Engine  EngineConfig   `mapstructure:"engine"`
	TUI     TUIConfig      `mapstructure:"tui"`
	Demo    DemoConfig     `mapstructure:"demo"`
	Log     logging.Config `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; treat any error as fatal.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("config: backend.base_url %q is not a valid URL: %w", c.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: backend.base_url scheme %q is invalid; expected http|https", u.Scheme)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("config: backend.timeout must be ≥ 0, got %v", c.Backend.Timeout)
	}

	if c.Engine.LinearDebounce <= 0 {
		return fmt.Errorf("config: engine.linear_debounce must be > 0, got %v", c.Engine.LinearDebounce)
	}
	if c.Engine.PlanarDebounce <= 0 {
		return fmt.Errorf("config: engine.planar_debounce must be > 0, got %v", c.Engine.PlanarDebounce)
	}

	switch c.TUI.StartMode {
	case "linear", "planar":
	default:
		return fmt.Errorf("config: tui.start_mode %q is invalid; expected linear|planar", c.TUI.StartMode)
	}

	if c.Demo.ListenAddr == "" {
		return fmt.Errorf("config: demo.listen_addr is required")
	}
	switch c.Demo.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: demo.mode %q is invalid; expected debug|release|test", c.Demo.Mode)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
