package config

import "time"

// Default value constants.  The debounce defaults mirror the interaction
// costs of the two analysis modes: linear recomputation is cheap and reacts
// quickly, planar/3-D recomputation is expensive upstream and waits longer
// for quiescence.
const (
	DefaultBackendBaseURL = "http://localhost:5000"
	DefaultBackendTimeout = 30 * time.Second

	DefaultLinearDebounce = 100 * time.Millisecond
	DefaultPlanarDebounce = 300 * time.Millisecond

	DefaultStartMode = "linear"
	DefaultLogFile   = "beamtune.log"

	DefaultDemoListenAddr = ":5000"
	DefaultDemoMode       = "release"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  The
// loader already registers these defaults with viper; this covers Configs
// constructed directly in code.  Boolean fields with a true default (live
// mode, show-current) are handled only by the loader, since a false value is
// indistinguishable from unset here.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendBaseURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = DefaultBackendTimeout
	}

	if cfg.Engine.LinearDebounce == 0 {
		cfg.Engine.LinearDebounce = DefaultLinearDebounce
	}
	if cfg.Engine.PlanarDebounce == 0 {
		cfg.Engine.PlanarDebounce = DefaultPlanarDebounce
	}

	if cfg.TUI.StartMode == "" {
		cfg.TUI.StartMode = DefaultStartMode
	}
	if cfg.TUI.LogFile == "" {
		cfg.TUI.LogFile = DefaultLogFile
	}

	if cfg.Demo.ListenAddr == "" {
		cfg.Demo.ListenAddr = DefaultDemoListenAddr
	}
	if cfg.Demo.Mode == "" {
		cfg.Demo.Mode = DefaultDemoMode
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
