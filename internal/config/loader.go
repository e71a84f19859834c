package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "BEAMTUNE"

// newViper builds a pre-configured Viper instance: YAML file type, BEAMTUNE_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// that nested keys like "backend.base_url" resolve to
// "BEAMTUNE_BACKEND_BASE_URL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Every key must be declared here: AutomaticEnv only surfaces an
	// env-set key to Unmarshal when the key is already registered, and
	// ApplyDefaults cannot distinguish "explicitly false" from "unset"
	// for booleans whose default is true.
	v.SetDefault("backend.base_url", DefaultBackendBaseURL)
	v.SetDefault("backend.timeout", DefaultBackendTimeout)
	v.SetDefault("backend.user_agent", "")
	v.SetDefault("engine.linear_debounce", DefaultLinearDebounce)
	v.SetDefault("engine.planar_debounce", DefaultPlanarDebounce)
	v.SetDefault("engine.live_mode", true)
	v.SetDefault("engine.show_current", true)
	v.SetDefault("tui.start_mode", DefaultStartMode)
	v.SetDefault("tui.log_file", DefaultLogFile)
	v.SetDefault("demo.listen_addr", DefaultDemoListenAddr)
	v.SetDefault("demo.mode", DefaultDemoMode)
	v.SetDefault("demo.enable_metrics", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	return v
}

// Load reads the YAML file at configPath, merges BEAMTUNE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from BEAMTUNE_* environment variables
// and defaults, with no config file required.  This is the path taken when
// the user passes no --config flag.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading the safe subset of settings (debounce intervals, log
// level) while a session is running; callers decide what to apply.
//
// Watch is non-blocking; viper manages the background fsnotify watcher.  A
// change that fails to parse or validate is dropped without invoking
// onChange, so the running session never sees a broken configuration.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should have called Load first, so errors here
	// are ignored.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
