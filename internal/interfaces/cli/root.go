// Package cli defines the beamtune command tree: the root command opens the
// interactive tuning screen, `demo` runs the bundled analysis backend, and
// global flags select config file, log level, and backend address.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arraylab/beamtune/internal/config"
	"github.com/arraylab/beamtune/internal/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Backend    string

	// Demo runs the bundled analysis backend in-process and points the
	// tuner at it, so `beamtune --demo` works with no external service.
	Demo bool
}

// NewRootCommand creates the root cobra command.  Running it without a
// subcommand opens the tuning screen.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "beamtune",
		Short: "Interactive antenna-array pattern tuning",
		Long: "beamtune is a live tuning console for linear and planar antenna arrays.\n" +
			"Parameter edits are validated, debounced, and sent to an analysis backend;\n" +
			"results render in the terminal with kept comparison traces.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./beamtune.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.Backend, "backend", "", "analysis backend base URL (default: http://localhost:5000)")
	pf.BoolVar(&opts.Demo, "demo", false, "serve the bundled analysis backend in-process")

	cmd.AddCommand(newTuneCmd(opts), newDemoCmd(opts), newVersionCmd())

	return cmd
}

// newTuneCmd is the explicit form of the default action.
func newTuneCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive tuning screen (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(opts)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "beamtune %s (commit: %s, built: %s)\n",
				Version, GitCommit, BuildDate)
		},
	}
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Backend != "" {
		cfg.Backend.BaseURL = opts.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

func searchPaths() []string {
	paths := []string{"./beamtune.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".beamtune", "config.yaml"))
	}
	return append(paths, "/etc/beamtune/config.yaml")
}

// initLogger builds the process logger.  outputPaths overrides the configured
// destinations; the tuning screen logs to a file because it owns the terminal.
func initLogger(cfg *config.Config, outputPaths ...string) (logging.Logger, error) {
	logCfg := cfg.Log
	if len(outputPaths) > 0 {
		logCfg.OutputPaths = outputPaths
	}
	return logging.NewLogger(logCfg)
}

// Execute is the entry point used by main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
