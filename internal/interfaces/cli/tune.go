package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/arraylab/beamtune/internal/config"
	"github.com/arraylab/beamtune/internal/engine"
	httpiface "github.com/arraylab/beamtune/internal/interfaces/http"
	"github.com/arraylab/beamtune/internal/interfaces/tui"
	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/internal/metrics"
	"github.com/arraylab/beamtune/pkg/client"
)

// runTune wires config → client → engine → TUI and blocks until the user
// quits.
func runTune(opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg, cfg.TUI.LogFile)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	if opts.Demo {
		stop, addr := startInProcessDemo(cfg, logger)
		defer stop()
		cfg.Backend.BaseURL = "http://" + addr
	}

	api, err := newBackendClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	// Engine events fan into the TUI program through a buffered channel; a
	// dropped notification only delays a repaint until the next one.
	events := make(chan engine.Event, 256)
	eng, err := engine.New(engine.Options{
		Client:         api,
		Logger:         logger,
		Metrics:        metrics.NewRecorder(),
		LinearDebounce: cfg.Engine.LinearDebounce,
		PlanarDebounce: cfg.Engine.PlanarDebounce,
		LiveMode:       cfg.Engine.LiveMode,
		ShowCurrent:    cfg.Engine.ShowCurrent,
		StartMode:      cfg.TUI.StartMode,
		OnEvent: func(ev engine.Event) {
			select {
			case events <- ev:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	// Debounce intervals follow config file edits without a restart.
	if opts.ConfigPath != "" {
		config.Watch(opts.ConfigPath, func(next *config.Config) {
			eng.SetDebounce(next.Engine.LinearDebounce, next.Engine.PlanarDebounce)
			logger.Info("debounce intervals reloaded",
				logging.Duration("linear", next.Engine.LinearDebounce),
				logging.Duration("planar", next.Engine.PlanarDebounce))
		})
	}

	return tui.Run(tui.Config{Engine: eng, Events: events, Logger: logger})
}

func newBackendClient(cfg *config.Config, logger logging.Logger) (*client.Client, error) {
	clOpts := []client.Option{
		client.WithTimeout(cfg.Backend.Timeout),
		client.WithLogger(printfLogger{logger.Named("client")}),
	}
	if cfg.Backend.UserAgent != "" {
		clOpts = append(clOpts, client.WithUserAgent(cfg.Backend.UserAgent))
	}
	return client.NewClient(cfg.Backend.BaseURL, clOpts...)
}

// startInProcessDemo serves the bundled backend from this process and
// returns its dial address.  Shutdown errors are logged, not returned; the
// tuner is already exiting when stop runs.
func startInProcessDemo(cfg *config.Config, logger logging.Logger) (stop func(), addr string) {
	srv := httpiface.NewServer(cfg.Demo, logger.Named("demo"), metrics.NewServerMetrics())
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("demo backend stopped", logging.Err(err))
		}
	}()

	addr = cfg.Demo.ListenAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	stop = func() {
		if err := srv.Stop(context.Background()); err != nil {
			logger.Warn("demo backend shutdown", logging.Err(err))
		}
	}
	return stop, addr
}

// printfLogger adapts the structured logger to the client's printf-style
// interface.
type printfLogger struct {
	l logging.Logger
}

func (p printfLogger) Debugf(format string, args ...interface{}) {
	p.l.Debug(fmt.Sprintf(format, args...))
}

func (p printfLogger) Infof(format string, args ...interface{}) {
	p.l.Info(fmt.Sprintf(format, args...))
}

func (p printfLogger) Errorf(format string, args ...interface{}) {
	p.l.Error(fmt.Sprintf(format, args...))
}
