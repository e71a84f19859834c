package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpiface "github.com/arraylab/beamtune/internal/interfaces/http"
	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/internal/metrics"
)

// newDemoCmd runs the bundled analysis backend so the tuner works without an
// external service.
func newDemoCmd(opts *RootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:     "demo-backend",
		Aliases: []string{"demo"},
		Short:   "Run the bundled analysis backend",
		Long: "Serves the linear and planar analyze endpoints locally.  Point the tuner\n" +
			"at it with --backend or leave the default address in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, listenAddr)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config, :5000)")

	return cmd
}

func runDemo(opts *RootOptions, listenAddr string) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Demo.ListenAddr = listenAddr
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}

	srv := httpiface.NewServer(cfg.Demo, logger, metrics.NewServerMetrics())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	logger.Info("demo backend listening", logging.String("addr", cfg.Demo.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", logging.String("signal", sig.String()))
		return srv.Stop(context.Background())
	}
}
