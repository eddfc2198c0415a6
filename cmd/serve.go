package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve timesheet reports over an HTTP JSON API.",
	Long: `Start an HTTP server that answers report queries for the loaded timesheet.

Endpoints:
  GET  /api/report?start=&end=     bundle, bucket plan and drop statistics
  GET  /api/months                 months in range with their labels
  GET  /api/projects               month by project table
  GET  /api/developers?limit=      month by developer table
  GET  /api/developers/:user       one developer by project and month
  GET  /api/others                 projects merged into Others
  POST /api/upload                 multipart "file": replace the dataset
  GET  /healthz

Without a file argument the server starts with the newest cached dataset, or
empty until a file is uploaded.

Examples:
  # Serve a file and reload it on every save
  hoursight serve hours.xlsx --watch

  # Listen on all interfaces
  hoursight serve --addr 0.0.0.0:8080`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger, err := newLogger(cfg.Verbose)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		srv := server.New(cfg, cacheManager, logger)
		if err := srv.LoadInput(); err != nil {
			if cfg.InputPath != "" || !errors.Is(err, core.ErrNoInput) {
				return err
			}
			logger.Info("starting without a dataset")
		}

		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

// newLogger builds the production zap logger, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
