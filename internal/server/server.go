// Package server exposes timesheet reports over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 5 * time.Second
	maxUploadBytes  = 32 << 20
)

// Server owns the current dataset and serves reports computed from it.
// Every request recomputes from the dataset it observed when it started.
type Server struct {
	cfg     *contract.Config
	mgr     contract.CacheManager
	logger  *zap.Logger
	current atomic.Pointer[core.Dataset]
	echo    *echo.Echo
}

// New builds a server with its routes registered. The dataset starts empty.
func New(cfg *contract.Config, mgr contract.CacheManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, mgr: mgr, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("32M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	api := e.Group("/api")
	api.GET("/report", s.handleReport)
	api.GET("/months", s.handleMonths)
	api.GET("/projects", s.handleProjects)
	api.GET("/developers", s.handleDevelopers)
	api.GET("/developers/:user", s.handleDeveloperInsights)
	api.GET("/others", s.handleOthers)
	api.POST("/upload", s.handleUpload)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Dataset returns the current dataset, or nil when none is loaded.
func (s *Server) Dataset() *core.Dataset {
	return s.current.Load()
}

// SetDataset swaps the current dataset. In-flight requests keep the one they loaded.
func (s *Server) SetDataset(ds *core.Dataset) {
	s.current.Store(ds)
}

// LoadInput loads cfg.InputPath (or the newest cached dataset) as the current dataset.
func (s *Server) LoadInput() error {
	ds, err := core.LoadDataset(s.cfg, s.mgr)
	if err != nil {
		return err
	}
	s.SetDataset(ds)
	s.logger.Info("dataset loaded",
		zap.String("name", ds.Name),
		zap.Int("records", len(ds.Records)),
		zap.Int("dropped", ds.Stats.Dropped()))
	return nil
}

// Run serves HTTP on cfg.ServeAddr until ctx is done. With cfg.Watch it also
// reloads cfg.InputPath whenever the file changes.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", s.cfg.ServeAddr))
		if err := s.echo.Start(s.cfg.ServeAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	if s.cfg.Watch && s.cfg.InputPath != "" {
		g.Go(func() error {
			return s.watch(gctx, s.cfg.InputPath)
		})
	}

	return g.Wait()
}
