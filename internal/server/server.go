package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/internal/sweeper"
	"github.com/substratal/mediagrab/pkg/logger"
)

const maxHeaderBytes = 1 << 20

type Server struct {
	echo        *echo.Echo
	cfg         *config.Config
	files       *storage.Manager
	downloads   *jobs.Orchestrator
	conversions *jobs.Orchestrator
	sweeper     *sweeper.Sweeper
	logger      logger.Logger
}

func NewServer(cfg *config.Config, files *storage.Manager, logger logger.Logger) *Server {
	return &Server{
		echo:   echo.New(),
		cfg:    cfg,
		files:  files,
		logger: logger,
	}
}

func (s *Server) Run() error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}

	s.downloads.Start()
	s.conversions.Start()

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if s.cfg.Cleanup.Enabled {
		go s.sweeper.Run(sweepCtx)
	}

	s.echo.Server.MaxHeaderBytes = maxHeaderBytes
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.Server.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-API-Key"},
	}))

	server := &http.Server{
		Addr:         s.cfg.Server.Port,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	go func() {
		s.logger.Infof("server listening on %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("error starting server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit

	ctx, shutdown := context.WithTimeout(context.Background(), s.cfg.Server.CtxDefaultTimeout)
	defer shutdown()
	s.logger.Infof("shutting down server")

	stopSweeper()
	if err := s.echo.Server.Shutdown(ctx); err != nil {
		s.logger.Errorf("http shutdown: %v", err)
	}
	if err := s.downloads.Shutdown(ctx); err != nil {
		s.logger.Warnf("downloads shutdown: %v", err)
	}
	if err := s.conversions.Shutdown(ctx); err != nil {
		s.logger.Warnf("conversions shutdown: %v", err)
		return err
	}
	return nil
}
