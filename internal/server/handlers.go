package server

import (
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"

	conversionsHttp "github.com/substratal/mediagrab/internal/conversions/delivery/http"
	conversionsUsecase "github.com/substratal/mediagrab/internal/conversions/usecase"
	downloadsHttp "github.com/substratal/mediagrab/internal/downloads/delivery/http"
	downloadsUsecase "github.com/substratal/mediagrab/internal/downloads/usecase"
	"github.com/substratal/mediagrab/internal/engine"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/middleware"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/sweeper"
	systemHttp "github.com/substratal/mediagrab/internal/system/delivery/http"
	systemUsecase "github.com/substratal/mediagrab/internal/system/usecase"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	downloadEngine := engine.NewDownloadEngine(s.cfg, s.files, s.logger)
	s.downloads = jobs.NewOrchestrator(jobs.Config{
		Kind:          models.KindDownload,
		MaxConcurrent: s.cfg.Downloads.MaxConcurrent,
		QueueSize:     s.cfg.Downloads.QueueSize,
		Timeout:       s.cfg.Downloads.Timeout,
	}, downloadEngine, s.files, s.logger)

	downloadUC := downloadsUsecase.NewDownloadUseCase(s.cfg, s.downloads, s.files, s.logger)

	conversionEngine := engine.NewConversionEngine(s.cfg, s.files, downloadUC, s.logger)
	s.conversions = jobs.NewOrchestrator(jobs.Config{
		Kind:          models.KindConversion,
		MaxConcurrent: s.cfg.Conversions.MaxConcurrent,
		QueueSize:     s.cfg.Conversions.QueueSize,
		Timeout:       s.cfg.Conversions.Timeout,
	}, conversionEngine, s.files, s.logger)

	conversionUC := conversionsUsecase.NewConversionUseCase(s.cfg, s.conversions, s.logger)
	systemUC := systemUsecase.NewSystemUseCase(s.cfg, s.downloads, s.conversions, s.files, engine.NewProbe(s.logger), s.logger)

	downloadHandlers := downloadsHttp.NewDownloadHandlers(downloadUC)
	conversionHandlers := conversionsHttp.NewConversionHandlers(conversionUC)
	systemHandlers := systemHttp.NewSystemHandlers(s.cfg, systemUC)

	s.sweeper = sweeper.NewSweeper(s.cfg, s.files, s.logger, s.downloads, s.conversions)

	mw := middleware.NewMiddlewareManager(s.cfg, s.cfg.Server.CorsOrigins, s.logger)

	e.Use(echoMw.RequestID())
	e.Use(echoMw.Recover())
	e.Use(mw.RequestLoggerMiddleware())
	if s.cfg.Server.RateLimitPerMin > 0 {
		e.Use(mw.RateLimitMiddleware())
	}

	v1 := e.Group("/api/v1")
	downloadGroup := v1.Group("/downloads")
	conversionGroup := v1.Group("/conversions")
	uploadGroup := v1.Group("/uploads")

	systemHttp.MapSystemRoutes(v1, systemHandlers, mw)
	systemHttp.MapUploadRoutes(uploadGroup, systemHandlers, mw)
	downloadsHttp.MapDownloadRoutes(downloadGroup, downloadHandlers, mw)
	conversionsHttp.MapConversionRoutes(conversionGroup, conversionHandlers, mw)

	return nil
}
