package http

import (
	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/downloads"
	"github.com/substratal/mediagrab/internal/middleware"
)

func MapDownloadRoutes(downloadGroup *echo.Group, h downloads.Handler, mw *middleware.MiddlewareManager) {
	downloadGroup.Use(mw.ApiKeyMiddleware())
	downloadGroup.POST("", h.Create())
	downloadGroup.POST("/youtube", h.CreateYoutube())
	downloadGroup.GET("", h.List())
	downloadGroup.GET("/:download_id", h.GetByID())
	downloadGroup.GET("/:download_id/file", h.File())
	downloadGroup.POST("/:download_id/cancel", h.Cancel())
	downloadGroup.DELETE("/:download_id", h.Delete())
}
