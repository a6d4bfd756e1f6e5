package http

import (
	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/middleware"
	"github.com/substratal/mediagrab/internal/system"
)

// MapSystemRoutes wires health, status and info. Health stays open so load
// balancers can reach it without credentials.
func MapSystemRoutes(group *echo.Group, h system.Handler, mw *middleware.MiddlewareManager) {
	group.GET("/health", h.Health())
	group.GET("/status", h.Status(), mw.ApiKeyMiddleware())
	group.GET("/info", h.Info(), mw.ApiKeyMiddleware())
}

func MapUploadRoutes(uploadGroup *echo.Group, h system.Handler, mw *middleware.MiddlewareManager) {
	uploadGroup.Use(mw.ApiKeyMiddleware())
	uploadGroup.POST("", h.Upload())
	uploadGroup.GET("/mime-types", h.MimeTypes())
}
