package http

import (
	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/conversions"
	"github.com/substratal/mediagrab/internal/middleware"
)

func MapConversionRoutes(conversionGroup *echo.Group, h conversions.Handler, mw *middleware.MiddlewareManager) {
	conversionGroup.Use(mw.ApiKeyMiddleware())
	conversionGroup.POST("", h.Create())
	conversionGroup.GET("", h.List())
	conversionGroup.GET("/formats", h.Formats())
	conversionGroup.GET("/:conversion_id", h.GetByID())
	conversionGroup.GET("/:conversion_id/file", h.File())
	conversionGroup.POST("/:conversion_id/cancel", h.Cancel())
	conversionGroup.DELETE("/:conversion_id", h.Delete())
}
