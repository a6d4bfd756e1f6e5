package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/pkg/utils"
)

const apiKeyHeader = "X-API-Key"

// ApiKeyMiddleware guards a route group with the static key from the server
// config. An empty configured key disables the check entirely, which is the
// development default.
func (mw *MiddlewareManager) ApiKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			configured := mw.cfg.Server.ApiKey
			if configured == "" {
				return next(c)
			}

			provided := c.Request().Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) != 1 {
				mw.logger.Warnf("invalid api key, RequestID: %s, IP: %s",
					utils.GetRequestID(c), utils.GetIPAddress(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing API Key"})
			}
			return next(c)
		}
	}
}
