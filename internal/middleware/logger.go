package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/pkg/utils"
)

// RequestLoggerMiddleware logs one line per request after the handler ran.
func (mw *MiddlewareManager) RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			res := c.Response()
			mw.logger.Infof("RequestID: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s",
				utils.GetRequestID(c), req.Method, req.RequestURI, res.Status, res.Size, time.Since(start))
			return err
		}
	}
}
