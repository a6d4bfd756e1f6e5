package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/substratal/mediagrab/pkg/utils"
)

// RateLimitMiddleware bounds each client IP to the configured requests per
// minute with a matching burst. Callers skip installing it when the rate is
// zero or negative.
func (mw *MiddlewareManager) RateLimitMiddleware() echo.MiddlewareFunc {
	perMinute := mw.cfg.Server.RateLimitPerMin
	burst := int(perMinute)
	if burst < 1 {
		burst = 1
	}
	store := echoMw.NewRateLimiterMemoryStoreWithConfig(echoMw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perMinute / 60),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echoMw.RateLimiterWithConfig(echoMw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unable to identify client"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			mw.logger.Warnf("rate limit exceeded, RequestID: %s, IP: %s",
				utils.GetRequestID(c), identifier)
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded. Try again later."})
		},
	})
}
