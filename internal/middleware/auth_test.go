package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/pkg/logger"
)

func testLogger() logger.Logger {
	l := logger.NewApiLogger(&config.Config{Logger: config.Logger{
		Level:             "error",
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
	}})
	l.InitLogger()
	return l
}

func doRequest(t *testing.T, apiKey, header string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{ApiKey: apiKey}}
	mw := NewMiddlewareManager(cfg, []string{"*"}, testLogger())

	e := echo.New()
	e.GET("/guarded", func(c echo.Context) error {
		return c.String(http.StatusOK, "through")
	}, mw.ApiKeyMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("X-API-Key", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestApiKeyDisabledWhenUnset(t *testing.T) {
	rec := doRequest(t, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through with no configured key, got %d", rec.Code)
	}
}

func TestApiKeyAcceptsMatch(t *testing.T) {
	rec := doRequest(t, "sekrit", "sekrit")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for matching key, got %d", rec.Code)
	}
}

func TestApiKeyRejectsMissingOrWrong(t *testing.T) {
	for _, provided := range []string{"", "wrong", "SEKRIT"} {
		rec := doRequest(t, "sekrit", provided)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: expected 401, got %d", provided, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid or missing API Key") {
			t.Fatalf("key %q: unexpected body %s", provided, rec.Body.String())
		}
	}
}
