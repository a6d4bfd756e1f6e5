package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/system"
)

type systemHandlers struct {
	cfg      *config.Config
	systemUC system.UseCase
}

func NewSystemHandlers(cfg *config.Config, systemUC system.UseCase) system.Handler {
	return &systemHandlers{
		cfg:      cfg,
		systemUC: systemUC,
	}
}

func (h *systemHandlers) Health() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthStatus{
			Status:  "OK",
			Version: h.cfg.Server.AppVersion,
		})
	}
}

func (h *systemHandlers) Status() echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := h.systemUC.Status(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, status)
	}
}

func (h *systemHandlers) Info() echo.HandlerFunc {
	return func(c echo.Context) error {
		url := c.QueryParam("url")
		if url == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query param url is required"})
		}
		info, err := h.systemUC.Info(c.Request().Context(), url)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, info)
	}
}

func (h *systemHandlers) Upload() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		defer src.Close()

		input := &models.UploadInput{
			FileName: fileHeader.Filename,
			Title:    c.FormValue("title"),
			Size:     fileHeader.Size,
			Content:  src,
		}
		job, err := h.systemUC.Upload(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, job)
	}
}

func (h *systemHandlers) MimeTypes() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]map[string]string{
			"mime_types": h.systemUC.MimeTypes(),
		})
	}
}
