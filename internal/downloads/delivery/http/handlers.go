package http

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/downloads"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/pkg/utils"
)

type downloadHandlers struct {
	downloadUC downloads.UseCase
}

func NewDownloadHandlers(downloadUC downloads.UseCase) downloads.Handler {
	return &downloadHandlers{
		downloadUC: downloadUC,
	}
}

func (h *downloadHandlers) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.CreateDownloadRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.downloadUC.Start(c.Request().Context(), req)
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, job)
	}
}

// CreateYoutube is the convenience endpoint: url plus an optional quality
// preset, everything else defaulted.
func (h *downloadHandlers) CreateYoutube() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.YoutubeDownloadRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.downloadUC.Start(c.Request().Context(), &models.CreateDownloadRequest{
			URL:     req.URL,
			Quality: req.Quality,
		})
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, job)
	}
}

func (h *downloadHandlers) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.downloadUC.List(c.Request().Context()))
	}
}

func (h *downloadHandlers) GetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.downloadUC.Get(c.Request().Context(), c.Param("download_id"))
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *downloadHandlers) File() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.downloadUC.Output(c.Request().Context(), c.Param("download_id"))
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		if _, err := os.Stat(job.OutputPath); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found on server"})
		}
		return c.Attachment(job.OutputPath, utils.AttachmentName(job))
	}
}

func (h *downloadHandlers) Cancel() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.downloadUC.Cancel(c.Request().Context(), c.Param("download_id")); err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Cancellation requested"})
	}
}

func (h *downloadHandlers) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.downloadUC.Delete(c.Request().Context(), c.Param("download_id")); err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Download deleted successfully"})
	}
}
