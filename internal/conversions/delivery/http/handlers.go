package http

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/substratal/mediagrab/internal/conversions"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/pkg/utils"
)

type conversionHandlers struct {
	conversionUC conversions.UseCase
}

func NewConversionHandlers(conversionUC conversions.UseCase) conversions.Handler {
	return &conversionHandlers{
		conversionUC: conversionUC,
	}
}

func (h *conversionHandlers) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &models.CreateConversionRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		job, err := h.conversionUC.Start(c.Request().Context(), req)
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, job)
	}
}

func (h *conversionHandlers) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.conversionUC.List(c.Request().Context()))
	}
}

func (h *conversionHandlers) GetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.conversionUC.Get(c.Request().Context(), c.Param("conversion_id"))
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *conversionHandlers) File() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.conversionUC.Output(c.Request().Context(), c.Param("conversion_id"))
		if err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		if _, err := os.Stat(job.OutputPath); err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found on server"})
		}
		return c.Attachment(job.OutputPath, utils.AttachmentName(job))
	}
}

func (h *conversionHandlers) Cancel() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.conversionUC.Cancel(c.Request().Context(), c.Param("conversion_id")); err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Cancellation requested"})
	}
}

func (h *conversionHandlers) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.conversionUC.Delete(c.Request().Context(), c.Param("conversion_id")); err != nil {
			return c.JSON(utils.StatusFromError(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Conversion deleted successfully"})
	}
}

func (h *conversionHandlers) Formats() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.conversionUC.Formats())
	}
}
