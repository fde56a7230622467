package handlers

import (
	"errors"

	mw "sentiment-webapi/internal/middleware"
	"sentiment-webapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogHandler exposes the request history over JSON.
type RequestLogHandler struct {
	requestLogService services.RequestLogService
}

// NewRequestLogHandler creates a new RequestLogHandler
func NewRequestLogHandler(requestLogService services.RequestLogService) *RequestLogHandler {
	return &RequestLogHandler{requestLogService: requestLogService}
}

// List handles GET /api/requests
func (h *RequestLogHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"requests": h.requestLogService.ListAll(c.Context())})
}

// Get handles GET /api/request/:log_id
func (h *RequestLogHandler) Get(c *fiber.Ctx) error {
	entry, err := h.requestLogService.Get(c.Context(), c.Params("log_id"))
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
		}
		return err
	}
	return c.JSON(entry)
}

// Delete handles POST /api/request/:log_id/delete and goes back home.
func (h *RequestLogHandler) Delete(c *fiber.Ctx) error {
	logID := c.Params("log_id")
	if err := h.requestLogService.Delete(c.Context(), logID); err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			mw.GetRequestFileLogger(c).Info("Delete of unknown request", zap.String("log_id", logID))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request ID not found"})
		}
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Download handles GET /api/request/:log_id/download
func (h *RequestLogHandler) Download(c *fiber.Ctx) error {
	logID := c.Params("log_id")
	data, err := h.requestLogService.Export(c.Context(), logID)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request ID not found"})
		}
		return err
	}
	c.Attachment("request_" + logID + ".json")
	return c.Send(data)
}

// SetupRequestLogRoutes registers the history routes under /api
func (h *RequestLogHandler) SetupRequestLogRoutes(router fiber.Router) {
	api := router.Group("/api")
	api.Get("/requests", h.List)
	api.Get("/request/:log_id", h.Get)
	api.Post("/request/:log_id/delete", h.Delete)
	api.Get("/request/:log_id/download", h.Download)
}
