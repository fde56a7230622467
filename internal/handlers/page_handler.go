package handlers

import (
	"errors"

	mw "sentiment-webapi/internal/middleware"
	"sentiment-webapi/internal/models"
	"sentiment-webapi/internal/services"
	"sentiment-webapi/internal/views"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PageHandler serves the HTML views. Every page carries the request history
// sidebar, newest first.
type PageHandler struct {
	requestLogService services.RequestLogService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(requestLogService services.RequestLogService) *PageHandler {
	return &PageHandler{requestLogService: requestLogService}
}

// Home handles GET / and shows the entry named by ?log_id= when present.
func (h *PageHandler) Home(c *fiber.Ctx) error {
	var selected *models.RequestLogEntry
	if logID := c.Query("log_id"); logID != "" {
		entry, err := h.requestLogService.Get(c.Context(), logID)
		switch {
		case err == nil:
			selected = entry
		case errors.Is(err, services.ErrRequestNotFound):
			mw.GetRequestFileLogger(c).Debug("Selected request not in history", zap.String("log_id", logID))
		default:
			return err
		}
	}
	return renderPage(c, h.requestLogService, views.PageIndex, fiber.Map{
		"Title":    "History",
		"Selected": selected,
	})
}

// TextForm handles GET /analyze/text
func (h *PageHandler) TextForm(c *fiber.Ctx) error {
	return renderPage(c, h.requestLogService, views.PageText, fiber.Map{"Title": "Analyze text", "Review": ""})
}

// FileForm handles GET /analyze/file
func (h *PageHandler) FileForm(c *fiber.Ctx) error {
	return renderPage(c, h.requestLogService, views.PageFile, fiber.Map{"Title": "Analyze file", "FeatureColumn": ""})
}

// renderPage adds the history sidebar to data and renders page in the layout.
func renderPage(c *fiber.Ctx, requestLogService services.RequestLogService, page string, data fiber.Map) error {
	data["Requests"] = requestLogService.ListRecentFirst(c.Context())
	return c.Render(page, data, views.Layout)
}

// SetupPageRoutes registers the HTML routes
func (h *PageHandler) SetupPageRoutes(router fiber.Router) {
	router.Get("/", h.Home)
	router.Get("/analyze/text", h.TextForm)
	router.Get("/analyze/file", h.FileForm)
}
