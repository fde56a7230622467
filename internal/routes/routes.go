package routes

import (
	"sentiment-webapi/internal/bootstrap"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, logger *zap.Logger, components *bootstrap.AppComponents) {
	logger.Info("Setting up application routes...")

	app.Get("/health", components.HealthHandler.Health)

	// HTML pages
	components.PageHandler.SetupPageRoutes(app)

	// Analysis submissions: POST /predict, POST /analyze/file
	components.PredictionHandler.SetupPredictionRoutes(app)

	// Request history: /api/requests, /api/request/:log_id[/delete|/download]
	components.RequestLogHandler.SetupRequestLogRoutes(app)
}
