package handlers

import (
	"context"
	"database/sql"
	"time"

	mw "sentiment-webapi/internal/middleware"
	"sentiment-webapi/internal/sentiment"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports liveness and the state of the optional diagnostic
// log database.
type HealthHandler struct {
	sqliteDB *sql.DB // nil when the SQLite sink is disabled
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sqliteDB *sql.DB) *HealthHandler {
	return &HealthHandler{sqliteDB: sqliteDB}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	models := make([]string, len(sentiment.ModelOrder))
	for i, m := range sentiment.ModelOrder {
		models[i] = string(m)
	}
	dbStatus := fiber.Map{}
	if h.sqliteDB != nil {
		pingCtx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()
		if err := h.sqliteDB.PingContext(pingCtx); err == nil {
			dbStatus["sqlite"] = "connected"
		} else {
			dbStatus["sqlite"] = "disconnected"
			mw.GetRequestFileLogger(c).Warn("Health check: SQLite ping failed", zap.Error(err))
		}
	} else {
		dbStatus["sqlite"] = "disabled"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":       "healthy",
		"timestamp":    time.Now().UTC(),
		"models":       models,
		"dependencies": dbStatus,
	})
}
