package middleware

import "github.com/gofiber/fiber/v2"

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Constants for middleware keys and values
const (
	// --- Logger Keys ---
	RequestFileLoggerKey   ContextKey = "requestFileLogger"
	RequestSQLiteLoggerKey ContextKey = "requestSQLiteLogger"
	RequestIDHeader                   = "X-Request-ID" // Header name

	// --- AJAX detection ---
	XRequestedWithHeader = "X-Requested-With"
	XMLHttpRequestValue  = "XMLHttpRequest"

	// --- Request ID Key ---
	RequestIDKey ContextKey = "requestID" // Key to store the request ID string in Locals
)

// IsAjax reports whether the request was sent by the page's own script.
// Such requests get JSON back instead of a redirect or a rendered page.
func IsAjax(c *fiber.Ctx) bool {
	return c.Get(XRequestedWithHeader) == XMLHttpRequestValue
}
