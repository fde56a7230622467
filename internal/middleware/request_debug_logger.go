package middleware

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gofiber/fiber/v2"
)

const maxBodyLogSize = 1024 // Limit body size logged (e.g., 1KB)

// RequestDebugLogger logs detailed request information (headers, body) if the logger level is Debug,
// and also logs response status and latency after the request is handled.
// Multipart uploads are summarized by size; spreadsheet bytes are never dumped.
func RequestDebugLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := GetRequestFileLogger(c)
		startTime := time.Now()
		debug := logger.Core().Enabled(zapcore.DebugLevel)

		if debug {
			headersMap := make(map[string]string)
			c.Request().Header.VisitAll(func(key, value []byte) {
				headerKey := string(key)
				if headerKey == "Authorization" || headerKey == "Cookie" {
					headersMap[headerKey] = "*** HIDDEN ***"
				} else {
					headersMap[headerKey] = string(value)
				}
			})

			logger.Debug("Incoming Request Details",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Bool("ajax", IsAjax(c)),
				zap.Any("headers", headersMap),
				zap.String("body", describeBody(c.BodyRaw(), string(c.Request().Header.ContentType()))),
			)
		}

		err := c.Next()

		if debug {
			fields := []zap.Field{
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(startTime)),
			}
			if strings.Contains(string(c.Response().Header.ContentType()), "json") {
				fields = append(fields, zap.String("response_body", getTruncatedResponseBody(c)))
			}
			logger.Debug("Request Handled", fields...)
		}

		return err
	}
}

func describeBody(body []byte, contentType string) string {
	switch {
	case len(body) == 0:
		return "(Empty Body)"
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		return fmt.Sprintf("(Multipart body, size: %d bytes)", len(body))
	case strings.Contains(contentType, "json") || strings.Contains(contentType, "text") || strings.Contains(contentType, "form"):
		if len(body) > maxBodyLogSize {
			return string(body[:maxBodyLogSize]) + "... (truncated)"
		}
		return string(body)
	default:
		return fmt.Sprintf("(Binary or non-text body, size: %d bytes)", len(body))
	}
}

func getTruncatedResponseBody(c *fiber.Ctx) string {
	respBody := c.Response().Body()
	if len(respBody) == 0 {
		return "(Empty Response Body)"
	}
	if len(respBody) > maxBodyLogSize {
		return string(respBody[:maxBodyLogSize]) + "... (truncated)"
	}
	return string(respBody)
}
