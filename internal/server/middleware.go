package server

import (
	"log/slog"
	"time"

	"marketplace-backend/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// requestLogger tags each request with a trace id and logs its start and end.
// A caller supplied X-Trace-ID is kept when it parses as a UUID.
func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		c.Set(traceHeader, traceID)

		ctx := logging.ContextWithTraceID(c.UserContext(), traceID)
		c.SetUserContext(ctx)

		start := time.Now()
		log.DebugContext(ctx, "request started",
			"http_method", c.Method(),
			"http_path", c.Path(),
			"remote_addr", c.IP(),
		)

		err := c.Next()
		if err != nil {
			// Run the error handler now so the logged status is the one sent.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.InfoContext(ctx, "request finished",
			"http_method", c.Method(),
			"http_path", c.Path(),
			"status_code", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}
