package middleware

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"memorybook/internal/logging"
)

// Logger is a middleware that logs each HTTP request as one JSON line on stdout.
// Fields: request_id, method, path, status, latency (milliseconds) and ts in loc.
func Logger(loc *time.Location) fiber.Handler {
	return LoggerWithWriter(os.Stdout, loc)
}

// LoggerWithWriter is Logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logging.New(w, loc, slog.LevelInfo)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler runs after us and sets the final status.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		log.LogAttrs(context.Background(), slog.LevelInfo, "http_request",
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)

		return err
	}
}
