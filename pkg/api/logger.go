package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NewLogger emits one structured log event per handled request, levelled
// by response status.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		message := "Handled request"
		if err != nil {
			message = err.Error()
		}

		remoteIP := c.IP()
		if forwardedFor := c.Get(fiber.HeaderXForwardedFor, ""); forwardedFor != "" {
			remoteIP = forwardedFor
		}

		status := c.Response().StatusCode()

		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(startTime)).
			Str("ip", remoteIP).
			Str("agent", c.Get(fiber.HeaderUserAgent)).
			Msg(message)

		return err
	}
}
