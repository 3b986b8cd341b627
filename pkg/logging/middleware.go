package logging

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request after the handler chain returns.
// The request id is read from Locals under requestIDKey (set by Fiber's
// requestid middleware). Register it outside recover so panics arrive here
// as errors; a panic that does pass through is logged and re-raised.
func RequestLogger(log Logger, requestIDKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				args := append(requestFields(c, requestIDKey, fiber.StatusInternalServerError, start), "panic", fmt.Sprint(r))
				log.Error(c.UserContext(), "http request", args...)
				panic(r)
			}
		}()

		err := c.Next()
		if err != nil {
			// let the app ErrorHandler write the response so the status is final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		args := requestFields(c, requestIDKey, status, start)
		ctx := c.UserContext()
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error(ctx, "http request", args...)
		case status >= fiber.StatusBadRequest:
			log.Warn(ctx, "http request", args...)
		default:
			log.Info(ctx, "http request", args...)
		}
		return nil
	}
}

func requestFields(c *fiber.Ctx, requestIDKey string, status int, start time.Time) []any {
	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency_ms", time.Since(start).Milliseconds(),
		"ip", c.IP(),
	}
	if rid, ok := c.Locals(requestIDKey).(string); ok && rid != "" {
		args = append(args, "request_id", rid)
	}
	return args
}
