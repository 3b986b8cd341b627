package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// ServerErrorResponse adds the underlying cause for diagnostics.
type ServerErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// UpstreamErrorResponse is the body of a failed country lookup.
type UpstreamErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func ServerError(c *fiber.Ctx, message string, cause error) error {
	return JSON(c, fiber.StatusInternalServerError, ServerErrorResponse{Message: message, Error: cause.Error()})
}

// RawJSON writes an already-encoded JSON body.
func RawJSON(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}
