package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gatherly/api/internal/core/usecases"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	IsSuccess  bool        `json:"isSuccess"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
}

// respond writes a response envelope with the given status.
func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		IsSuccess:  status < 400,
		Message:    message,
		StatusCode: status,
		Data:       data,
	})
}

// envBadRequest returns a 400 envelope.
func envBadRequest(c *fiber.Ctx, msg string) error {
	return respond(c, 400, msg, nil)
}

// envUnauthorized returns a 401 envelope.
func envUnauthorized(c *fiber.Ctx, msg string) error {
	return respond(c, 401, msg, nil)
}

// envForbidden returns a 403 envelope.
func envForbidden(c *fiber.Ctx, msg string) error {
	return respond(c, 403, msg, nil)
}

// envNotFound returns a 404 envelope.
func envNotFound(c *fiber.Ctx, msg string) error {
	return respond(c, 404, msg, nil)
}

// envConflict returns a 409 envelope.
func envConflict(c *fiber.Ctx, msg string) error {
	return respond(c, 409, msg, nil)
}

// envInternal returns a 500 envelope with a generic message; the real
// error goes to the log only.
func envInternal(c *fiber.Ctx, err error) error {
	LoggerFromCtx(c.UserContext()).Error("request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return respond(c, 500, "internal server error", nil)
}

// serviceError maps usecase sentinel errors to envelope responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecases.ErrInvalidArgument):
		return envBadRequest(c, err.Error())
	case errors.Is(err, usecases.ErrNotFound):
		return envNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrConflict):
		return envConflict(c, err.Error())
	case errors.Is(err, usecases.ErrForbidden):
		return envForbidden(c, err.Error())
	default:
		return envInternal(c, err)
	}
}
