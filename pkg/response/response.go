// Package response provides API response helpers.
//
// Error bodies are always {"error": "..."} with an HTTP status; no richer
// taxonomy is exposed to clients.
package response

import (
	"github.com/gofiber/fiber/v2"

	"smartinbox/pkg/apperr"
)

// OK returns a 200 response with the given body.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

// Redirect returns a 302 redirect.
func Redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusFound)
}

// Error returns an error response with a plain message body.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// BadRequest returns a 400 bad request response.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 unauthorized response.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// InternalError returns a 500 internal server error response.
func InternalError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// FromError maps an error to a response, using the AppError status when present.
func FromError(c *fiber.Ctx, err error) error {
	if appErr, ok := apperr.AsAppError(err); ok {
		return Error(c, appErr.HTTPStatus(), appErr.Message)
	}
	return InternalError(c, err.Error())
}
