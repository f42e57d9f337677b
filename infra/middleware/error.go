package middleware

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smartinbox/pkg/apperr"
	"smartinbox/pkg/logger"
)

// ErrorHandler converts errors to JSON {error} bodies. Clients only ever see
// a message string and an HTTP status.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals("request_id").(string)

		var status int
		var message string

		switch e := err.(type) {
		case *apperr.AppError:
			status = e.Status
			message = e.Message

			log := logger.WithField("request_id", requestID).
				WithField("error_code", e.Code).
				WithError(e.Err)
			if status >= 500 {
				log.Error("Internal error: %s", e.Message)
			} else {
				log.Warn("Client error: %s", e.Message)
			}

		case *fiber.Error:
			status = e.Code
			message = e.Message

		default:
			status = fiber.StatusInternalServerError
			message = "An unexpected error occurred"

			logger.WithField("request_id", requestID).
				WithError(err).
				WithField("stack", string(debug.Stack())).
				Error("Unexpected error: %s", err.Error())
		}

		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}

// RequestID middleware adds a unique request ID to each request
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	}
}

// RequestLogger logs incoming requests and their responses
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID, _ := c.Locals("request_id").(string)

		err := c.Next()

		logger.WithFields(map[string]any{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
		}).WithDuration(time.Since(start)).Info("%s %s", c.Method(), c.Path())

		return err
	}
}

// Recover converts panics into 500 responses instead of crashing the process.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithField("stack", string(debug.Stack())).
					Error("Panic recovered: %v", r)
				err = fiber.NewError(fiber.StatusInternalServerError, "An unexpected error occurred")
			}
		}()
		return c.Next()
	}
}
