package http

import (
	"github.com/gofiber/fiber/v2"

	"smartinbox/pkg/logger"
	"smartinbox/pkg/response"
)

// BillingHandler acknowledges Stripe webhook deliveries. Events are logged
// and dropped; signature verification and subscription updates are not
// implemented yet.
type BillingHandler struct{}

func NewBillingHandler() *BillingHandler {
	return &BillingHandler{}
}

func (h *BillingHandler) Register(app fiber.Router) {
	app.Post("/stripe/webhook", h.Webhook)
}

func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	var event struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&event); err == nil && event.Type != "" {
		logger.Info("Stripe event received: %s", event.Type)
	}
	return response.OK(c, fiber.Map{"received": true})
}
