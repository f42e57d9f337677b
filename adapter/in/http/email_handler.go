package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smartinbox/core/llm"
	"smartinbox/core/service/mail"
	"smartinbox/pkg/logger"
	"smartinbox/pkg/response"
)

type EmailHandler struct {
	emails *mail.Service
	syncer *mail.SyncService
	engine *llm.Engine
}

func NewEmailHandler(emails *mail.Service, syncer *mail.SyncService, engine *llm.Engine) *EmailHandler {
	return &EmailHandler{
		emails: emails,
		syncer: syncer,
		engine: engine,
	}
}

func (h *EmailHandler) Register(app fiber.Router) {
	grp := app.Group("/emails")
	grp.Post("/sync", h.Sync)
	grp.Get("/list", h.List)
	grp.Get("/urgent", h.ListUrgent)
	grp.Post("/analyze", h.Analyze)
	grp.Post("/:id/classify", h.Classify)
}

type syncRequest struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
}

func (h *EmailHandler) Sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// All fields are validated before any database write happens.
	if req.AccessToken == "" || req.AccountID == "" || req.UserID == "" || req.Email == "" {
		return response.BadRequest(c, "accessToken, accountId, userId and email are required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return response.BadRequest(c, "userId must be a valid UUID")
	}

	synced, err := h.syncer.Sync(c.Context(), req.AccessToken, req.AccountID, &userID, req.Email)
	if err != nil {
		logger.WithError(err).Error("Sync failed for account %s", req.AccountID)
		return response.FromError(c, err)
	}

	return response.OK(c, fiber.Map{
		"success": true,
		"synced":  synced,
		"message": "Inbox synchronized",
	})
}

func (h *EmailHandler) List(c *fiber.Ctx) error {
	limit := GetLimit(c, mail.DefaultListLimit)

	emails, err := h.emails.List(c.Context(), limit)
	if err != nil {
		logger.WithError(err).Error("Failed to list emails")
		return response.FromError(c, err)
	}

	return response.OK(c, fiber.Map{
		"emails": emails,
		"total":  len(emails),
	})
}

func (h *EmailHandler) ListUrgent(c *fiber.Ctx) error {
	limit := GetLimit(c, mail.DefaultUrgencyLimit)

	emails, err := h.emails.ListByUrgency(c.Context(), limit)
	if err != nil {
		logger.WithError(err).Error("Failed to list emails by urgency")
		return response.FromError(c, err)
	}

	return response.OK(c, fiber.Map{
		"emails": emails,
		"total":  len(emails),
	})
}

type analyzeRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// Analyze classifies an arbitrary email payload without persisting anything.
// Unlike the sync path, a model failure here surfaces as a 500.
func (h *EmailHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Subject == "" || req.Content == "" || req.Sender == "" {
		return response.BadRequest(c, "Missing required fields")
	}

	result, err := h.engine.Classify(c.Context(), req.Subject, req.Content, req.Sender)
	if err != nil {
		logger.WithError(err).Error("Classification failed")
		return response.InternalError(c, "Classification failed")
	}

	return response.OK(c, result)
}

func (h *EmailHandler) Classify(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid email id")
	}

	result, err := h.emails.ClassifyStored(c.Context(), int64(id))
	if err != nil {
		logger.WithError(err).Error("Failed to classify stored email %d", id)
		return response.FromError(c, err)
	}

	return response.OK(c, result)
}
