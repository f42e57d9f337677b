package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"smartinbox/core/service/auth"
	"smartinbox/pkg/logger"
	"smartinbox/pkg/response"
)

type AuthHandler struct {
	identity     *auth.IdentityService
	secureCookie bool
}

func NewAuthHandler(identity *auth.IdentityService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		identity:     identity,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(app fiber.Router) {
	grp := app.Group("/auth")
	grp.Post("/signup", h.SignUp)
	grp.Post("/login", h.Login)
	grp.Post("/logout", h.Logout)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	user, err := h.identity.SignUp(c.Context(), req.Email, req.Password)
	if err != nil {
		logger.WithError(err).Error("Signup failed for %s", req.Email)
		return response.FromError(c, err)
	}

	return response.OK(c, fiber.Map{
		"message": "Account created",
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	token, user, err := h.identity.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setSessionCookie(c, token)

	return response.OK(c, fiber.Map{
		"message": "Logged in",
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSessionCookie(c)
	return response.OK(c, fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		Expires:  time.Now().Add(auth.SessionDuration),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
