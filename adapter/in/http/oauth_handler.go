package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"smartinbox/core/service/auth"
	"smartinbox/pkg/logger"
	"smartinbox/pkg/response"
)

// OAuthHandler drives the Google consent flow for connecting an inbox.
// Tokens ride back to the frontend in the callback redirect URL; the page
// is expected to exchange them for a sync call immediately.
type OAuthHandler struct {
	oauth   *auth.OAuthService
	siteURL string
}

func NewOAuthHandler(oauth *auth.OAuthService, siteURL string) *OAuthHandler {
	return &OAuthHandler{
		oauth:   oauth,
		siteURL: siteURL,
	}
}

func (h *OAuthHandler) Register(app fiber.Router) {
	grp := app.Group("/emails/oauth")
	grp.Get("/start", h.Start)
	grp.Get("/callback", h.Callback)
}

func (h *OAuthHandler) Start(c *fiber.Ctx) error {
	authURL, err := h.oauth.AuthURL(c.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to build consent URL")
		return response.InternalError(c, "Failed to start OAuth flow")
	}
	return response.Redirect(c, authURL)
}

func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("OAuth consent denied: %s", errParam)
		return response.Redirect(c, h.accountsURL("error", "access_denied"))
	}

	code := c.Query("code")
	if code == "" {
		return response.Redirect(c, h.accountsURL("error", "no_code"))
	}

	token, err := h.oauth.Exchange(c.Context(), code, c.Query("state"))
	if err != nil {
		logger.WithError(err).Error("OAuth code exchange failed")
		return response.Redirect(c, h.accountsURL("error", "callback_failed"))
	}

	email, err := h.oauth.FetchUserEmail(c.Context(), token)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch Google account email")
		return response.Redirect(c, h.accountsURL("error", "callback_failed"))
	}

	return response.Redirect(c, h.accountsURL(
		"success", "true",
		"email", email,
		"access_token", token.AccessToken,
		"refresh_token", token.RefreshToken,
	))
}

// accountsURL builds the frontend redirect with query pairs.
func (h *OAuthHandler) accountsURL(pairs ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Set(pairs[i], pairs[i+1])
	}
	return h.siteURL + "/email-accounts?" + q.Encode()
}
