package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"smartinbox/core/service/auth"
	"smartinbox/pkg/logger"
)

// protectedPrefixes marks paths that require a valid session.
var protectedPrefixes = []string{
	"/dashboard",
	"/settings",
	"/email-accounts",
}

// SessionGate redirects requests for protected paths to /login unless they
// carry a valid session-token cookie. The check is stateless: signature and
// expiry only, no database lookup. Unprotected paths pass through unchanged.
func SessionGate(sessions *auth.SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isProtected(c.Path()) {
			return c.Next()
		}

		token := c.Cookies(auth.SessionCookieName)
		if token == "" {
			return c.Redirect("/login", fiber.StatusFound)
		}

		session, err := sessions.Verify(token)
		if err != nil {
			logger.WithError(err).Debug("Session rejected for %s", c.Path())
			return c.Redirect("/login", fiber.StatusFound)
		}

		c.Locals("user_id", session.UserID)
		c.Locals("user_email", session.Email)
		return c.Next()
	}
}

func isProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
