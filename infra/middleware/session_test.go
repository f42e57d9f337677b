package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smartinbox/core/service/auth"
)

func newGatedApp(t *testing.T, sessions *auth.SessionManager) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(SessionGate(sessions))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/dashboard", ok)
	app.Get("/settings/profile", ok)
	app.Get("/email-accounts", ok)
	app.Get("/login", ok)
	app.Get("/", ok)
	return app
}

func TestSessionGate(t *testing.T) {
	sessions := auth.NewSessionManager("gate-secret")
	app := newGatedApp(t, sessions)

	validToken, err := sessions.Issue(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	foreignToken, err := auth.NewSessionManager("other-secret").Issue(uuid.New(), "user@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		cookie     string
		wantStatus int
	}{
		{"protected path without cookie", "/dashboard", "", fiber.StatusFound},
		{"nested protected path without cookie", "/settings/profile", "", fiber.StatusFound},
		{"protected path with bad signature", "/email-accounts", foreignToken, fiber.StatusFound},
		{"protected path with garbage cookie", "/dashboard", "garbage", fiber.StatusFound},
		{"protected path with valid cookie", "/dashboard", validToken, fiber.StatusOK},
		{"login page never gated", "/login", "", fiber.StatusOK},
		{"root never gated", "/", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == fiber.StatusFound {
				if loc := resp.Header.Get("Location"); loc != "/login" {
					t.Errorf("redirect location = %q, want /login", loc)
				}
			}
		})
	}
}
