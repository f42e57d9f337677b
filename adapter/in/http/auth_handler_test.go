package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smartinbox/core/domain"
	"smartinbox/core/port/out"
	"smartinbox/core/service/auth"
)

type stubIdentityProvider struct {
	users map[string]*out.IdentityUser
}

func (s *stubIdentityProvider) CreateUser(ctx context.Context, email, password string) (*out.IdentityUser, error) {
	u := &out.IdentityUser{ID: uuid.New(), Email: email}
	if s.users == nil {
		s.users = map[string]*out.IdentityUser{}
	}
	s.users[email] = u
	return u, nil
}

func (s *stubIdentityProvider) FindUserByEmail(ctx context.Context, email string) (*out.IdentityUser, error) {
	return s.users[email], nil
}

type stubUserRepo struct{}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

func newAuthApp(provider *stubIdentityProvider) *fiber.App {
	sessions := auth.NewSessionManager("handler-secret")
	identity := auth.NewIdentityService(provider, &stubUserRepo{}, sessions)
	app := fiber.New()
	NewAuthHandler(identity, false).Register(app)
	return app
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("unknown email returns 401 without cookie", func(t *testing.T) {
		app := newAuthApp(&stubIdentityProvider{})

		body := `{"email":"nobody@example.com","password":"pass"}`
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		if c := sessionCookie(resp); c != nil && c.Value != "" {
			t.Errorf("session cookie set on failed login: %v", c)
		}
	})

	t.Run("known email sets session cookie", func(t *testing.T) {
		provider := &stubIdentityProvider{}
		app := newAuthApp(provider)

		signup := httptest.NewRequest("POST", "/auth/signup",
			strings.NewReader(`{"email":"user@example.com","password":"pass"}`))
		signup.Header.Set("Content-Type", "application/json")
		if resp, err := app.Test(signup); err != nil {
			t.Fatalf("signup failed: %v", err)
		} else {
			resp.Body.Close()
		}

		login := httptest.NewRequest("POST", "/auth/login",
			strings.NewReader(`{"email":"user@example.com","password":"any-password-works"}`))
		login.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(login)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		c := sessionCookie(resp)
		if c == nil || c.Value == "" {
			t.Fatal("session cookie not set")
		}
		if !c.HttpOnly {
			t.Error("cookie should be http-only")
		}
		if c.Path != "/" {
			t.Errorf("cookie path = %q, want /", c.Path)
		}
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		app := newAuthApp(&stubIdentityProvider{})

		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"a@b.fr"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestLogoutEndpointClearsCookie(t *testing.T) {
	app := newAuthApp(&stubIdentityProvider{})

	resp, err := app.Test(httptest.NewRequest("POST", "/auth/logout", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	c := sessionCookie(resp)
	if c == nil {
		t.Fatal("expected an expiring session cookie")
	}
	if c.Value != "" {
		t.Errorf("cookie value = %q, want empty", c.Value)
	}
	if c.MaxAge >= 0 && !c.Expires.Before(time.Now()) {
		t.Errorf("cookie not expired: max-age=%d expires=%v", c.MaxAge, c.Expires)
	}
}
