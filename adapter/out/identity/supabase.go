// Package identity wraps the managed auth provider (Supabase GoTrue).
package identity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"smartinbox/core/port/out"
	"smartinbox/pkg/httputil"
)

// SupabaseAdapter implements out.IdentityProviderPort against the GoTrue
// admin API using the service-role key.
type SupabaseAdapter struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// listPageSize bounds the admin user listing. Login locates a user by
// scanning this single page, mirroring the provider's listUsers behavior.
const listPageSize = 1000

func NewSupabaseAdapter(baseURL, serviceKey string) *SupabaseAdapter {
	return &SupabaseAdapter{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     httputil.NewPooledClient(httputil.DefaultClientConfig()),
	}
}

type gotrueUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type gotrueUserList struct {
	Users []gotrueUser `json:"users"`
}

// CreateUser registers a new identity with a confirmed email.
func (a *SupabaseAdapter) CreateUser(ctx context.Context, email, password string) (*out.IdentityUser, error) {
	payload, err := json.Marshal(map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	})
	if err != nil {
		return nil, err
	}

	req, err := a.newRequest(ctx, http.MethodPost, "/auth/v1/admin/users", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created gotrueUser
	if err := a.do(req, http.StatusOK, &created); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out.IdentityUser{ID: created.ID, Email: created.Email}, nil
}

// FindUserByEmail scans the provider's user listing for a matching email.
// Returns nil, nil when no user matches.
func (a *SupabaseAdapter) FindUserByEmail(ctx context.Context, email string) (*out.IdentityUser, error) {
	path := fmt.Sprintf("/auth/v1/admin/users?page=1&per_page=%d", listPageSize)
	req, err := a.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list gotrueUserList
	if err := a.do(req, http.StatusOK, &list); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range list.Users {
		if u.Email == email {
			return &out.IdentityUser{ID: u.ID, Email: u.Email}, nil
		}
	}
	return nil, nil
}

func (a *SupabaseAdapter) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", a.serviceKey)
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)
	return req, nil
}

func (a *SupabaseAdapter) do(req *http.Request, wantStatus int, v any) error {
	return httputil.DoJSON(req.Context(), a.client, req, func(resp *http.Response) error {
		if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, string(body))
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
}
