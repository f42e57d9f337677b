package config

import (
	"strings"
	"testing"
)

func completeConfig() *Config {
	return &Config{
		Environment:            "production",
		SupabaseURL:            "https://proj.supabase.co",
		SupabaseAnonKey:        "anon",
		SupabaseServiceRoleKey: "service",
		JWTSecret:              "a-real-secret",
		OpenAIAPIKey:           "sk-xxx",
		StripePublishableKey:   "pk_live",
		StripeSecretKey:        "sk_live",
		GoogleClientID:         "client-id",
		GoogleClientSecret:     "client-secret",
		GoogleRedirectURI:      "https://app/emails/oauth/callback",
	}
}

func TestValidate(t *testing.T) {
	t.Run("complete production config passes", func(t *testing.T) {
		if err := completeConfig().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing value fails in production", func(t *testing.T) {
		cfg := completeConfig()
		cfg.OpenAIAPIKey = ""
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
			t.Errorf("error should name the variable: %v", err)
		}
	})

	t.Run("placeholder value counts as missing", func(t *testing.T) {
		cfg := completeConfig()
		cfg.GoogleClientID = "your-google-client-id"
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for placeholder value")
		}
	})

	t.Run("insecure jwt fallback counts as missing", func(t *testing.T) {
		cfg := completeConfig()
		cfg.JWTSecret = insecureJWTFallback
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for fallback secret")
		}
		if !strings.Contains(err.Error(), "JWT_SECRET") {
			t.Errorf("error should name JWT_SECRET: %v", err)
		}
	})

	t.Run("development tolerates missing values", func(t *testing.T) {
		cfg := completeConfig()
		cfg.Environment = "development"
		cfg.SupabaseURL = ""
		if err := cfg.Validate(); err != nil {
			t.Fatalf("development should warn, not fail: %v", err)
		}
	})
}

func TestPlaceholderFor(t *testing.T) {
	if got := placeholderFor("GOOGLE_CLIENT_ID"); got != "your-google-client-id" {
		t.Errorf("placeholderFor = %q", got)
	}
}
