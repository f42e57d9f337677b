package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"smartinbox/pkg/logger"
)

// insecureJWTFallback is the development-only signing secret used when
// JWT_SECRET is not set. Validate() reports it as missing in production.
const insecureJWTFallback = "dev-secret-change-me"

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// Supabase (identity provider)
	SupabaseURL            string
	SupabaseAnonKey        string
	SupabaseServiceRoleKey string

	// Session
	JWTSecret string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	// Stripe
	StripePublishableKey string
	StripeSecretKey      string
	StripeWebhookSecret  string

	// OAuth - Google
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Public URLs
	SiteURL string
}

// requiredVars enumerates settings that must be configured for production,
// with a human-readable description for the validation report.
var requiredVars = []struct {
	Name        string
	Description string
	Value       func(*Config) string
}{
	{"SUPABASE_URL", "Supabase project URL", func(c *Config) string { return c.SupabaseURL }},
	{"SUPABASE_ANON_KEY", "Supabase anonymous key", func(c *Config) string { return c.SupabaseAnonKey }},
	{"SUPABASE_SERVICE_ROLE_KEY", "Supabase service role key", func(c *Config) string { return c.SupabaseServiceRoleKey }},
	{"JWT_SECRET", "JWT signing secret", func(c *Config) string { return c.JWTSecret }},
	{"OPENAI_API_KEY", "OpenAI API key", func(c *Config) string { return c.OpenAIAPIKey }},
	{"STRIPE_PUBLISHABLE_KEY", "Stripe publishable key", func(c *Config) string { return c.StripePublishableKey }},
	{"STRIPE_SECRET_KEY", "Stripe secret key", func(c *Config) string { return c.StripeSecretKey }},
	{"GOOGLE_CLIENT_ID", "Google OAuth client ID", func(c *Config) string { return c.GoogleClientID }},
	{"GOOGLE_CLIENT_SECRET", "Google OAuth client secret", func(c *Config) string { return c.GoogleClientSecret }},
	{"GOOGLE_REDIRECT_URI", "Google OAuth redirect URI", func(c *Config) string { return c.GoogleRedirectURI }},
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		JWTSecret: getEnv("JWT_SECRET", insecureJWTFallback),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 500),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.3),

		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:5000/emails/oauth/callback"),

		SiteURL: getEnv("SITE_URL", "http://localhost:5000"),
	}, nil
}

// Validate checks that required settings are configured. A value still holding
// its "your-<name>" placeholder counts as missing. In production missing
// settings are a hard error; in development they are logged and tolerated.
func (c *Config) Validate() error {
	var missing []string
	for _, v := range requiredVars {
		value := v.Value(c)
		if value == "" || value == placeholderFor(v.Name) || value == insecureJWTFallback {
			missing = append(missing, fmt.Sprintf("%s: %s", v.Name, v.Description))
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if c.IsProduction() {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	logger.Warn("Missing or unconfigured environment variables:")
	for _, m := range missing {
		logger.Warn("  - %s", m)
	}
	return nil
}

func placeholderFor(name string) string {
	return "your-" + strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
