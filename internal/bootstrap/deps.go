package bootstrap

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"smartinbox/adapter/out/identity"
	"smartinbox/adapter/out/persistence"
	"smartinbox/adapter/out/provider"
	"smartinbox/config"
	"smartinbox/core/llm"
	"smartinbox/core/service/auth"
	"smartinbox/core/service/mail"
	"smartinbox/infra/database"
	"smartinbox/pkg/logger"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Adapters
	UserRepo    *persistence.UserAdapter
	AccountRepo *persistence.AccountAdapter
	EmailRepo   *persistence.EmailAdapter
	Identity    *identity.SupabaseAdapter
	Gmail       *provider.GmailAdapter

	// Services
	Sessions        *auth.SessionManager
	IdentityService *auth.IdentityService
	OAuthService    *auth.OAuthService
	Engine          *llm.Engine
	EmailService    *mail.Service
	SyncService     *mail.SyncService
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "bootstrap").Logger()

	// Database (pgxpool for health checks, sqlx for adapters)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	sqlDB, err := database.NewSQLX(cfg.DatabaseURL)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })
	zlog.Info().Msg("postgres connected")

	// Redis is optional: without it the OAuth flow simply skips state
	// validation.
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			zlog.Info().Msg("redis connected")
		}
	}

	// Repositories
	deps.UserRepo = persistence.NewUserAdapter(sqlDB)
	deps.AccountRepo = persistence.NewAccountAdapter(sqlDB)
	deps.EmailRepo = persistence.NewEmailAdapter(sqlDB)

	// Identity provider
	deps.Identity = identity.NewSupabaseAdapter(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)

	// Sessions + identity service
	deps.Sessions = auth.NewSessionManager(cfg.JWTSecret)
	deps.IdentityService = auth.NewIdentityService(deps.Identity, deps.UserRepo, deps.Sessions)

	// OAuth broker (state store only when Redis is up)
	var stateStore auth.OAuthStateStore
	if deps.Redis != nil {
		stateStore = persistence.NewRedisOAuthStateStore(deps.Redis)
	}
	deps.OAuthService = auth.NewOAuthService(auth.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	}, stateStore)

	// Classification engine
	llmClient := llm.NewClientWithConfig(llm.ClientConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})
	deps.Engine = llm.NewEngine(llmClient)

	// Mail services
	deps.Gmail = provider.NewGmailAdapter()
	deps.SyncService = mail.NewSyncService(deps.AccountRepo, deps.EmailRepo, deps.Gmail)
	deps.EmailService = mail.NewService(deps.EmailRepo, deps.Engine)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	return deps, cleanup, nil
}

func (d *Dependencies) HealthCheck(ctx context.Context) error {
	if err := d.DB.Ping(ctx); err != nil {
		return err
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
