package bootstrap

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"smartinbox/adapter/in/http"
	"smartinbox/config"
	"smartinbox/infra/middleware"
	"smartinbox/pkg/logger"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "smartinbox-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json is substantially faster than encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 10 * 1024 * 1024,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := cfg.SiteURL
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Page gate: protected app pages bounce to /login without a valid session
	app.Use(middleware.SessionGate(deps.Sessions))

	http.NewHealthHandler(deps.DB, deps.Redis).Register(app)
	http.NewAuthHandler(deps.IdentityService, cfg.IsProduction()).Register(app)
	http.NewOAuthHandler(deps.OAuthService, cfg.SiteURL).Register(app)
	http.NewEmailHandler(deps.EmailService, deps.SyncService, deps.Engine).Register(app)
	http.NewBillingHandler().Register(app)

	return app, cleanup, nil
}
