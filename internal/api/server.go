// Package api assembles the HTTP server: middleware, handlers and routes.
package api

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/scheme-assist/backend/internal/api/handlers"
	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/internal/middleware/ratelimit"
	"github.com/scheme-assist/backend/internal/middleware/security"
	"github.com/scheme-assist/backend/internal/middleware/validation"
	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/pkg/config"
	"github.com/scheme-assist/backend/pkg/logger"
)

type Deps struct {
	Config      *config.Config
	Bookmarks   *bookmarks.Manager
	Chat        *responder.Registry
	ChatOptions responder.Options
	RateLimiter *ratelimit.RateLimiter
	// Ready lists the dependencies /ready pings.
	Ready map[string]handlers.Pinger
	// AccessLog enables the per-request log line.
	AccessLog bool
}

func NewApp(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:               "scheme-assist",
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(fiberlogger.New())
	}

	origins := "*"
	if len(cfg.Server.AllowedOrigins) > 0 {
		origins = strings.Join(cfg.Server.AllowedOrigins, ", ")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, " + ratelimit.ClientHeader,
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IsDevelopment:  cfg.Server.Development,
	}))

	catalogHandler := handlers.NewCatalogHandler()
	eligibilityHandler := handlers.NewEligibilityHandler()
	bookmarksHandler := handlers.NewBookmarksHandler(d.Bookmarks)
	chatHandler := handlers.NewChatHandler(d.Chat)
	wsHandler := handlers.NewWebSocketHandler(d.ChatOptions)
	healthHandler := handlers.NewHealthHandler(d.Ready)

	api := app.Group("/api/v1")

	api.Get("/health", healthHandler.Health)
	api.Get("/ready", healthHandler.Ready)
	if cfg.Metrics.Enabled {
		api.Get("/metrics", metrics.MetricsHandler())
	}

	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Middleware())
	}
	api.Use(validation.Middleware(validation.Config{
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		Logger:           logger.GetLogger(),
	}))

	api.Get("/schemes", catalogHandler.ListSchemes)
	api.Get("/schemes/categories", catalogHandler.ListCategories)
	api.Get("/schemes/:id", catalogHandler.GetScheme)
	api.Get("/states", catalogHandler.ListStates)
	api.Get("/languages", catalogHandler.ListLanguages)

	api.Post("/eligibility", eligibilityHandler.Check)
	api.Post("/eligibility/steps/:step", eligibilityHandler.CheckStep)

	api.Get("/bookmarks", bookmarksHandler.List)
	api.Post("/bookmarks", bookmarksHandler.Add)
	api.Delete("/bookmarks/:id", bookmarksHandler.Remove)
	api.Get("/bookmarks/:id/share", bookmarksHandler.Share)
	api.Get("/bookmarks/:id/export", bookmarksHandler.Export)

	api.Post("/chat", chatHandler.Send)
	api.Get("/chat/ws", wsHandler.Upgrade, websocket.New(wsHandler.HandleConnection))
	api.Get("/chat/:session/messages", chatHandler.Messages)

	return app
}
