package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/api"
	"github.com/scheme-assist/backend/internal/api/handlers"
	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/internal/middleware/ratelimit"
	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/internal/storage"
	"github.com/scheme-assist/backend/pkg/config"
	appLogger "github.com/scheme-assist/backend/pkg/logger"
)

const idleTimeout = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting scheme-assist API server")

	if cfg.Metrics.Enabled {
		if err := metrics.Init(nil); err != nil {
			appLogger.Fatal("Failed to register metrics", zap.Error(err))
		}
	}

	backend, err := storage.Open(cfg)
	if err != nil {
		appLogger.Fatal("Failed to open client storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer backend.Close()

	chatOpts := responder.Options{Delay: cfg.Chat.ResponseDelay()}
	chat := responder.NewRegistry(chatOpts)

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	saved := bookmarks.NewManager(backend.Storage)

	app := api.NewApp(api.Deps{
		Config:      cfg,
		Bookmarks:   saved,
		Chat:        chat,
		ChatOptions: chatOpts,
		RateLimiter: limiter,
		Ready:       map[string]handlers.Pinger{"storage": backend},
		AccessLog:   cfg.Server.Development,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneIdle(ctx, chat, saved)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting",
		zap.String("address", addr),
		zap.String("storage", backend.Driver),
		zap.Duration("chat_delay", chatOpts.Delay),
	)

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Shutdown did not complete", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

// pruneIdle drops chat sessions and cached bookmark stores nobody has used
// for idleTimeout.
func pruneIdle(ctx context.Context, chat *responder.Registry, saved *bookmarks.Manager) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-idleTimeout)
			chat.Prune(cutoff)
			saved.Prune(cutoff)
		}
	}
}
