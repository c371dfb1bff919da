// Package storage picks the client-storage backend named in the configuration
// and wraps it with retries and a circuit breaker.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/cache/redis"
	"github.com/scheme-assist/backend/internal/metrics"
	"github.com/scheme-assist/backend/internal/storage/sqlite"
	"github.com/scheme-assist/backend/pkg/circuitbreaker"
	"github.com/scheme-assist/backend/pkg/config"
	"github.com/scheme-assist/backend/pkg/logger"
	"github.com/scheme-assist/backend/pkg/retry"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Backend struct {
	Driver  string
	Storage bookmarks.Storage

	pinger pinger
	closer io.Closer
}

func Open(cfg *config.Config) (*Backend, error) {
	b := &Backend{Driver: cfg.Storage.Driver}

	var raw bookmarks.Storage
	switch cfg.Storage.Driver {
	case "memory":
		raw = bookmarks.NewMemoryStorage()
		logger.Warn("Using in-memory client storage, bookmarks are lost on restart")
	case "sqlite":
		client, err := sqlite.NewClient(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := client.InitSchema(); err != nil {
			client.Close()
			return nil, err
		}
		raw, b.pinger, b.closer = client, client, client
	case "redis":
		client, err := redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		raw, b.pinger, b.closer = client, client, client
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	b.Storage = bookmarks.NewGuardedStorage(raw, retryConfig(cfg.Resilience), newBreaker(cfg.Storage.Driver, cfg.Resilience))
	return b, nil
}

func retryConfig(r config.ResilienceConfig) retry.Config {
	rc := retry.DefaultConfig()
	if r.RetryAttempts > 0 {
		rc.MaxAttempts = r.RetryAttempts
	}
	if r.RetryInitialDelayMs > 0 {
		rc.InitialDelay = time.Duration(r.RetryInitialDelayMs) * time.Millisecond
	}
	rc.Logger = logger.GetLogger()
	return rc
}

func newBreaker(name string, r config.ResilienceConfig) *circuitbreaker.CircuitBreaker {
	metrics.BreakerState.WithLabelValues(name).Set(float64(circuitbreaker.StateClosed))

	return circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		FailureThreshold: r.BreakerFailures,
		OpenTimeout:      time.Duration(r.BreakerOpenTimeoutSec) * time.Second,
		Logger:           logger.GetLogger(),
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("Storage circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Ping checks the backend is reachable. Memory storage always is.
func (b *Backend) Ping(ctx context.Context) error {
	if b.pinger == nil {
		return nil
	}
	return b.pinger.Ping(ctx)
}

func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}
