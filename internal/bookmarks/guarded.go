package bookmarks

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/scheme-assist/backend/pkg/circuitbreaker"
	"github.com/scheme-assist/backend/pkg/logger"
	"github.com/scheme-assist/backend/pkg/retry"
)

// GuardedStorage retries a flaky backend and stops calling it while the
// breaker is open. With the breaker open, reads fail with ErrUnavailable and
// writes fail immediately.
type GuardedStorage struct {
	next    Storage
	retry   retry.Config
	breaker *circuitbreaker.CircuitBreaker
}

func NewGuardedStorage(next Storage, retryCfg retry.Config, breaker *circuitbreaker.CircuitBreaker) *GuardedStorage {
	return &GuardedStorage{next: next, retry: retryCfg, breaker: breaker}
}

func (g *GuardedStorage) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, g.retry, func(ctx context.Context) error {
			var err error
			data, found, err = g.next.Get(ctx, owner, key)
			return err
		})
	})
	if isOpen(err) {
		logger.Warn("Storage unavailable, breaker is open",
			zap.String("breaker", g.breaker.Name()),
			zap.String("key", key),
		)
		return nil, false, errors.Join(ErrUnavailable, err)
	}
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

func (g *GuardedStorage) Set(ctx context.Context, owner, key string, value []byte) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, g.retry, func(ctx context.Context) error {
			return g.next.Set(ctx, owner, key, value)
		})
	})
}

func isOpen(err error) bool {
	return errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests)
}
