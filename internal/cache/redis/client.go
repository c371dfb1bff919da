package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scheme-assist/backend/pkg/logger"
	"github.com/scheme-assist/backend/pkg/utils"
)

// Client keeps client-local values in a Redis hash per owner.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

// WithTTL expires an owner's values after ttl without writes. Zero keeps
// them forever.
func (c *Client) WithTTL(ttl time.Duration) *Client {
	c.ttl = ttl
	return c
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func ownerKey(owner string) string {
	return fmt.Sprintf("client:%s", utils.HashString(owner))
}

func (c *Client) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	data, err := c.client.HGet(ctx, ownerKey(owner), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return data, true, nil
}

func (c *Client) Set(ctx context.Context, owner, key string, value []byte) error {
	hash := ownerKey(owner)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hash, key, value)
		if c.ttl > 0 {
			pipe.Expire(ctx, hash, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	logger.Debug("Client value stored", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (c *Client) Delete(ctx context.Context, owner, key string) error {
	if err := c.client.HDel(ctx, ownerKey(owner), key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
