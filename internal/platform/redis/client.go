// Package redis connects the optional shared token store. Redis is only in
// play for headless deployments; a missing URL means the feature is off, not
// misconfigured.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"staffdesk/internal/platform/config"
)

// Client wraps go-redis with a health probe for readiness checks.
type Client struct {
	*redis.Client
}

// New dials redis from config and verifies the connection with a ping.
// An empty URL returns (nil, nil): callers treat that as "not configured".
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection is still usable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
