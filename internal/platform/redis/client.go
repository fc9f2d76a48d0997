// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile counters.

The catalogue keeps no cached entities. Redis only holds short-lived vote
throttling windows shared by every API replica.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Each vote costs one MULTI/EXEC round trip, so short timeouts and a small
// pool are enough. A slow Redis must not hold a vote request open.
const (
	throttleTimeout = 500 * time.Millisecond
	poolSize        = 8
	pingTimeout     = 2 * time.Second
)

// NewClient connects to the Redis that stores vote throttling windows.
//
// The URL's database and credentials are honoured; only pool size and
// timeouts are overridden.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.DialTimeout = throttleTimeout
	options.ReadTimeout = throttleTimeout
	options.WriteTimeout = throttleTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("vote_throttle_store_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
