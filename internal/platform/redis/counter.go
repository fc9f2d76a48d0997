// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/movies/internal/platform/constants"
)

// Counter implements a fixed-window counter on top of Redis.
type Counter struct {
	client redis.Cmdable
}

// NewCounter wraps client as a windowed counter.
func NewCounter(client redis.Cmdable) *Counter {
	return &Counter{client: client}
}

// Increment adds one hit for key in the current window and returns the running
// total together with the time left until the window resets.
//
// INCR and the first EXPIRE run in one MULTI/EXEC so a crash between them
// cannot leave a key without a TTL.
func (counter *Counter) Increment(context stdctx.Context, key string, window time.Duration) (int64, time.Duration, error) {
	fullKey := constants.RedisPrefixVoteThrottle + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd

	_, err := counter.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(context, fullKey)
		pipe.ExpireNX(context, fullKey, window)
		ttl = pipe.PTTL(context, fullKey)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("redis: failed to increment %s: %w", fullKey, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}

	return incr.Val(), remaining, nil
}
