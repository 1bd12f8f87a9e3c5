// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits per key in fixed time windows. Counts live in
// Valkey so every server instance sees the same totals.
type WindowCounter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewWindowCounter creates a counter whose keys start with prefix.
func NewWindowCounter(client *redis.Client, prefix string) *WindowCounter {
	return &WindowCounter{client: client, prefix: prefix, now: time.Now}
}

// Incr adds one hit for key in the current window and returns the total so
// far. The window key expires shortly after the window closes.
func (c *WindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.key(key, window)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incrementing %s: %w", k, err)
	}
	return incr.Val(), nil
}

func (c *WindowCounter) key(key string, window time.Duration) string {
	start := c.now().Truncate(window)
	return fmt.Sprintf("%s:%s:%d", c.prefix, key, start.Unix())
}
