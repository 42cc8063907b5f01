// Package session caches per-applicant flow state in Redis.
//
// The cache is derived data only: the applicant row in Postgres is the
// single source of truth for the state machine position. Every write path
// invalidates the cached entry, so a cache miss or an unavailable Redis
// never affects correctness, only latency.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KulmamatovZalkar/newedges/internal/models"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(telegramID int64) string {
	return fmt.Sprintf("flow:applicant:%d", telegramID)
}

// Get returns the cached applicant, or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, telegramID int64) (*models.Applicant, error) {
	raw, err := c.client.Get(ctx, key(telegramID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session cache get: %w", err)
	}

	var applicant models.Applicant
	if err := json.Unmarshal([]byte(raw), &applicant); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		_ = c.client.Del(ctx, key(telegramID)).Err()
		return nil, nil
	}
	return &applicant, nil
}

func (c *Cache) Put(ctx context.Context, applicant *models.Applicant) error {
	raw, err := json.Marshal(applicant)
	if err != nil {
		return fmt.Errorf("session cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(applicant.TelegramID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("session cache put: %w", err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, telegramID int64) error {
	if err := c.client.Del(ctx, key(telegramID)).Err(); err != nil {
		return fmt.Errorf("session cache invalidate: %w", err)
	}
	return nil
}
