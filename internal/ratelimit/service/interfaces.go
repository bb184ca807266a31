package service

import (
	"context"
	"time"

	"storeguard/internal/ratelimit/models"
)

// Store holds fixed-window entries. Consume must apply the window rule
// atomically per key.
type Store interface {
	Consume(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (models.Entry, bool, error)
	Get(ctx context.Context, key string) (models.Entry, bool, error)
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}
