package window

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storeguard/internal/ratelimit/models"
)

const (
	redisKeyPrefix = "storeguard:ratelimit:"

	// keyGrace keeps an entry readable slightly past its reset so GetResetTime
	// and the reset-on-access path agree near the boundary.
	keyGrace = time.Minute
)

// consumeScript applies the fixed-window rule atomically.
// KEYS[1] window hash; ARGV: now_ms, limit, window_ms, ttl_ms.
// Returns {allowed, count, reset_at_ms}.
var consumeScript = redis.NewScript(`
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local reset = tonumber(redis.call('HGET', KEYS[1], 'reset_at') or '0')
local now = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
if count == 0 or now > reset then
  reset = now + window
  redis.call('HSET', KEYS[1], 'count', 1, 'reset_at', reset)
  redis.call('PEXPIRE', KEYS[1], tonumber(ARGV[4]))
  return {1, 1, reset}
end
if count >= limit then
  return {0, count, reset}
end
count = redis.call('HINCRBY', KEYS[1], 'count', 1)
return {1, count, reset}
`)

// RedisStore keeps fixed-window counters in Redis so several console
// processes share one budget per key.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore constructs a Redis-backed window store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

// Consume applies one request to key's window at now.
func (s *RedisStore) Consume(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (models.Entry, bool, error) {
	ttl := window + keyGrace
	res, err := consumeScript.Run(ctx, s.client, []string{redisKey(key)},
		now.UnixMilli(), limit, window.Milliseconds(), ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("consume window %q: %w", key, err)
	}
	if len(res) != 3 {
		return models.Entry{}, false, fmt.Errorf("consume window %q: unexpected script reply of length %d", key, len(res))
	}

	return models.Entry{
		Key:     key,
		Count:   int(res[1]),
		ResetAt: time.UnixMilli(res[2]),
	}, res[0] == 1, nil
}

// Get returns the entry for key without modifying it.
func (s *RedisStore) Get(ctx context.Context, key string) (models.Entry, bool, error) {
	vals, err := s.client.HMGet(ctx, redisKey(key), "count", "reset_at").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Entry{}, false, nil
		}
		return models.Entry{}, false, fmt.Errorf("get window %q: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return models.Entry{}, false, nil
	}

	count, err := strconv.Atoi(fmt.Sprint(vals[0]))
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("parse count for %q: %w", key, err)
	}
	resetMs, err := strconv.ParseInt(fmt.Sprint(vals[1]), 10, 64)
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("parse reset_at for %q: %w", key, err)
	}
	return models.Entry{Key: key, Count: count, ResetAt: time.UnixMilli(resetMs)}, true, nil
}

// Delete removes the entry for key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete window %q: %w", key, err)
	}
	return nil
}

// DeleteAll removes every window owned by this store's prefix.
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("delete windows: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan windows: %w", err)
	}
	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("delete windows: %w", err)
		}
	}
	return nil
}
