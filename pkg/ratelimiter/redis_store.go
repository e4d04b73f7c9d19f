package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript applies the same interval refill as MemoryStore, atomically on the server.
// KEYS[1] bucket hash; ARGV now_ms, capacity, refill_rate, interval_ms, cost.
var consumeScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local cost = tonumber(ARGV[5])

local state = redis.call("HMGET", key, "tokens", "last")
local tokens = capacity
local last = now
if state[1] and state[2] then
  tokens = tonumber(state[1])
  last = tonumber(state[2])
end
if now < last then
  last = now
end

local max_intervals = math.floor(capacity / rate) + 1
local intervals = math.floor((now - last) / interval)
if intervals > max_intervals then
  intervals = max_intervals
end
if intervals > 0 then
  tokens = math.min(tokens + intervals * rate, capacity)
  last = now
end

local remaining = tokens - cost
if remaining >= 0 then
  tokens = remaining
end
redis.call("HSET", key, "tokens", tokens, "last", last)
redis.call("PEXPIRE", key, interval * (max_intervals + 1))

return {remaining, last + interval}
`)

// RedisStore shares bucket state between replicas through Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces bucket keys. Defaults to "rl".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRedisClock overrides the time source, for tests.
func WithRedisClock(now func() time.Time) RedisStoreOption {
	return func(s *RedisStore) { s.now = now }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "rl", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	if s.client == nil {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	raw, err := consumeScript.Run(ctx, s.client, []string{s.key(key)},
		s.now().UnixMilli(),
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		tokens,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(raw) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply of %d values", ErrStoreUnavailable, len(raw))
	}

	return int(raw[0]), time.UnixMilli(raw[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}
