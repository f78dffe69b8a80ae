package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisTrue  = "1"
	redisFalse = "0"
)

// redisSetIfAbsentScript claims a marker unless it is already set to true.
// KEYS[1] = marker key
// ARGV[1] = value ("1" or "0")
// ARGV[2] = ttl in milliseconds, 0 for no expiry
var redisSetIfAbsentScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == "1" then
    return 0
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
    redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
    redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// RedisStore keeps markers in Redis so every API and worker instance shares
// them.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisStoreFromURL parses a redis:// URL and connects lazily.
func NewRedisStoreFromURL(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), prefix), nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) (bool, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("%w: redis get: %v", ErrUnavailable, err)
	}
	return v == redisTrue, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value bool, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), encodeRedis(value), ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key string, value bool, ttl time.Duration) (bool, error) {
	res, err := redisSetIfAbsentScript.Run(ctx, s.client, []string{s.key(key)}, encodeRedis(value), ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: redis set-if-absent: %v", ErrUnavailable, err)
	}
	return res == 1, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func encodeRedis(v bool) string {
	if v {
		return redisTrue
	}
	return redisFalse
}
