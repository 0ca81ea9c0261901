package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/observer"
)

const (
	depKeyPrefix = "cache:dep:"
	genKeyPrefix = "cache:gen:"
)

// RedisCache stores JSON query results with a TTL. Each dependency keeps a
// set of the keys built from it and a generation counter; invalidating the
// dependency deletes the keys and bumps the counter.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.QueryCache = (*RedisCache)(nil)

func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func depKey(dep string) string {
	return depKeyPrefix + dep
}

func genKeys(deps []string) []string {
	keys := make([]string, len(deps))
	for i, dep := range deps {
		keys[i] = genKeyPrefix + dep
	}
	return keys
}

// versionToken joins MGET results; a missing counter reads as "0".
func versionToken(vals []interface{}) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok || s == "" {
			s = "0"
		}
		parts[i] = s
	}
	return strings.Join(parts, ",")
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	str, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observer.IncCacheLookup("miss")
		return interfaces.ErrCacheMiss
	}
	if err != nil {
		observer.IncCacheLookup("error")
		return err
	}
	observer.IncCacheLookup("hit")
	return json.Unmarshal([]byte(str), dest)
}

func (c *RedisCache) Version(ctx context.Context, deps ...string) (string, error) {
	if len(deps) == 0 {
		return "", nil
	}
	vals, err := c.client.MGet(ctx, genKeys(deps)...).Result()
	if err != nil {
		return "", err
	}
	return versionToken(vals), nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, version string, deps ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	gens := genKeys(deps)
	write := func(tx *redis.Tx) error {
		if len(gens) > 0 {
			vals, err := tx.MGet(ctx, gens...).Result()
			if err != nil {
				return err
			}
			if versionToken(vals) != version {
				return errStaleVersion
			}
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			for _, dep := range deps {
				pipe.SAdd(ctx, depKey(dep), key)
				// Outlive the entries so a dropped set never hides a stale key.
				pipe.Expire(ctx, depKey(dep), 2*c.ttl)
			}
			return nil
		})
		return err
	}
	err = c.client.Watch(ctx, write, gens...)
	if errors.Is(err, errStaleVersion) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

var errStaleVersion = errors.New("cache version changed")

func (c *RedisCache) Invalidate(ctx context.Context, deps ...string) error {
	for _, dep := range deps {
		meta := depKey(dep)
		if err := c.client.Incr(ctx, genKeyPrefix+dep).Err(); err != nil {
			return err
		}
		keys, err := c.client.SMembers(ctx, meta).Result()
		if err != nil {
			return err
		}
		keys = append(keys, meta)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache always misses. Used when Redis is not configured.
type NoopCache struct{}

var _ interfaces.QueryCache = NoopCache{}

func (NoopCache) Get(context.Context, string, interface{}) error {
	return interfaces.ErrCacheMiss
}

func (NoopCache) Version(context.Context, ...string) (string, error) { return "", nil }

func (NoopCache) Set(context.Context, string, interface{}, string, ...string) error { return nil }

func (NoopCache) Invalidate(context.Context, ...string) error { return nil }
