package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

// DashboardCache stores serialized dashboard snapshots per user. Invalidate makes every
// snapshot of a user unreachable by bumping the user's version.
//
// Get reports the version it looked under. Callers pass that version back to Set, so a
// snapshot computed before an Invalidate is stored under the old version and never served.
type DashboardCache interface {
	Get(ctx context.Context, userID, key string, dst interface{}) (hit bool, version int64, err error)
	Set(ctx context.Context, userID, key string, version int64, v interface{}) error
	Invalidate(ctx context.Context, userID string) error
}

type Noop struct{}

func (Noop) Get(context.Context, string, string, interface{}) (bool, int64, error) {
	return false, 0, nil
}
func (Noop) Set(context.Context, string, string, int64, interface{}) error { return nil }
func (Noop) Invalidate(context.Context, string) error                     { return nil }

type RedisCache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
	logger internal.Logger
}

func NewRedisCache(addr string, ttl time.Duration, logger internal.Logger) (*RedisCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "polaris:dashboard", logger: logger}, nil
}

func (c *RedisCache) versionKey(userID string) string {
	return fmt.Sprintf("%s:%s:version", c.prefix, userID)
}

func (c *RedisCache) version(ctx context.Context, userID string) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return 0, err
	}
	return v, nil
}

// EntryKey composes the redis key of one snapshot.
func EntryKey(prefix, userID string, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", prefix, userID, version, key)
}

func (c *RedisCache) Get(ctx context.Context, userID, key string, dst interface{}) (bool, int64, error) {
	v, err := c.version(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	k := EntryKey(c.prefix, userID, v, key)
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, v, nil
	}
	if err != nil {
		return false, v, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warnf("cache: dropping undecodable entry %s: %v", k, err)
		return false, v, nil
	}
	return true, v, nil
}

// Set stores v under version. A stale version writes a key Get no longer reads.
func (c *RedisCache) Set(ctx context.Context, userID, key string, version int64, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, EntryKey(c.prefix, userID, version, key), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Incr(ctx, c.versionKey(userID)).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

var (
	_ DashboardCache = Noop{}
	_ DashboardCache = (*RedisCache)(nil)
)
