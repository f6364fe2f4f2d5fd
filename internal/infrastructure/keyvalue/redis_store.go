package keyvalue

import (
	"context"
	"errors"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
)

// RedisStore is a kvstore.Store backed by Redis. Values never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ kvstore.Store = (*RedisStore)(nil)

// Connect parses rawURL, opens a client and pings it once.
func Connect(ctx context.Context, rawURL string, pingTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, crerr.Wrap(err, "parse REDIS_URL")
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "redis get key=%s", key)
	}

	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.client.Set(ctx, s.prefix+key, value, 0).Err()
	if err == nil {
		return nil
	}
	if isOutOfMemory(err) {
		return quotaExceeded(key, err)
	}

	return crerr.Wrapf(err, "redis set key=%s", key)
}

// isOutOfMemory matches the reply Redis sends when maxmemory rejects a write.
func isOutOfMemory(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}

func quotaExceeded(key string, cause error) error {
	return crerr.WithSecondaryError(crerr.Wrapf(kvstore.ErrQuotaExceeded, "redis set key=%s", key), cause)
}
