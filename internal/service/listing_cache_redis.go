package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisListingCacheStore versions each namespace with a generation counter.
// Invalidate bumps the counter, so stale entries become unreachable and
// expire on their own TTL.
type RedisListingCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisListingCacheStore(client redis.UniversalClient, prefix string) *RedisListingCacheStore {
	if prefix == "" {
		prefix = "listing_cache"
	}
	return &RedisListingCacheStore{client: client, prefix: prefix}
}

func (s *RedisListingCacheStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	gen, err := s.generation(ctx, namespace)
	if err != nil {
		return nil, false, err
	}
	value, err := s.client.Get(ctx, s.dataKey(namespace, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisListingCacheStore) Version(ctx context.Context, namespace string) (int64, error) {
	return s.generation(ctx, namespace)
}

// Set writes under the generation the value was loaded for. After a bump
// that key is never read again and expires with its TTL.
func (s *RedisListingCacheStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration, version int64) error {
	if ttl <= 0 {
		return nil
	}
	gen, err := s.generation(ctx, namespace)
	if err != nil {
		return err
	}
	if gen != version {
		return nil
	}
	return s.client.Set(ctx, s.dataKey(namespace, version, key), value, ttl).Err()
}

func (s *RedisListingCacheStore) Invalidate(ctx context.Context, namespace string) error {
	return s.client.Incr(ctx, s.generationKey(namespace)).Err()
}

func (s *RedisListingCacheStore) generation(ctx context.Context, namespace string) (int64, error) {
	gen, err := s.client.Get(ctx, s.generationKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *RedisListingCacheStore) generationKey(namespace string) string {
	return fmt.Sprintf("%s:gen:%s", s.prefix, namespace)
}

func (s *RedisListingCacheStore) dataKey(namespace string, gen int64, key string) string {
	return fmt.Sprintf("%s:data:%s:%d:%s", s.prefix, namespace, gen, hashKey(key))
}
