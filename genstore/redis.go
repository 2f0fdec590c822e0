package genstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/evcache"
	"github.com/unkn0wn-root/evcache/internal/util"
)

// RedisGenStore shares per-event generations across processes and survives
// restarts. With a TTL, an expired counter reads as 0 and archived entries
// self-heal.
type RedisGenStore struct {
	rdb redis.UniversalClient
	ns  string        // should match archive.Options.Namespace
	ttl time.Duration // 0 disables expiry
}

var _ GenStore = (*RedisGenStore)(nil)

func NewRedisGenStore(client redis.UniversalClient, namespace string) *RedisGenStore {
	return &RedisGenStore{rdb: client, ns: namespace}
}

// NewRedisGenStoreWithTTL refreshes ttl on every Bump. If ttl <= 0, keys do
// not expire.
func NewRedisGenStoreWithTTL(client redis.UniversalClient, namespace string, ttl time.Duration) *RedisGenStore {
	return &RedisGenStore{rdb: client, ns: namespace, ttl: ttl}
}

func (s *RedisGenStore) Snapshot(ctx context.Context, id evcache.EventID) (uint64, error) {
	res, err := s.rdb.Get(ctx, util.GenKey(s.ns, id)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis gen parse: %w", err)
	}
	return u, nil
}

// Bump increments the generation. When ttl > 0, INCR + EXPIRE are
// pipelined in a single round-trip.
func (s *RedisGenStore) Bump(ctx context.Context, id evcache.EventID) (uint64, error) {
	k := util.GenKey(s.ns, id)

	if s.ttl <= 0 {
		return s.rdb.Incr(ctx, k).Uint64()
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Uint64()
}

// Cleanup is not applicable; Redis expires keys itself when a TTL is set.
func (s *RedisGenStore) Cleanup(time.Duration) {}

// Close closes the underlying Redis client.
func (s *RedisGenStore) Close(context.Context) error { return s.rdb.Close() }
