package cache

// RedisStore shares cached content between service replicas.  Each entry is
// packed as [8 bytes stored-at unix nanos][value] so the insertion time
// survives the round trip and the Cache can apply its own TTL.  Redis key
// expiry is set to the same TTL and only acts as a backstop.

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore returns a store that namespaces its keys under prefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "content"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(k string) string { return s.prefix + ":" + k }

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	bs, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}
	e, ok := decodeEntry(bs)
	if !ok {
		return Entry{}, ErrMiss
	}
	return e, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(key), encodeEntry(e), ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Clear removes every key under the store prefix using SCAN so large
// keyspaces are not blocked.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", s.prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func encodeEntry(e Entry) []byte {
	out := make([]byte, 8+len(e.Value))
	binary.BigEndian.PutUint64(out[0:8], uint64(e.StoredAt.UnixNano()))
	copy(out[8:], e.Value)
	return out
}

func decodeEntry(bs []byte) (Entry, bool) {
	if len(bs) < 8 {
		return Entry{}, false
	}
	ns := int64(binary.BigEndian.Uint64(bs[0:8]))
	v := make([]byte, len(bs)-8)
	copy(v, bs[8:])
	return Entry{Value: v, StoredAt: time.Unix(0, ns).UTC()}, true
}
