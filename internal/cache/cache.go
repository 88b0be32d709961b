// Package cache implements the read-through content cache.  Values are kept
// encoded as JSON so every reader decodes a private copy; nothing outside the
// cache can mutate cached content.  Entries carry their insertion time and
// are valid only while now - StoredAt < TTL.  Expired entries are evicted
// lazily on the next read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/booksphere/internal/clock"
)

// DefaultTTL is the lifetime of a cached value unless overridden.
const DefaultTTL = 60 * time.Second

// ErrMiss is returned by stores when a key is absent.
var ErrMiss = errors.New("cache: miss")

// Entry is a stored value together with its insertion time.
type Entry struct {
	Value    []byte
	StoredAt time.Time
}

// Store is the backing storage of a Cache.  Implementations must be safe for
// concurrent use.  The ttl passed to Set is a hint for stores that can expire
// keys on their own; freshness is always decided by the Cache.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Cache is a TTL cache over a Store.
type Cache struct {
	store   Store
	clock   clock.Clock
	ttl     time.Duration
	keyTTLs map[string]time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default TTL for all keys.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithKeyTTL overrides the TTL of a single key.
func WithKeyTTL(key string, d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.keyTTLs[key] = d
		}
	}
}

// New returns a Cache backed by store.  A nil store falls back to an
// in-process MemoryStore.
func New(store Store, clk clock.Clock, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	c := &Cache{
		store:   store,
		clock:   clk,
		ttl:     DefaultTTL,
		keyTTLs: make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL reports the lifetime applied to key.
func (c *Cache) TTL(key string) time.Duration {
	if d, ok := c.keyTTLs[key]; ok {
		return d
	}
	return c.ttl
}

// Get decodes the cached value for key into out.  It reports false when the
// key is absent, expired or unreadable; expired and unreadable entries are
// removed from the store.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	e, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if c.clock.Now().Sub(e.StoredAt) >= c.TTL(key) {
		_ = c.store.Delete(ctx, key)
		return false, nil
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		_ = c.store.Delete(ctx, key)
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Put stores v under key, stamped with the current time.
func (c *Cache) Put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	e := Entry{Value: b, StoredAt: c.clock.Now()}
	if err := c.store.Set(ctx, key, e, c.TTL(key)); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Purge drops every key.
func (c *Cache) Purge(ctx context.Context) error {
	return c.store.Clear(ctx)
}
