package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

// Cache namespaces for public listing reads. Every mutation of the
// underlying rows invalidates the whole namespace.
const (
	ListingNamespaceBusinesses = "businesses"
	ListingNamespaceReviews    = "reviews"
)

// ListingCacheStore versions each namespace. Invalidate advances the
// version, and Set only stores a value for the version it was loaded under,
// so a load racing a mutation cannot repopulate the fresh namespace.
type ListingCacheStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Version(ctx context.Context, namespace string) (int64, error)
	Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration, version int64) error
	Invalidate(ctx context.Context, namespace string) error
}

type NoopListingCacheStore struct{}

func NewNoopListingCacheStore() *NoopListingCacheStore { return &NoopListingCacheStore{} }

func (NoopListingCacheStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopListingCacheStore) Version(context.Context, string) (int64, error) { return 0, nil }

func (NoopListingCacheStore) Set(context.Context, string, string, []byte, time.Duration, int64) error {
	return nil
}

func (NoopListingCacheStore) Invalidate(context.Context, string) error { return nil }

type memoryListingEntry struct {
	payload   []byte
	expiresAt time.Time
}

type MemoryListingCacheStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	store    map[string]map[string]memoryListingEntry
	versions map[string]int64
}

func NewMemoryListingCacheStore() *MemoryListingCacheStore {
	return &MemoryListingCacheStore{
		now:      time.Now,
		store:    make(map[string]map[string]memoryListingEntry),
		versions: make(map[string]int64),
	}
}

func (s *MemoryListingCacheStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.store[namespace][key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		if ns, ok := s.store[namespace]; ok {
			delete(ns, key)
			if len(ns) == 0 {
				delete(s.store, namespace)
			}
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (s *MemoryListingCacheStore) Version(_ context.Context, namespace string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[namespace], nil
}

func (s *MemoryListingCacheStore) Set(_ context.Context, namespace, key string, value []byte, ttl time.Duration, version int64) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[namespace] != version {
		return nil
	}
	ns, ok := s.store[namespace]
	if !ok {
		ns = make(map[string]memoryListingEntry)
		s.store[namespace] = ns
	}
	ns[key] = memoryListingEntry{
		payload:   append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryListingCacheStore) Invalidate(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[namespace]++
	delete(s.store, namespace)
	return nil
}

// ListingCache is a JSON read-through cache in front of listing queries.
// Concurrent misses for the same key share one load.
type ListingCache struct {
	store ListingCacheStore
	ttl   time.Duration
	group singleflight.Group
}

func NewListingCache(store ListingCacheStore, ttl time.Duration) *ListingCache {
	if store == nil {
		store = NewNoopListingCacheStore()
	}
	return &ListingCache{store: store, ttl: ttl}
}

// Invalidate drops every cached entry in the namespaces. Store errors are
// recorded and swallowed; entries then age out with the TTL.
func (c *ListingCache) Invalidate(ctx context.Context, namespaces ...string) {
	if c == nil {
		return
	}
	for _, ns := range namespaces {
		if err := c.store.Invalidate(ctx, ns); err != nil {
			observability.RecordListingCacheEvent(ctx, ns, "invalidate_error")
			continue
		}
		observability.RecordListingCacheEvent(ctx, ns, "invalidate")
	}
}

func readThrough[T any](ctx context.Context, c *ListingCache, namespace, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	ctx, span := observability.Tracer().Start(ctx, "listing_cache.read_through",
		trace.WithAttributes(attribute.String("cache.namespace", namespace)))
	defer span.End()

	if raw, ok, err := c.store.Get(ctx, namespace, key); err != nil {
		observability.RecordListingCacheEvent(ctx, namespace, "get_error")
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			observability.RecordListingCacheEvent(ctx, namespace, "hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
		observability.RecordListingCacheEvent(ctx, namespace, "decode_error")
	}
	observability.RecordListingCacheEvent(ctx, namespace, "miss")
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, shared := c.group.Do(namespace+"\x00"+key, func() (any, error) {
		// The version is read before loading so an Invalidate that lands
		// mid-load makes the Set below a no-op.
		version, verr := c.store.Version(ctx, namespace)
		if verr != nil {
			observability.RecordListingCacheEvent(ctx, namespace, "get_error")
		}
		value, err := load(ctx)
		if err != nil || verr != nil {
			return value, err
		}
		if raw, err := json.Marshal(value); err == nil {
			if err := c.store.Set(ctx, namespace, key, raw, c.ttl, version); err != nil {
				observability.RecordListingCacheEvent(ctx, namespace, "set_error")
			}
		}
		return value, nil
	})
	if shared {
		observability.RecordListingCacheEvent(ctx, namespace, "coalesced")
	}
	if err != nil {
		span.RecordError(err)
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func hashKey(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
