// Package cache is the client's read-through cache of backend queries.
//
// Entries live in a bounded LRU with a TTL and are scoped to the signed-in
// principal. Concurrent reads of one key share a single backend call. Every
// key carries a generation counter: a read that started before the key was
// invalidated still returns to its caller but never repopulates the entry.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/logging"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsphere_client_cache_hits_total",
		Help: "Query cache hits by key.",
	}, []string{"key"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsphere_client_cache_misses_total",
		Help: "Query cache misses by key.",
	}, []string{"key"})
	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudsphere_client_cache_invalidations_total",
		Help: "Query cache invalidations by key.",
	}, []string{"key"})
)

// ReadyFunc gates reads on the actor being ready.
type ReadyFunc func() bool

type Cache struct {
	lru    *expirable.LRU[string, any]
	group  singleflight.Group
	ready  ReadyFunc
	logger logging.Logger

	mu    sync.Mutex
	scope string
	epoch uint64
	gens  map[Key]uint64
}

// New returns a cache holding at most size entries for ttl each. A nil ready
// means always ready.
func New(size int, ttl time.Duration, ready ReadyFunc, l logging.Logger) *Cache {
	return &Cache{
		lru:    expirable.NewLRU[string, any](size, nil, ttl),
		ready:  ready,
		logger: l.With("module", "cache"),
		gens:   make(map[Key]uint64),
	}
}

func entryKey(scope string, k Key) string {
	return scope + "/" + string(k)
}

// Get returns the cached value of k, calling fetch on a miss. Concurrent
// misses of the same key share one fetch; the fetch is not cancelled when
// the caller's ctx is.
func (c *Cache) Get(ctx context.Context, k Key, fetch func(ctx context.Context) (any, error)) (any, error) {
	if c.ready != nil && !c.ready() {
		return nil, backend.ErrActorNotReady
	}

	c.mu.Lock()
	scope, epoch, gen := c.scope, c.epoch, c.gens[k]
	c.mu.Unlock()

	ek := entryKey(scope, k)
	if v, ok := c.lru.Get(ek); ok {
		cacheHitsTotal.WithLabelValues(string(k)).Inc()
		return v, nil
	}
	cacheMissesTotal.WithLabelValues(string(k)).Inc()

	flight := fmt.Sprintf("%s#%d#%d", ek, epoch, gen)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.scope == scope && c.epoch == epoch && c.gens[k] == gen {
			c.lru.Add(ek, v)
		} else {
			c.logger.Debug(ctx, "discarding stale read", "key", string(k))
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fetch is the typed form of Cache.Get.
func Fetch[T any](ctx context.Context, c *Cache, k Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Get(ctx, k, func(ctx context.Context) (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T", k, v)
	}
	return t, nil
}

// Peek returns the cached value of k without fetching.
func (c *Cache) Peek(k Key) (any, bool) {
	c.mu.Lock()
	scope := c.scope
	c.mu.Unlock()
	return c.lru.Peek(entryKey(scope, k))
}

// Put stores v under k and supersedes any read of k still in flight.
func (c *Cache) Put(k Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[k]++
	c.lru.Add(entryKey(c.scope, k), v)
}

// Invalidate drops keys so the next Get refetches them.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.gens[k]++
		c.lru.Remove(entryKey(c.scope, k))
		cacheInvalidationsTotal.WithLabelValues(string(k)).Inc()
	}
}

// Apply invalidates every key made stale by m.
func (c *Cache) Apply(ctx context.Context, m Mutation) {
	keys := m.Keys()
	c.logger.Debug(ctx, "applying mutation", "mutation", m.String(), "keys", keys)
	c.Invalidate(keys...)
}

// SetScope switches the cache to principal, dropping entries of any other.
func (c *Cache) SetScope(principal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == principal {
		return
	}
	c.scope = principal
	c.purgeLocked()
}

// Purge drops everything and supersedes all in-flight reads.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
}

func (c *Cache) purgeLocked() {
	c.epoch++
	c.gens = make(map[Key]uint64)
	c.lru.Purge()
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
