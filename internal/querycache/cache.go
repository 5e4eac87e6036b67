package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultStaleTime is how long a fetched entry is served without a
	// refetch.
	DefaultStaleTime = 30 * time.Second

	// DefaultGCTime is how long an entry survives after its last write
	// before the janitor drops it.
	DefaultGCTime = 5 * time.Minute
)

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache is the client-side query cache. It is an explicit object with a
// lifecycle — created per session, closed on teardown — rather than a
// package-level singleton, so tests and the CLI can own their own.
//
// All reads go through Fetch, which serves fresh entries from memory,
// coalesces concurrent fetches for the same key into a single call, and
// stores the result under the key. Invalidate marks every entry under a
// key prefix stale and notifies subscribers.
type Cache struct {
	staleTime time.Duration
	gcTime    time.Duration
	logger    zerolog.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	flights map[string]Key
	epoch   uint64
	subs    map[int]func(prefix Key)
	nextSub int

	done     chan struct{}
	closeSub sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime overrides the freshness window.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithGCTime overrides how long unused entries are retained.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) { c.gcTime = d }
}

// WithLogger attaches a logger for cache activity.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a cache and starts its garbage-collection janitor.
func New(opts ...Option) *Cache {
	c := &Cache{
		staleTime: DefaultStaleTime,
		gcTime:    DefaultGCTime,
		logger:    zerolog.Nop(),
		entries:   make(map[string]*entry),
		flights:   make(map[string]Key),
		subs:      make(map[int]func(prefix Key)),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.janitor()

	return c
}

// Close stops the janitor and drops all entries.
func (c *Cache) Close() {
	c.closeSub.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Fetch returns the value under key, fetching it when no fresh entry
// exists. Concurrent callers for the same key share one in-flight fetch
// and all receive its result. If ctx is done before the fetch resolves,
// the caller gets ctx.Err() immediately; the shared fetch still
// completes and populates the cache for the remaining waiters.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if value, ok := c.lookup(key); ok {
		typed, ok := value.(T)
		if !ok {
			// Two resources mapped to one key; treat as a miss.
			c.logger.Warn().Stringer("key", key).Msg("cache entry has unexpected type")
		} else {
			return typed, nil
		}
	}

	ch := c.group.DoChan(key.canonical(), func() (any, error) {
		// The fetch runs on the cache's own context so an abandoned
		// caller does not cancel it for the other waiters. The epoch
		// snapshot lets put detect an Invalidate that ran mid-flight.
		epoch := c.beginFlight(key)
		defer c.endFlight(key)

		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.put(key, value, epoch)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache value for %s is %T, not the requested type", key, res.Val)
		}
		return typed, nil
	}
}

// Invalidate marks every entry whose key falls under one of the given
// prefixes stale and notifies subscribers. The next Fetch for an
// affected key goes back to the network. A fetch already in flight for
// an affected key is cut loose: later callers start a new fetch rather
// than joining it, and its result lands in the cache already stale.
func (c *Cache) Invalidate(prefixes ...Key) {
	c.mu.Lock()
	c.epoch++
	var subs []func(prefix Key)
	var forget []string
	for _, e := range c.entries {
		for _, prefix := range prefixes {
			if e.key.HasPrefix(prefix) {
				e.stale = true
				break
			}
		}
	}
	for canonical, key := range c.flights {
		for _, prefix := range prefixes {
			if key.HasPrefix(prefix) {
				forget = append(forget, canonical)
				break
			}
		}
	}
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, canonical := range forget {
		c.group.Forget(canonical)
	}

	for _, prefix := range prefixes {
		c.logger.Debug().Stringer("prefix", prefix).Msg("invalidated cache prefix")
		for _, fn := range subs {
			fn(prefix)
		}
	}
}

// Subscribe registers fn to be called with each invalidated prefix.
// The returned function removes the subscription.
func (c *Cache) Subscribe(fn func(prefix Key)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Peek returns the raw entry state for key without triggering a fetch.
func (c *Cache) Peek(key Key) (value any, fresh bool, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.canonical()]
	if !ok {
		return nil, false, false
	}
	return e.value, !e.stale && time.Since(e.fetchedAt) < c.staleTime, true
}

// Len reports the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.canonical()]
	if !ok || e.stale || time.Since(e.fetchedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) beginFlight(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.flights[key.canonical()] = key
	return c.epoch
}

func (c *Cache) endFlight(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.flights, key.canonical())
}

func (c *Cache) put(key Key, value any, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// An Invalidate during the fetch means the value may predate a
	// write. Keep a fresher entry if one already landed; otherwise
	// store the result stale so the next read refetches.
	stale := epoch != c.epoch
	if stale {
		if e, ok := c.entries[key.canonical()]; ok && !e.stale {
			return
		}
	}

	c.entries[key.canonical()] = &entry{
		key:       key,
		value:     value,
		fetchedAt: time.Now(),
		stale:     stale,
	}
}

func (c *Cache) janitor() {
	interval := c.gcTime / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.gc()
		}
	}
}

func (c *Cache) gc() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.gcTime)
	for canonical, e := range c.entries {
		if e.fetchedAt.Before(cutoff) {
			delete(c.entries, canonical)
		}
	}
}
