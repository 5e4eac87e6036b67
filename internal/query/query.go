// Package query provides the read and write operations of the data
// layer. A Query binds a cache key to a fetch function; a Mutation
// performs a write and invalidates the read entries it made stale.
// Errors never escape as panics: every outcome is returned as data so
// callers can render it.
package query

import (
	"context"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// State describes the outcome of a Query read.
type State int

const (
	// StateDisabled means a required scope identifier was missing and
	// the query did not fetch.
	StateDisabled State = iota
	// StateSuccess means Value holds a fetched or cached result.
	StateSuccess
	// StateError means the fetch failed and Err holds the failure.
	StateError
)

// Result is the outcome of one Query read.
type Result[T any] struct {
	Value T
	Err   error
	State State
}

// Query is a cached read of one resource. The zero value is not
// usable; construct with New.
type Query[T any] struct {
	cache   *querycache.Cache
	key     querycache.Key
	fetch   func(ctx context.Context) (T, error)
	enabled bool
}

// New builds a query over the given cache key and fetch function.
func New[T any](cache *querycache.Cache, key querycache.Key, fetch func(ctx context.Context) (T, error)) *Query[T] {
	return &Query[T]{
		cache:   cache,
		key:     key,
		fetch:   fetch,
		enabled: true,
	}
}

// RequireScope disables the query when any of the given scope
// identifiers is empty. A disabled query never fetches — this is what
// keeps an unauthenticated or not-yet-selected context from issuing
// request storms.
func (q *Query[T]) RequireScope(scopeIDs ...string) *Query[T] {
	for _, id := range scopeIDs {
		if id == "" {
			q.enabled = false
		}
	}
	return q
}

// Enabled reports whether the query will fetch.
func (q *Query[T]) Enabled() bool {
	return q.enabled
}

// Key returns the cache key the query reads.
func (q *Query[T]) Key() querycache.Key {
	return q.key
}

// Get returns the current value, fetching on a cache miss or stale
// entry. Concurrent Gets for the same key share a single fetch. A
// fetch failure comes back as Result{State: StateError}; it is never
// thrown.
func (q *Query[T]) Get(ctx context.Context) Result[T] {
	if !q.enabled {
		return Result[T]{State: StateDisabled}
	}

	value, err := querycache.Fetch(ctx, q.cache, q.key, q.fetch)
	if err != nil {
		return Result[T]{Err: err, State: StateError}
	}
	return Result[T]{Value: value, State: StateSuccess}
}
