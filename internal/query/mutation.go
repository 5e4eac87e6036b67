package query

import (
	"context"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// InvalidateFunc names the cache prefixes a successful mutation made
// stale. It must be a pure function of the mutation's input and output.
// Lists should err on the broad side: refetching a little too much is
// correct, showing stale data is not.
type InvalidateFunc[In, Out any] func(in In, out Out) []querycache.Key

// Mutation performs one write against the backend and then invalidates
// the read entries it affected. Invalidation is strictly ordered after
// a successful write; a failed write invalidates nothing and the error
// is returned to the caller. Mutations are never retried automatically.
type Mutation[In, Out any] struct {
	cache       *querycache.Cache
	run         func(ctx context.Context, in In) (Out, error)
	invalidates InvalidateFunc[In, Out]
}

// NewMutation builds a mutation from a write function and its
// invalidation list.
func NewMutation[In, Out any](cache *querycache.Cache, run func(ctx context.Context, in In) (Out, error), invalidates InvalidateFunc[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{
		cache:       cache,
		run:         run,
		invalidates: invalidates,
	}
}

// Do executes the mutation.
func (m *Mutation[In, Out]) Do(ctx context.Context, in In) (Out, error) {
	out, err := m.run(ctx, in)
	if err != nil {
		var zero Out
		return zero, err
	}

	if m.invalidates != nil {
		if prefixes := m.invalidates(in, out); len(prefixes) > 0 {
			m.cache.Invalidate(prefixes...)
		}
	}
	return out, nil
}
