package query

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// pagedFetcher serves items from a fixed backing slice the way the
// server would, honoring limit and offset.
func pagedFetcher(items []string, calls *atomic.Int64) PageFetcher[string] {
	return func(ctx context.Context, limit, offset int) (Page[string], error) {
		if calls != nil {
			calls.Add(1)
		}
		if offset >= len(items) {
			return Page[string]{HasMore: false}, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		return Page[string]{
			Items:   items[offset:end],
			HasMore: end < len(items),
		}, nil
	}
}

func numberedItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("conv-%03d", i)
	}
	return items
}

func TestInfiniteQueryFetchesSequentialPages(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	items := numberedItems(45)
	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20, pagedFetcher(items, nil))
	defer q.Stop()

	assert.True(q.HasMore())

	loaded, err := q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.Len(q.Items(), 20)
	assert.True(q.HasMore())

	loaded, err = q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.Len(q.Items(), 40)

	loaded, err = q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.Len(q.Items(), 45)
	assert.False(q.HasMore())
	assert.Equal(3, q.PageCount())

	// Items come back in fetch order.
	assert.Equal(items, q.Items())
}

func TestInfiniteQueryStopsAtEnd(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	var calls atomic.Int64
	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20, pagedFetcher(numberedItems(5), &calls))
	defer q.Stop()

	loaded, err := q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.False(q.HasMore())

	// Once the server said there is no more, further calls are no-ops
	// and never hit the fetcher again.
	loaded, err = q.FetchNext(context.Background())
	assert.NoError(err)
	assert.False(loaded)
	assert.Equal(int64(1), calls.Load())
	assert.Len(q.Items(), 5)
}

func TestInfiniteQueryFetchError(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	wantErr := errors.New("upstream down")
	var fail atomic.Bool
	fail.Store(true)
	items := numberedItems(10)

	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20,
		func(ctx context.Context, limit, offset int) (Page[string], error) {
			if fail.Load() {
				return Page[string]{}, wantErr
			}
			return pagedFetcher(items, nil)(ctx, limit, offset)
		})
	defer q.Stop()

	loaded, err := q.FetchNext(context.Background())
	assert.ErrorIs(err, wantErr)
	assert.False(loaded)
	assert.Empty(q.Items())

	// A failed page does not advance the offset; the retry loads page
	// one.
	fail.Store(false)
	loaded, err = q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.Len(q.Items(), 10)
}

func TestInfiniteQueryResetsOnInvalidation(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	items := numberedItems(45)
	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20, pagedFetcher(items, nil))
	defer q.Stop()

	for i := 0; i < 3; i++ {
		_, err := q.FetchNext(context.Background())
		assert.NoError(err)
	}
	assert.Len(q.Items(), 45)
	assert.False(q.HasMore())

	// A mutation invalidating the shared listing prefix drops the
	// accumulated pages and restarts from page one.
	cache.Invalidate(querycache.Key{"conversations", "list"})

	assert.Empty(q.Items())
	assert.True(q.HasMore())

	loaded, err := q.FetchNext(context.Background())
	assert.NoError(err)
	assert.True(loaded)
	assert.Len(q.Items(), 20)
}

func TestInfiniteQueryIgnoresUnrelatedInvalidation(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20, pagedFetcher(numberedItems(10), nil))
	defer q.Stop()

	_, err := q.FetchNext(context.Background())
	assert.NoError(err)
	assert.Len(q.Items(), 10)

	cache.Invalidate(querycache.CompanyKey("c1"))
	assert.Len(q.Items(), 10)
}

func TestInfiniteQueryDisabledByScope(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	var calls atomic.Int64
	q := NewInfinite(cache, querycache.ConversationPagesKey(querycache.Filter{}), 20, pagedFetcher(numberedItems(10), &calls)).
		RequireScope("")
	defer q.Stop()

	loaded, err := q.FetchNext(context.Background())
	assert.NoError(err)
	assert.False(loaded)
	assert.Equal(int64(0), calls.Load())
}
