package query

import (
	"context"
	"sync"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

// Page is one fetched page of an incremental listing. HasMore is the
// server's word on whether another page exists.
type Page[T any] struct {
	Items   []T
	HasMore bool
}

// PageFetcher loads one page at the given offset.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) (Page[T], error)

// InfiniteQuery loads a listing one page at a time. The next offset is
// always pages-fetched × page-size, and fetching stops for good once
// the server reports has_more=false: the query never asks for an
// offset past what the server has confirmed.
//
// The query subscribes to cache invalidation for its key: when a
// mutation invalidates the listing's prefix, accumulated pages are
// dropped and loading restarts from the first page.
type InfiniteQuery[T any] struct {
	key      querycache.Key
	fetch    PageFetcher[T]
	pageSize int
	enabled  bool

	mu    sync.Mutex
	pages []Page[T]
	done  bool
	unsub func()
}

// NewInfinite builds an incremental query. The caller must Stop it when
// finished to release the cache subscription.
func NewInfinite[T any](cache *querycache.Cache, key querycache.Key, pageSize int, fetch PageFetcher[T]) *InfiniteQuery[T] {
	q := &InfiniteQuery[T]{
		key:      key,
		fetch:    fetch,
		pageSize: pageSize,
		enabled:  true,
	}
	q.unsub = cache.Subscribe(func(prefix querycache.Key) {
		if key.HasPrefix(prefix) {
			q.reset()
		}
	})
	return q
}

// RequireScope disables the query when a scope identifier is empty.
func (q *InfiniteQuery[T]) RequireScope(scopeIDs ...string) *InfiniteQuery[T] {
	for _, id := range scopeIDs {
		if id == "" {
			q.enabled = false
		}
	}
	return q
}

// FetchNext loads the next page. It reports whether a page was loaded;
// it is a no-op returning false once the server has said there is no
// more, or when the query is disabled.
func (q *InfiniteQuery[T]) FetchNext(ctx context.Context) (bool, error) {
	if !q.enabled {
		return false, nil
	}

	q.mu.Lock()
	if q.done {
		q.mu.Unlock()
		return false, nil
	}
	offset := len(q.pages) * q.pageSize
	q.mu.Unlock()

	page, err := q.fetch(ctx, q.pageSize, offset)
	if err != nil {
		return false, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	// An invalidation may have reset the pages while the fetch was in
	// flight; only append if this page is still the expected one.
	if len(q.pages)*q.pageSize != offset {
		return false, nil
	}
	q.pages = append(q.pages, page)
	if !page.HasMore {
		q.done = true
	}
	return true, nil
}

// Items returns every fetched item, pages in fetch order.
func (q *InfiniteQuery[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	var items []T
	for _, page := range q.pages {
		items = append(items, page.Items...)
	}
	return items
}

// HasMore reports whether the server has confirmed a further page.
// Before the first fetch it is true: the end is unknown until the
// server says otherwise.
func (q *InfiniteQuery[T]) HasMore() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.done
}

// PageCount returns the number of fetched pages.
func (q *InfiniteQuery[T]) PageCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pages)
}

// Stop releases the cache subscription.
func (q *InfiniteQuery[T]) Stop() {
	if q.unsub != nil {
		q.unsub()
	}
}

func (q *InfiniteQuery[T]) reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pages = nil
	q.done = false
}
