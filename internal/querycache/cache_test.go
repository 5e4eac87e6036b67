package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchCachesResult(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "hello", nil
	}

	key := ConversationKey("conv-1")

	value, err := Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal("hello", value)

	value, err = Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal("hello", value)

	assert.Equal(int64(1), calls.Load())
}

func TestFetchErrorNotCached(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("upstream down")
		}
		return "recovered", nil
	}

	key := ConversationKey("conv-1")

	_, err := Fetch(context.Background(), cache, key, fetch)
	assert.Error(err)

	value, err := Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal("recovered", value)
	assert.Equal(int64(2), calls.Load())
}

func TestFetchCoalescesConcurrentCalls(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	key := ConversationListKey(Filter{"search": "demo"})

	type result struct {
		value string
		err   error
	}

	const waiters = 8
	results := make(chan result, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := Fetch(context.Background(), cache, key, fetch)
			results <- result{value: value, err: err}
		}()
	}

	// Give the goroutines time to pile onto the same flight before
	// releasing the fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for res := range results {
		assert.NoError(res.err)
		assert.Equal("shared", res.value)
	}
	assert.Equal(int64(1), calls.Load())
}

func TestFetchReturnsWhenContextCancelled(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "late", nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, cache, ConversationKey("conv-1"), fetch)
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Fetch did not return after context cancellation")
	}

	// The abandoned fetch still completes and lands in the cache for
	// the next caller.
	close(release)
	assert.Eventually(func() bool {
		_, _, found := cache.Peek(ConversationKey("conv-1"))
		return found
	}, time.Second, 10*time.Millisecond)
}

func TestInvalidateMarksPrefixStale(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	listKey := ConversationListKey(Filter{})
	detailKey := ConversationKey("conv-1")
	companyKey := CompanyDepartmentsKey("c1")

	for _, key := range []Key{listKey, detailKey, companyKey} {
		_, err := Fetch(context.Background(), cache, key, fetch)
		assert.NoError(err)
	}
	assert.Equal(int64(3), calls.Load())

	// Invalidating the conversations root reaches list and detail but
	// not the company subtree.
	cache.Invalidate(ConversationsKey())

	_, fresh, found := cache.Peek(listKey)
	assert.True(found)
	assert.False(fresh)

	_, fresh, found = cache.Peek(detailKey)
	assert.True(found)
	assert.False(fresh)

	_, fresh, found = cache.Peek(companyKey)
	assert.True(found)
	assert.True(fresh)

	// Stale entries refetch on the next read.
	_, err := Fetch(context.Background(), cache, listKey, fetch)
	assert.NoError(err)
	assert.Equal(int64(4), calls.Load())
}

func TestInvalidateDuringFetchKeepsEntryStale(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "pre-mutation listing", nil
		}
		return "post-mutation listing", nil
	}

	key := CompanyDepartmentsKey("c1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		Fetch(context.Background(), cache, key, fetch) //nolint:errcheck
	}()

	<-started
	cache.Invalidate(key)
	close(release)
	<-done

	// The in-flight result predates the invalidation, so it must not
	// come back fresh.
	value, fresh, found := cache.Peek(key)
	assert.True(found)
	assert.False(fresh)
	assert.Equal("pre-mutation listing", value)

	// The next read goes back to the network.
	refetched, err := Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal("post-mutation listing", refetched)
	assert.Equal(int64(2), calls.Load())
}

func TestInvalidateCutsLooseInFlightFetch(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "before", nil
		}
		return "after", nil
	}

	key := ConversationListKey(Filter{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		Fetch(context.Background(), cache, key, fetch) //nolint:errcheck
	}()

	<-started
	cache.Invalidate(key)

	// A reader arriving after the invalidation must not join the old
	// flight: it fetches anew while the first fetch is still blocked.
	value, err := Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal("after", value)
	assert.Equal(int64(2), calls.Load())

	close(release)
	<-done

	// The late pre-invalidation result does not clobber the fresher
	// entry.
	value2, fresh, found := cache.Peek(key)
	assert.True(found)
	assert.True(fresh)
	assert.Equal("after", value2)
}

func TestStaleTimeExpiresEntries(t *testing.T) {
	assert := require.New(t)

	cache := New(WithStaleTime(20 * time.Millisecond))
	defer cache.Close()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	key := ConversationKey("conv-1")

	_, err := Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)

	time.Sleep(40 * time.Millisecond)

	_, err = Fetch(context.Background(), cache, key, fetch)
	assert.NoError(err)
	assert.Equal(int64(2), calls.Load())
}

func TestSubscribeReceivesInvalidations(t *testing.T) {
	assert := require.New(t)

	cache := New()
	defer cache.Close()

	var mu sync.Mutex
	var seen []Key
	unsub := cache.Subscribe(func(prefix Key) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, prefix)
	})

	cache.Invalidate(ConversationsKey(), CompanyKey("c1"))

	mu.Lock()
	assert.Len(seen, 2)
	assert.True(seen[0].Equal(ConversationsKey()))
	assert.True(seen[1].Equal(CompanyKey("c1")))
	mu.Unlock()

	unsub()
	cache.Invalidate(ConversationsKey())

	mu.Lock()
	assert.Len(seen, 2)
	mu.Unlock()
}

func TestCloseDropsEntries(t *testing.T) {
	assert := require.New(t)

	cache := New()

	_, err := Fetch(context.Background(), cache, ConversationKey("conv-1"), func(ctx context.Context) (string, error) {
		return "value", nil
	})
	assert.NoError(err)
	assert.Equal(1, cache.Len())

	cache.Close()
	assert.Equal(0, cache.Len())

	// Close is idempotent.
	cache.Close()
}
