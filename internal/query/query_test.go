package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BuDozKeN/aicouncil/internal/querycache"
)

func TestQueryGet(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	var calls atomic.Int64
	q := New(cache, querycache.ConversationKey("conv-1"), func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "fetched", nil
	})

	result := q.Get(context.Background())
	assert.Equal(StateSuccess, result.State)
	assert.NoError(result.Err)
	assert.Equal("fetched", result.Value)

	// Second read is served from the cache.
	result = q.Get(context.Background())
	assert.Equal(StateSuccess, result.State)
	assert.Equal("fetched", result.Value)
	assert.Equal(int64(1), calls.Load())
}

func TestQueryErrorAsData(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	wantErr := errors.New("upstream down")
	q := New(cache, querycache.ConversationKey("conv-1"), func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	result := q.Get(context.Background())
	assert.Equal(StateError, result.State)
	assert.ErrorIs(result.Err, wantErr)
	assert.Empty(result.Value)
}

func TestRequireScopeDisablesOnEmptyID(t *testing.T) {
	tests := []struct {
		name     string
		scopeIDs []string
		enabled  bool
	}{
		{
			name:     "all scope ids present",
			scopeIDs: []string{"c1", "d1"},
			enabled:  true,
		},
		{
			name:     "one scope id empty",
			scopeIDs: []string{"c1", ""},
			enabled:  false,
		},
		{
			name:     "single empty scope id",
			scopeIDs: []string{""},
			enabled:  false,
		},
		{
			name:     "no scope ids required",
			scopeIDs: nil,
			enabled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := require.New(t)

			cache := querycache.New()
			defer cache.Close()

			var calls atomic.Int64
			q := New(cache, querycache.Key{"test"}, func(ctx context.Context) (string, error) {
				calls.Add(1)
				return "value", nil
			}).RequireScope(tt.scopeIDs...)

			assert.Equal(tt.enabled, q.Enabled())

			result := q.Get(context.Background())
			if tt.enabled {
				assert.Equal(StateSuccess, result.State)
				assert.Equal(int64(1), calls.Load())
			} else {
				// A disabled query must never reach the network.
				assert.Equal(StateDisabled, result.State)
				assert.NoError(result.Err)
				assert.Equal(int64(0), calls.Load())
			}
		})
	}
}

func TestQueryRefetchesAfterInvalidation(t *testing.T) {
	assert := require.New(t)

	cache := querycache.New()
	defer cache.Close()

	var calls atomic.Int64
	q := New(cache, querycache.ConversationKey("conv-1"), func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	})

	q.Get(context.Background())
	cache.Invalidate(querycache.ConversationsKey())
	q.Get(context.Background())

	assert.Equal(int64(2), calls.Load())
}
