// internal/cache/cache_test.go

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "news:acme:US", Key("news", "acme", "US"))
	assert.Equal(t, "sweep:", Key("sweep", ""))
}

func TestGetOrFetchCachesSuccess(t *testing.T) {
	c := New()
	calls := 0

	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrFetchDoesNotCacheFailures(t *testing.T) {
	c := New()
	calls := 0
	boom := errors.New("upstream down")

	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	_, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	value, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetchExpiresEntries(t *testing.T) {
	c := New()
	current := time.Now()
	c.now = func() time.Time { return current }

	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	value, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// Still live just inside the TTL.
	current = current.Add(59 * time.Second)
	value, err = c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// Expired entries are refetched.
	current = current.Add(2 * time.Second)
	value, err = c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestGetOrFetchSharesInflightFetch(t *testing.T) {
	c := New()
	var calls int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]interface{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := c.GetOrFetch(context.Background(), "k", time.Minute, fetch)
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}

	// Give every worker a chance to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, value := range results {
		assert.Equal(t, "shared", value)
	}
}

func TestFetchReturnsTypedValues(t *testing.T) {
	c := New()

	value, err := Fetch(context.Background(), c, "k", time.Minute, func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, value)

	_, err = Fetch(context.Background(), c, "bad", time.Minute, func(ctx context.Context) ([]string, error) {
		return nil, errors.New("nope")
	})
	assert.Error(t, err)
}
