package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesResult(t *testing.T) {
	c := query.NewClient()
	var calls int32
	fn := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "1.5", nil
	}

	for i := 0; i < 3; i++ {
		v, err := query.Fetch(context.Background(), c, query.Key{"balance", "sepolia", "0xabc"}, fn)
		require.NoError(t, err)
		assert.Equal(t, "1.5", v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.Len())
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := query.NewClient()
	var calls int32
	boom := errors.New("rpc down")
	fn := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, boom
	}

	_, err := query.Fetch(context.Background(), c, query.Key{"k"}, fn)
	assert.ErrorIs(t, err, boom)
	_, err = query.Fetch(context.Background(), c, query.Key{"k"}, fn)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Zero(t, c.Len())
}

func TestFetchExpiresAfterTTL(t *testing.T) {
	c := query.NewClient(query.WithTTL(20 * time.Millisecond))
	var calls int32
	fn := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	v, err := query.Fetch(context.Background(), c, query.Key{"k"}, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	time.Sleep(60 * time.Millisecond)

	v, err = query.Fetch(context.Background(), c, query.Key{"k"}, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c := query.NewClient()
	var calls int32
	release := make(chan struct{})
	fn := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := query.Fetch(context.Background(), c, query.Key{"same"}, fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestFetchTypeMismatch(t *testing.T) {
	c := query.NewClient()
	_, err := query.Fetch(context.Background(), c, query.Key{"k"}, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = query.Fetch(context.Background(), c, query.Key{"k"}, func(context.Context) (string, error) { return "x", nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cached value has type int")
}

func TestInvalidatePrefix(t *testing.T) {
	c := query.NewClient()
	ok := func(context.Context) (bool, error) { return true, nil }
	for _, k := range []query.Key{{"balance", "sepolia", "0x1"}, {"balance", "ethereum", "0x1"}, {"block", "sepolia"}} {
		_, err := query.Fetch(context.Background(), c, k, ok)
		require.NoError(t, err)
	}
	require.Equal(t, 3, c.Len())

	c.Invalidate(query.Key{"balance"})
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "balance:sepolia:0xabc", query.Key{"balance", "sepolia", "0xabc"}.String())
}
