package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func counter(values ...string) (func(context.Context) (string, error), *int32) {
	var calls int32
	return func(context.Context) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) <= len(values) {
			return values[n-1], nil
		}
		return values[len(values)-1], nil
	}, &calls
}

func TestFetchServesFreshValueWithoutRefetch(t *testing.T) {
	clock := newFakeClock()
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute).WithClock(clock.Now)
	fetch, calls := counter("first", "second")
	ctx := context.Background()

	v, err := c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	clock.Advance(4*time.Minute + 59*time.Second)
	v, err = c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestFetchRefetchesAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute).WithClock(clock.Now)
	fetch, calls := counter("first", "second")
	ctx := context.Background()

	_, err := c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	v, err := c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, err)
	assert.Equal(t, "second", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestForceAlwaysFetchesAndOverwrites(t *testing.T) {
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute)
	fetch, calls := counter("first", "second", "third")
	ctx := context.Background()

	_, err := c.Fetch(ctx, "all", true, fetch)
	require.NoError(t, err)
	v, err := c.Fetch(ctx, "all", true, fetch)
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	v, err = c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, err)
	assert.Equal(t, "second", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestFailureKeepsPreviousValue(t *testing.T) {
	clock := newFakeClock()
	c := New[string]("tags", NewMemoryStore(), time.Minute).WithClock(clock.Now)
	ctx := context.Background()

	_, err := c.Fetch(ctx, "all", false, func(context.Context) (string, error) { return "good", nil })
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.Fetch(ctx, "all", true, func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	v, fetchedAt, ok := c.Peek(ctx, "all")
	assert.True(t, ok)
	assert.Equal(t, "good", v)
	assert.True(t, clock.Now().Equal(fetchedAt))

	v, err = c.Fetch(ctx, "all", false, func(context.Context) (string, error) { return "", boom })
	require.NoError(t, err)
	assert.Equal(t, "good", v)
}

func TestKeysAreIndependent(t *testing.T) {
	c := New[string]("recipe", NewMemoryStore(), 5*time.Minute)
	ctx := context.Background()
	fetchA, callsA := counter("a1", "a2")
	fetchB, callsB := counter("b1", "b2")

	_, _ = c.Fetch(ctx, "1", false, fetchA)
	_, _ = c.Fetch(ctx, "2", false, fetchB)
	_, _ = c.Fetch(ctx, "1", true, fetchA)

	v, err := c.Fetch(ctx, "2", false, fetchB)
	require.NoError(t, err)
	assert.Equal(t, "b1", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(callsA))
	assert.EqualValues(t, 1, atomic.LoadInt32(callsB))
}

func TestVariantMismatchIsAMiss(t *testing.T) {
	c := New[string]("tag", NewMemoryStore(), 5*time.Minute)
	ctx := context.Background()
	fetch, calls := counter("page1", "page2", "page1-again")

	v, _ := c.FetchVariant(ctx, "italian", "0:12", false, fetch)
	assert.Equal(t, "page1", v)
	v, _ = c.FetchVariant(ctx, "italian", "12:12", false, fetch)
	assert.Equal(t, "page2", v)
	v, _ = c.FetchVariant(ctx, "italian", "12:12", false, fetch)
	assert.Equal(t, "page2", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestConcurrentMissesAreCoalesced(t *testing.T) {
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Fetch(ctx, "all", false, fetch)
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCancelledCallerDoesNotFailCoalescedCallers(t *testing.T) {
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute)

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "shared", nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(leaderCtx, "all", false, fetch)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	type result struct {
		value string
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := c.Fetch(context.Background(), "all", false, fetch)
		follower <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "shared", got.value)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	v, _, ok := c.Peek(context.Background(), "all")
	require.True(t, ok)
	assert.Equal(t, "shared", v)
}

func TestForcedFetchDuringCoalescedFetchIssuesItsOwnRequest(t *testing.T) {
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			return "slow", nil
		}
		return "forced", nil
	}

	slow := make(chan string, 1)
	go func() {
		v, _ := c.Fetch(ctx, "all", false, fetch)
		slow <- v
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	v, err := c.Fetch(ctx, "all", true, fetch)
	require.NoError(t, err)
	assert.Equal(t, "forced", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	close(release)
	assert.Equal(t, "slow", <-slow)
}

func TestInvalidate(t *testing.T) {
	c := New[string]("recipes", NewMemoryStore(), 5*time.Minute)
	ctx := context.Background()
	fetch, calls := counter("first", "second")

	_, _ = c.Fetch(ctx, "all", false, fetch)
	require.NoError(t, c.Invalidate(ctx, "all"))
	v, _ := c.Fetch(ctx, "all", false, fetch)
	assert.Equal(t, "second", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisStoreSharesEntries(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	first := New[[]string]("tags", store, 5*time.Minute)
	second := New[[]string]("tags", store, 5*time.Minute)

	_, err := first.Fetch(ctx, "all", false, func(context.Context) ([]string, error) {
		return []string{"Italian", "Indian"}, nil
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("foodtrove:cache:tags:all"))

	v, err := second.Fetch(ctx, "all", false, func(context.Context) ([]string, error) {
		t.Fatal("second instance should hit the shared entry")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Italian", "Indian"}, v)
}

func TestRedisStoreRetention(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	mr.FastForward(11 * time.Minute)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisOutageFallsThroughToFetch(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := New[string]("recipes", NewRedisStore(client, time.Hour), 5*time.Minute)
	mr.Close()

	v, err := c.Fetch(context.Background(), "all", false, func(context.Context) (string, error) {
		return "live", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "live", v)
}
