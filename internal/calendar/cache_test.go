package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsSentinel/internal/model"
)

// countingProvider records every fetch and serves a canned response.
type countingProvider struct {
	calls  int
	events []model.EarningsEvent
}

func (p *countingProvider) Calendar(symbol string, from, to time.Time) []model.EarningsEvent {
	p.calls++
	return p.events
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCacheFetchesOnceWithinTTL(t *testing.T) {
	provider := &countingProvider{events: []model.EarningsEvent{
		{Symbol: "AAPL", Date: "2024-05-02", Hour: model.HourAfterMarket},
	}}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		Now: func() time.Time { return now },
	})

	from, to := day("2024-04-20"), day("2024-06-04")
	first := cache.Get("AAPL", from, to)
	second := cache.Get("aapl", from, to) // same key, case-insensitive symbol

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}

func TestCacheRefetchesAfterTTL(t *testing.T) {
	provider := &countingProvider{events: []model.EarningsEvent{
		{Symbol: "MSFT", Date: "2024-05-10"},
	}}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		TTL: 6 * time.Hour,
		Now: func() time.Time { return now },
	})

	from, to := day("2024-04-20"), day("2024-06-04")
	cache.Get("MSFT", from, to)
	assert.Equal(t, 1, provider.calls)

	// Still fresh one second before expiry.
	now = now.Add(6*time.Hour - time.Second)
	cache.Get("MSFT", from, to)
	assert.Equal(t, 1, provider.calls)

	// Stale: exactly one refetch.
	now = now.Add(2 * time.Second)
	cache.Get("MSFT", from, to)
	cache.Get("MSFT", from, to)
	assert.Equal(t, 2, provider.calls)
}

func TestCacheNegativeResultIsCached(t *testing.T) {
	provider := &countingProvider{events: nil}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		Now: func() time.Time { return now },
	})

	from, to := day("2024-04-20"), day("2024-06-04")
	first := cache.Get("NFLX", from, to)
	second := cache.Get("NFLX", from, to)

	assert.NotNil(t, first)
	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Equal(t, 1, provider.calls, "empty result must be served from cache")
}

func TestCacheDistinctRangesAreDistinctKeys(t *testing.T) {
	provider := &countingProvider{}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		Now: func() time.Time { return now },
	})

	cache.Get("AAPL", day("2024-04-20"), day("2024-06-04"))
	cache.Get("AAPL", day("2024-04-21"), day("2024-06-04"))
	assert.Equal(t, 2, provider.calls)
}

func TestCachePrunesOldestEntries(t *testing.T) {
	store := NewMemoryStore()

	// 4000 entries with strictly increasing timestamps: the 500 oldest are
	// sym0000..sym0499.
	seed := map[string]Entry{}
	for i := 0; i < 4000; i++ {
		key := fmt.Sprintf("SYM%04d|2024-01-01|2024-02-01", i)
		seed[key] = Entry{CheckedAt: int64(1000 + i), Data: []model.EarningsEvent{}}
	}
	require.NoError(t, store.Save(seed))

	provider := &countingProvider{events: []model.EarningsEvent{{Symbol: "NEW", Date: "2024-05-01"}}}
	now := time.Unix(1_700_000_000, 0)
	cache := NewCache(store, provider, Options{
		Now: func() time.Time { return now },
	})

	cache.Get("NEW", day("2024-04-20"), day("2024-06-04"))

	entries := store.Load()
	assert.Len(t, entries, 3501)

	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("SYM%04d|2024-01-01|2024-02-01", i)
		_, ok := entries[key]
		assert.False(t, ok, "expected %s to be pruned", key)
	}
	_, ok := entries["SYM0500|2024-01-01|2024-02-01"]
	assert.True(t, ok, "newer entries must survive the prune")
	_, ok = entries[cacheKey("NEW", day("2024-04-20"), day("2024-06-04"))]
	assert.True(t, ok, "the just-fetched entry must survive the prune")
}

func TestNextEarningsDate(t *testing.T) {
	provider := &countingProvider{events: []model.EarningsEvent{
		{Symbol: "AAPL", Date: "2024-05-02", Hour: model.HourAfterMarket},
		{Symbol: "AAPL", Date: "2024-08-01", Hour: model.HourAfterMarket},
	}}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		Now: func() time.Time { return now },
	})

	date, ok := cache.NextEarningsDate("AAPL", 45)
	require.True(t, ok)
	assert.Equal(t, "2024-05-02", date)
}

func TestNextEarningsDateNoneKnown(t *testing.T) {
	provider := &countingProvider{}
	now := day("2024-04-20")
	cache := NewCache(NewMemoryStore(), provider, Options{
		Now: func() time.Time { return now },
	})

	_, ok := cache.NextEarningsDate("ZZZZ", 45)
	assert.False(t, ok)
}
