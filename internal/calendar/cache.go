package calendar

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"EarningsSentinel/internal/model"
)

// Options configures a Cache. Zero values select the defaults below.
type Options struct {
	TTL        time.Duration
	MaxEntries int             // prune threshold
	PruneCount int             // entries dropped per prune
	Secondary  SecondarySource // optional, advisory warnings only
	Now        func() time.Time
}

const (
	defaultTTL        = 6 * time.Hour
	defaultMaxEntries = 4000
	defaultPruneCount = 500
)

// Cache is a persistent, TTL-bounded memo of earnings calendar lookups.
// It mediates all access to the external provider: hits (including cached
// empty results) are served from the store, misses and stale entries trigger
// exactly one refetch. Provider failures are cached as empty results for the
// TTL window, trading a small staleness risk for provider-load protection.
// The cache never returns an error to its caller.
type Cache struct {
	store      Store
	provider   Provider
	secondary  SecondarySource
	ttl        time.Duration
	maxEntries int
	pruneCount int
	now        func() time.Time
}

// NewCache creates a Cache over the given store and provider.
func NewCache(store Store, provider Provider, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.PruneCount <= 0 {
		opts.PruneCount = defaultPruneCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		store:      store,
		provider:   provider,
		secondary:  opts.Secondary,
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		pruneCount: opts.PruneCount,
		now:        opts.Now,
	}
}

// cacheKey builds the exact (symbol, from, to) key. Different ranges for the
// same symbol are distinct entries; there is no range merging.
func cacheKey(symbol string, from, to time.Time) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToUpper(symbol),
		from.Format(model.DateLayout),
		to.Format(model.DateLayout),
	)
}

// Get returns the calendar events for (symbol, from, to), fetching through
// the provider on a miss or stale entry and persisting the result.
func (c *Cache) Get(symbol string, from, to time.Time) []model.EarningsEvent {
	key := cacheKey(symbol, from, to)
	now := c.now().Unix()

	entries := c.store.Load()
	if e, ok := entries[key]; ok && e.CheckedAt > 0 && now-e.CheckedAt <= int64(c.ttl.Seconds()) {
		if e.Data == nil {
			return []model.EarningsEvent{}
		}
		return e.Data
	}

	data := c.provider.Calendar(symbol, from, to)
	if data == nil {
		// Negative results (and failed fetches) are cached like any other.
		data = []model.EarningsEvent{}
	}
	entries[key] = Entry{CheckedAt: now, Data: data}

	if len(entries) > c.maxEntries {
		prune(entries, c.pruneCount)
	}

	if err := c.store.Save(entries); err != nil {
		// Best-effort store; a failed write costs a refetch later, nothing else.
		log.Printf("[WARN] calendar cache save: %v", err)
	}
	return data
}

// prune drops the n oldest entries by CheckedAt, breaking ties by key order.
func prune(entries map[string]Entry, n int) {
	type aged struct {
		ts  int64
		key string
	}
	items := make([]aged, 0, len(entries))
	for k, v := range entries {
		items = append(items, aged{ts: v.CheckedAt, key: k})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ts != items[j].ts {
			return items[i].ts < items[j].ts
		}
		return items[i].key < items[j].key
	})
	for i := 0; i < n && i < len(items); i++ {
		delete(entries, items[i].key)
	}
}

// NextEarningsDate returns the earliest upcoming earnings date for symbol
// within daysAhead days, or false if none is known. When a secondary source
// is configured it is consulted once, purely to warn on a >=4 day mismatch;
// the returned date always comes from the primary provider.
func (c *Cache) NextEarningsDate(symbol string, daysAhead int) (string, bool) {
	today := truncateToDay(c.now())
	events := c.Get(symbol, today, today.AddDate(0, 0, daysAhead))

	// Providers are not guaranteed to sort; take the earliest dated event.
	var first model.EarningsEvent
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		if first.Date == "" || e.Date < first.Date {
			first = e
		}
	}
	if first.Date == "" {
		return "", false
	}

	if c.secondary != nil {
		if alt, ok := c.secondary.NextEarningsDate(symbol); ok {
			if primary, err := first.ParsedDate(); err == nil {
				diff := primary.Sub(truncateToDay(alt)) / (24 * time.Hour)
				if diff < 0 {
					diff = -diff
				}
				if diff >= mismatchWarnDays {
					log.Printf("[WARN] earnings date mismatch for %s: primary=%s secondary=%s",
						symbol, first.Date, alt.Format(model.DateLayout))
				}
			}
		}
	}

	return first.Date, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
