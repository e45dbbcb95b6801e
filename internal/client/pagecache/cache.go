// Package pagecache caches pages of the transactions list keyed by limit
// and offset, with a freshness window, stale-while-revalidate, background
// prefetch of the next page, and explicit invalidation after uploads.
package pagecache

import (
	"context"
	"sync"
	"time"

	"github.com/payshield/payshield-cli/internal/client/models"
	"github.com/payshield/payshield-cli/internal/logging"
)

// Key identifies one cached page. Distinct limits cache independently
// even when they cover overlapping rows.
type Key struct {
	Limit  int
	Offset int
}

// Fetcher loads one page from the backend.
type Fetcher func(ctx context.Context, limit, offset int) ([]models.Transaction, error)

// Page is what a view renders.
type Page struct {
	Items   []models.Transaction
	HasMore bool // a full page implies more may follow
	Stale   bool // served from cache while a revalidation runs
}

// Options tune the cache windows; zero values fall back to the dashboard
// defaults (fresh for 1m, retained for 5m).
type Options struct {
	FreshFor  time.Duration
	RetainFor time.Duration
}

const (
	defaultFreshFor  = time.Minute
	defaultRetainFor = 5 * time.Minute
)

type entry struct {
	items     []models.Transaction
	fetchedAt time.Time
	stale     bool
	gen       uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	fetch Fetcher
	log   logging.Logger
	opts  Options

	now func() time.Time

	mu       sync.Mutex
	entries  map[Key]*entry
	gen      uint64
	inflight map[Key]bool

	subs []chan struct{}
}

func New(fetch Fetcher, log logging.Logger, opts Options) *Cache {
	if opts.FreshFor <= 0 {
		opts.FreshFor = defaultFreshFor
	}
	if opts.RetainFor <= 0 {
		opts.RetainFor = defaultRetainFor
	}
	return &Cache{
		fetch:    fetch,
		log:      log.With("component", "pagecache"),
		opts:     opts,
		now:      time.Now,
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]bool),
	}
}

// FetchPage returns the requested page, consulting the cache first.
//
// A fresh entry is returned without touching the network. An aged but
// retained entry is returned immediately and revalidated in the
// background. An invalidated entry is refetched synchronously so the
// caller never renders data known to be outdated. On every successful
// full page the next page is prefetched in the background.
func (c *Cache) FetchPage(ctx context.Context, limit, offset int) (Page, error) {
	key := Key{Limit: limit, Offset: offset}
	now := c.now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		age := now.Sub(e.fetchedAt)
		switch {
		case age >= c.opts.RetainFor:
			delete(c.entries, key)
		case e.stale:
			// Explicitly invalidated: fall through to a synchronous fetch.
		case age < c.opts.FreshFor:
			page := pageFor(e.items, limit)
			c.mu.Unlock()
			c.maybePrefetch(ctx, key, page)
			return page, nil
		default:
			// Aged but usable: serve it now, revalidate behind the scenes.
			page := pageFor(e.items, limit)
			page.Stale = true
			c.startRefresh(key)
			c.mu.Unlock()
			c.maybePrefetch(ctx, key, page)
			return page, nil
		}
	}
	gen := c.gen
	c.mu.Unlock()

	items, err := c.fetch(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	c.store(key, gen, items)

	page := pageFor(items, limit)
	c.maybePrefetch(ctx, key, page)
	return page, nil
}

// Invalidate marks every cached page outdated and wakes subscribers. The
// data stays in place so a view can keep rendering it until the refetch
// lands, but the next FetchPage for any key goes to the network.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.gen++
	for _, e := range c.entries {
		e.stale = true
	}
	subs := make([]chan struct{}, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a (coalesced) signal on every
// invalidation.
func (c *Cache) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// Len reports the number of retained pages.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// store writes a fetched page unless an invalidation happened after the
// fetch started; a late write must not mask newer data.
func (c *Cache) store(key Key, gen uint64, items []models.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = &entry{items: items, fetchedAt: c.now(), gen: gen}
}

// startRefresh launches a background revalidation for key. Caller holds
// c.mu.
func (c *Cache) startRefresh(key Key) {
	if c.inflight[key] {
		return
	}
	c.inflight[key] = true
	gen := c.gen

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		items, err := c.fetch(ctx, key.Limit, key.Offset)
		if err != nil {
			// The caller already has a usable page; drop the failure.
			c.log.Debug(ctx, "background revalidation failed",
				"limit", key.Limit, "offset", key.Offset, "error", err)
			return
		}
		c.store(key, gen, items)
	}()
}

// maybePrefetch warms the next page after a full one, so paging forward
// hits the cache. Misses and failures are silent.
func (c *Cache) maybePrefetch(ctx context.Context, key Key, page Page) {
	if !page.HasMore {
		return
	}
	next := Key{Limit: key.Limit, Offset: key.Offset + key.Limit}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[next]; ok && !e.stale && c.now().Sub(e.fetchedAt) < c.opts.FreshFor {
		return
	}
	c.startRefresh(next)
}

func pageFor(items []models.Transaction, limit int) Page {
	out := make([]models.Transaction, len(items))
	copy(out, items)
	return Page{Items: out, HasMore: limit > 0 && len(items) == limit}
}
