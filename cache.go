package folio

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eringen/folio/content"
)

// Lister is the listing side of the content fetcher.
type Lister interface {
	ListResult(ctx context.Context, kind content.Kind) content.Listing
}

// ListCache keeps the latest listing per kind for one revalidation window.
// Placeholder listings are served but never stored, so the next request
// asks the workspace again. Concurrent misses for one kind share a single
// remote query, and no lock is held while it runs.
type ListCache struct {
	mu      sync.RWMutex
	entries map[content.Kind]listEntry
	gen     uint64
	ttl     time.Duration
	src     Lister
	now     func() time.Time
	group   singleflight.Group
}

type listEntry struct {
	items   []content.Summary
	tags    []string
	fetched time.Time
}

// NewListCache creates a ListCache over src. A ttl of zero or less disables
// caching: every read goes to src.
func NewListCache(src Lister, ttl time.Duration) *ListCache {
	return &ListCache{
		entries: make(map[content.Kind]listEntry),
		ttl:     ttl,
		src:     src,
		now:     time.Now,
	}
}

func (c *ListCache) fresh(kind content.Kind) (listEntry, bool) {
	e, ok := c.entries[kind]
	if !ok || c.ttl <= 0 || c.now().Sub(e.fetched) >= c.ttl {
		return listEntry{}, false
	}
	return e, true
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Loads already in flight are not stored.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.gen++
	c.mu.Unlock()
}

// SetSource replaces the lister and drops every cached listing.
func (c *ListCache) SetSource(src Lister) {
	c.mu.Lock()
	c.src = src
	clear(c.entries)
	c.gen++
	c.mu.Unlock()
}

// ensureLoaded returns the entry for kind after ensuring it is fresh.
func (c *ListCache) ensureLoaded(ctx context.Context, kind content.Kind) listEntry {
	c.mu.RLock()
	if e, ok := c.fresh(kind); ok {
		c.mu.RUnlock()
		return e
	}
	src, gen := c.src, c.gen
	c.mu.RUnlock()

	// The shared query outlives a caller that goes away; the workspace
	// client's timeout still bounds it.
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(fmt.Sprintf("%d/%d", gen, kind), func() (any, error) {
		listing := src.ListResult(loadCtx, kind)
		e := listEntry{
			items:   listing.Items,
			tags:    collectTags(listing.Items),
			fetched: c.now(),
		}
		if !listing.Fallback && c.ttl > 0 {
			c.mu.Lock()
			if c.gen == gen {
				c.entries[kind] = e
			}
			c.mu.Unlock()
		}
		return e, nil
	})
	return v.(listEntry)
}

// Cached returns the stored listing for kind without asking the workspace.
// The bool is false when nothing fresh is stored.
func (c *ListCache) Cached(kind content.Kind) ([]content.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.fresh(kind)
	return e.items, ok
}

// List returns the summaries for kind, newest first.
func (c *ListCache) List(ctx context.Context, kind content.Kind) []content.Summary {
	return c.ensureLoaded(ctx, kind).items
}

// Browse loads kind once and returns the summaries carrying tag together with
// every tag of the listing. An empty tag returns the whole listing.
func (c *ListCache) Browse(ctx context.Context, kind content.Kind, tag string) ([]content.Summary, []string) {
	e := c.ensureLoaded(ctx, kind)
	return filterByTag(e.items, tag), e.tags
}

// Filter returns the summaries for kind carrying tag. An empty tag returns
// the whole listing.
func (c *ListCache) Filter(ctx context.Context, kind content.Kind, tag string) []content.Summary {
	return filterByTag(c.List(ctx, kind), tag)
}

// Tags returns the distinct tags used by kind, sorted case-insensitively.
func (c *ListCache) Tags(ctx context.Context, kind content.Kind) []string {
	return c.ensureLoaded(ctx, kind).tags
}

func filterByTag(items []content.Summary, tag string) []content.Summary {
	if tag == "" {
		return items
	}
	normalized := normalizeTag(tag)
	var filtered []content.Summary
	for _, s := range items {
		for _, t := range s.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, s)
				break
			}
		}
	}
	return filtered
}

func collectTags(items []content.Summary) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, s := range items {
		for _, t := range s.Tags {
			key := normalizeTag(t)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, strings.TrimSpace(t))
		}
	}
	slices.SortFunc(tags, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return tags
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
