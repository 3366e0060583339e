package folio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
)

type fakeLister struct {
	mu       sync.Mutex
	calls    int
	listing  content.Listing
	fallback bool
	delay    time.Duration
}

func (f *fakeLister) ListResult(_ context.Context, kind content.Kind) content.Listing {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fallback {
		return content.Listing{Items: content.Fallback(kind), Fallback: true}
	}
	return f.listing
}

func (f *fakeLister) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func summaries(tags ...[]string) []content.Summary {
	out := make([]content.Summary, len(tags))
	for i, t := range tags {
		out[i] = content.Summary{ID: string(rune('a' + i)), Title: "T", Date: "2025-01-01", Tags: t}
	}
	return out
}

func TestListCacheServesWithinWindow(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries([]string{"Go"})}}
	c := NewListCache(src, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	c.List(ctx, content.Post)
	c.List(ctx, content.Post)
	assert.Equal(t, 1, src.count())

	now = now.Add(time.Minute)
	c.List(ctx, content.Post)
	assert.Equal(t, 2, src.count())

	c.List(ctx, content.Project)
	assert.Equal(t, 3, src.count(), "kinds are cached separately")
}

func TestListCacheSkipsFallback(t *testing.T) {
	src := &fakeLister{fallback: true}
	c := NewListCache(src, time.Minute)

	items := c.List(context.Background(), content.Post)
	assert.Equal(t, content.Fallback(content.Post), items)
	c.List(context.Background(), content.Post)
	assert.Equal(t, 2, src.count())
}

func TestListCacheDisabled(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries(nil)}}
	c := NewListCache(src, 0)

	c.List(context.Background(), content.Post)
	c.List(context.Background(), content.Post)
	assert.Equal(t, 2, src.count())
}

func TestListCacheInvalidate(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries(nil)}}
	c := NewListCache(src, time.Hour)

	c.List(context.Background(), content.Post)
	c.Invalidate()
	c.List(context.Background(), content.Post)
	assert.Equal(t, 2, src.count())
}

func TestListCacheFilterAndTags(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries(
		[]string{"Go", "web"},
		[]string{"rust"},
		[]string{" go "},
	)}}
	c := NewListCache(src, time.Minute)
	ctx := context.Background()

	got := c.Filter(ctx, content.Post, "GO")
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Len(t, c.Filter(ctx, content.Post, ""), 3)
	assert.Empty(t, c.Filter(ctx, content.Post, "zig"))
	assert.Equal(t, []string{"Go", "rust", "web"}, c.Tags(ctx, content.Post))
}

func TestListCacheSharesConcurrentMisses(t *testing.T) {
	const latency = 200 * time.Millisecond
	src := &fakeLister{fallback: true, delay: latency}
	c := NewListCache(src, time.Minute)

	start := time.Now()
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items := c.List(context.Background(), content.Post)
			assert.Len(t, items, len(content.Fallback(content.Post)))
		}()
	}
	wg.Wait()

	assert.Less(t, time.Since(start), 3*latency)
	assert.Equal(t, 1, src.count())

	// Nothing was stored, so the next request asks again.
	c.List(context.Background(), content.Post)
	assert.Equal(t, 2, src.count())
}

func TestListCacheBrowseLoadsOnce(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries([]string{"Go"}, []string{"rust"})}}
	c := NewListCache(src, 0)

	items, tags := c.Browse(context.Background(), content.Post, "rust")
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, []string{"Go", "rust"}, tags)
	assert.Equal(t, 1, src.count())
}

func TestListCacheCachedNeverQueries(t *testing.T) {
	src := &fakeLister{listing: content.Listing{Items: summaries(nil)}}
	c := NewListCache(src, time.Minute)

	_, ok := c.Cached(content.Post)
	assert.False(t, ok)
	assert.Equal(t, 0, src.count())

	c.List(context.Background(), content.Post)
	items, ok := c.Cached(content.Post)
	assert.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, src.count())
}

func TestListCacheSetSource(t *testing.T) {
	old := &fakeLister{listing: content.Listing{Items: summaries(nil)}}
	c := NewListCache(old, time.Minute)
	c.List(context.Background(), content.Post)

	next := &fakeLister{listing: content.Listing{Items: summaries(nil, nil)}}
	c.SetSource(next)

	assert.Len(t, c.List(context.Background(), content.Post), 2)
	assert.Equal(t, 1, old.count())
	assert.Equal(t, 1, next.count())
}
