package content

//go:generate mockgen -source=fetcher.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/folio/internal/logger"
	"github.com/eringen/folio/notion"
)

// Workspace is the part of the remote workspace API the fetcher needs.
type Workspace interface {
	QueryDatabase(ctx context.Context, databaseID string, q notion.Query) ([]notion.Page, error)
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
}

// Resolver turns a page id into renderable content.
type Resolver interface {
	ResolvePage(ctx context.Context, pageID string) (Detail, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, pageID string) (Detail, error)

// ResolvePage calls fn.
func (fn ResolverFunc) ResolvePage(ctx context.Context, pageID string) (Detail, error) {
	return fn(ctx, pageID)
}

// Config selects the databases and the publishing policy.
type Config struct {
	PostsDatabaseID    string
	ProjectsDatabaseID string

	// PublishedOnly limits listings and detail lookups to rows whose
	// StatusProperty equals PublishedValue. Off by default: every row in the
	// database is shown.
	PublishedOnly  bool
	StatusProperty string // default "Status"
	StatusType     string // "select" (default) or "status"
	PublishedValue string // default "Published"
}

func (c *Config) setDefaults() {
	if c.StatusProperty == "" {
		c.StatusProperty = "Status"
	}
	if c.StatusType == "" {
		c.StatusType = "select"
	}
	if c.PublishedValue == "" {
		c.PublishedValue = "Published"
	}
}

func (c Config) databaseID(kind Kind) string {
	if kind == Project {
		return c.ProjectsDatabaseID
	}
	return c.PostsDatabaseID
}

// Fetcher lists and resolves content. It holds no per-request state and is
// safe for concurrent use.
type Fetcher struct {
	ws       Workspace
	resolver Resolver
	cfg      Config
	log      logger.Logger
	now      func() time.Time
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the logger for recovered failures.
func WithLogger(l logger.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFetcher builds a Fetcher. A nil Workspace or Resolver means the
// workspace is not configured: listings fall back, metadata for real ids is
// absent and content fails with ErrNotConfigured.
func NewFetcher(ws Workspace, resolver Resolver, cfg Config, opts ...FetcherOption) *Fetcher {
	cfg.setDefaults()
	f := &Fetcher{
		ws:       ws,
		resolver: resolver,
		cfg:      cfg,
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Listing is a list result along with where it came from.
type Listing struct {
	Items []Summary
	// Fallback is true when Items are placeholders.
	Fallback bool
}

// List returns the summaries for kind, newest first. It never fails: an
// unconfigured database or a failed query yields the placeholder sequence.
func (f *Fetcher) List(ctx context.Context, kind Kind) []Summary {
	return f.ListResult(ctx, kind).Items
}

// ListResult is List with the fallback flag exposed.
func (f *Fetcher) ListResult(ctx context.Context, kind Kind) Listing {
	dbID := f.cfg.databaseID(kind)
	if dbID == "" || f.ws == nil {
		f.log.Infof("%s database not configured, serving placeholder content", kind)
		return Listing{Items: Fallback(kind), Fallback: true}
	}

	q := notion.Query{
		Sorts: []notion.Sort{{Property: "Date", Direction: notion.Descending}},
	}
	if f.cfg.PublishedOnly {
		q.Filter = f.publishedFilter()
	}

	pages, err := f.ws.QueryDatabase(ctx, dbID, q)
	if err != nil {
		logger.WithFields(f.log, logger.Fields{
			"op":       "list",
			"kind":     kind.String(),
			"database": dbID,
			"error":    err.Error(),
		}).Warn("list query failed, serving placeholder content")
		return Listing{Items: Fallback(kind), Fallback: true}
	}

	today := f.now()
	items := make([]Summary, 0, len(pages))
	for _, p := range pages {
		if p.ID == "" {
			f.log.Warnf("list %s: skipping row without id", kind)
			continue
		}
		items = append(items, Normalize(kind, p.ID, p.Properties, today))
	}
	return Listing{Items: items}
}

// Meta returns the summary of one item. The bool is false when the item does
// not exist or cannot be read; failures are logged, never returned.
func (f *Fetcher) Meta(ctx context.Context, kind Kind, id string) (Summary, bool) {
	if IsPlaceholder(id) {
		return findFallback(kind, id)
	}
	if f.ws == nil {
		f.log.Debugf("meta %s %s: workspace not configured", kind, id)
		return Summary{}, false
	}
	if !validID(id) {
		f.log.Debugf("meta %s %q: not a page id", kind, id)
		return Summary{}, false
	}

	page, err := f.ws.RetrievePage(ctx, id)
	if err != nil {
		logger.WithFields(f.log, logger.Fields{
			"op":    "meta",
			"kind":  kind.String(),
			"id":    id,
			"error": err.Error(),
		}).Warn("page lookup failed")
		return Summary{}, false
	}
	if page == nil || page.Archived || page.InTrash {
		return Summary{}, false
	}
	if !f.belongsTo(kind, page) {
		f.log.Infof("meta %s %s: page belongs to another database", kind, id)
		return Summary{}, false
	}
	if f.cfg.PublishedOnly && !f.published(page) {
		f.log.Infof("meta %s %s: page is not published", kind, id)
		return Summary{}, false
	}
	return Normalize(kind, page.ID, page.Properties, f.now()), true
}

// Content resolves the body of one item. Placeholders fail with
// ErrPlaceholder; any other failure is a *ResolveError.
func (f *Fetcher) Content(ctx context.Context, id string) (Detail, error) {
	if IsPlaceholder(id) {
		return nil, ErrPlaceholder
	}
	if f.resolver == nil {
		return nil, ErrNotConfigured
	}
	if !validID(id) {
		return nil, &ResolveError{ID: id, Err: ErrInvalidID}
	}
	detail, err := f.resolver.ResolvePage(ctx, id)
	if err != nil {
		logger.WithFields(f.log, logger.Fields{
			"op":    "content",
			"id":    id,
			"error": err.Error(),
		}).Error("content resolution failed")
		return nil, &ResolveError{ID: id, Err: err}
	}
	return detail, nil
}

// Page runs Meta and Content for id concurrently and waits for both. Neither
// outcome affects the other.
func (f *Fetcher) Page(ctx context.Context, kind Kind, id string) PageState {
	var (
		st PageState
		wg sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		st.Summary, st.Found = f.Meta(ctx, kind, id)
	}()
	go func() {
		defer wg.Done()
		st.Detail, st.ContentErr = f.Content(ctx, id)
	}()
	wg.Wait()
	return st
}

func (f *Fetcher) publishedFilter() *notion.Filter {
	cond := &notion.Condition{Equals: f.cfg.PublishedValue}
	filter := &notion.Filter{Property: f.cfg.StatusProperty}
	if strings.EqualFold(f.cfg.StatusType, "status") {
		filter.Status = cond
	} else {
		filter.Select = cond
	}
	return filter
}

func (f *Fetcher) published(page *notion.Page) bool {
	raw, ok := page.Properties[f.cfg.StatusProperty]
	if !ok {
		return false
	}
	name, ok := optionName(raw)
	return ok && name == f.cfg.PublishedValue
}

// belongsTo reports whether page is a row of kind's database. Pages are
// accepted when the database is not configured or the parent is unknown.
func (f *Fetcher) belongsTo(kind Kind, page *notion.Page) bool {
	want := f.cfg.databaseID(kind)
	if want == "" || page.Parent.DatabaseID == "" {
		return true
	}
	return sameID(want, page.Parent.DatabaseID)
}

// validID accepts workspace ids in dashed or compact UUID form.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sameID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ua == ub
}
