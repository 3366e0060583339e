package folio_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/content/mocks"
	"github.com/eringen/folio/notion"
	"github.com/eringen/folio/views"
)

const realID = "1f2e3d4c-5b6a-4789-8abc-0123456789ab"

var testConfig = folio.SiteConfig{
	Name:        "Folio",
	URL:         "https://example.com",
	Description: "Notes and projects",
	Author:      "Ada",
	Revalidate:  folio.DefaultRevalidate,
}

func newApp(t *testing.T, cfg folio.SiteConfig, f *content.Fetcher) *folio.App {
	t.Helper()
	if f == nil {
		f = content.NewFetcher(nil, nil, content.Config{})
	}
	app := folio.New(cfg, f, views.Default(), folio.WithStaticDir(t.TempDir()))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func get(t *testing.T, app *folio.App, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestHomeServesPlaceholders(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))

	doc := parse(t, rec)
	assert.Equal(t, "Building Interactive Web Experiences", doc.Find("#writing li.item h3 a").First().Text())
	assert.Equal(t, "Portfolio Website", doc.Find("#projects li.item h3 a").First().Text())
	ld := doc.Find(`script[type="application/ld+json"]`).Text()
	assert.Contains(t, ld, `"@type":"WebSite"`)
}

func TestBlogTagFilter(t *testing.T) {
	app := newApp(t, testConfig, nil)

	doc := parse(t, get(t, app, "/blog/?tag=typescript"))
	items := doc.Find("li.item h3 a")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "The Art of Clean Code", items.Text())
	assert.Equal(t, "Blog tagged typescript - Ada", doc.Find("title").Text())
}

func TestBlogRedirectsToTrailingSlash(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/blog")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/", rec.Header().Get("Location"))
}

func TestPlaceholderPostRendersHeaderOnly(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/blog/mock-1/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))
	doc := parse(t, rec)
	assert.Equal(t, "Building Interactive Web Experiences - Ada", doc.Find("title").Text())
	assert.Equal(t, "Building Interactive Web Experiences", doc.Find("article h1").Text())
	assert.Equal(t, 1, doc.Find("article p.notice").Length())
	assert.Equal(t, 0, doc.Find(".prose").Length())
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Exploring modern techniques for creating engaging user interfaces.", desc)
}

func TestUnknownPlaceholderIsNotFound(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/blog/mock-99/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post Not Found", parse(t, rec).Find("title").Text())

	rec = get(t, app, "/projects/mock-1/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project Not Found", parse(t, rec).Find("title").Text())
}

func TestUnconfiguredRealIDIsNotFound(t *testing.T) {
	app := newApp(t, testConfig, nil)
	assert.Equal(t, http.StatusNotFound, get(t, app, "/blog/"+realID+"/").Code)
}

func TestProjectDetailJSONLD(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/projects/mock-project-1/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	var ld map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc.Find(`script[type="application/ld+json"]`).Text()), &ld))
	assert.Equal(t, "CreativeWork", ld["@type"])
	assert.Equal(t, "https://example.com/projects/mock-project-1/", ld["url"])
	assert.Equal(t, "https://portfolio.example.com", ld["sameAs"])
	assert.Equal(t, "This project doesn't have additional detailed content.", doc.Find("article p.notice").Text())
}

func paragraphMap(t *testing.T, text string) *notion.RecordMap {
	t.Helper()
	var b notion.Block
	raw := `{"id":"b1","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"` + text + `"}]}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return &notion.RecordMap{
		Page:     &notion.Page{ID: realID},
		Blocks:   map[string]*notion.Block{"b1": &b},
		Children: map[string][]string{realID: {"b1"}},
	}
}

func TestRealPostOutcomes(t *testing.T) {
	props := notion.Properties{
		"Title": json.RawMessage(`{"title":[{"plain_text":"Real post"}]}`),
		"Date":  json.RawMessage(`{"date":{"start":"2025-03-01"}}`),
	}

	tests := []struct {
		name       string
		page       *notion.Page
		pageErr    error
		detail     content.Detail
		detailErr  error
		wantStatus int
		wantBody   string
		wantNotice bool
		wantCache  string
	}{
		{
			name:       "full",
			page:       &notion.Page{ID: realID, Properties: props},
			detail:     paragraphMap(t, "Hello from the workspace"),
			wantStatus: http.StatusOK,
			wantBody:   "Hello from the workspace",
			wantCache:  "public, s-maxage=60, stale-while-revalidate=60",
		},
		{
			name:       "content failure keeps header",
			page:       &notion.Page{ID: realID, Properties: props},
			detailErr:  &notion.APIError{Status: 502, Code: "bad_gateway"},
			wantStatus: http.StatusOK,
			wantNotice: true,
			wantCache:  "no-store",
		},
		{
			name:       "meta absent wins over content",
			pageErr:    &notion.APIError{Status: 404, Code: "object_not_found"},
			detail:     paragraphMap(t, "orphan"),
			wantStatus: http.StatusNotFound,
			wantCache:  "no-store",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ws := mocks.NewMockWorkspace(ctrl)
			resolver := mocks.NewMockResolver(ctrl)
			ws.EXPECT().RetrievePage(gomock.Any(), realID).Return(tt.page, tt.pageErr)
			resolver.EXPECT().ResolvePage(gomock.Any(), realID).Return(tt.detail, tt.detailErr)
			// No QueryDatabase expectation: a detail page makes exactly the
			// two calls above.

			f := content.NewFetcher(ws, resolver, content.Config{PostsDatabaseID: "posts-db"})
			app := newApp(t, testConfig, f)

			rec := get(t, app, "/blog/"+realID+"/")
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
			if tt.wantStatus != http.StatusOK {
				return
			}
			doc := parse(t, rec)
			assert.Equal(t, "Real post", doc.Find("article h1").Text())
			assert.Equal(t, tt.wantBody, doc.Find(".prose p").Text())
			assert.Equal(t, tt.wantNotice, doc.Find("article p.notice").Length() == 1)
		})
	}
}

func TestFeedParses(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	require.NoError(t, err)
	assert.Equal(t, "Folio", feed.Title)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "Building Interactive Web Experiences", feed.Items[0].Title)
	assert.Equal(t, "https://example.com/blog/mock-1/", feed.Items[0].Link)
	assert.Equal(t, []string{"React", "Animation"}, feed.Items[0].Categories)
	require.NotNil(t, feed.Items[0].PublishedParsed)
	assert.Equal(t, "2025-01-30", feed.Items[0].PublishedParsed.Format("2006-01-02"))
}

func TestSitemap(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 9, strings.Count(body, "<loc>"))
	assert.Contains(t, body, "<loc>https://example.com/projects/mock-project-2/</loc>")
	assert.Contains(t, body, "<lastmod>2025-01-25</lastmod>")
}

func TestRobotsAndHealth(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://example.com/sitemap.xml")

	rec = get(t, app, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEmbeddedAssets(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/public/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), ".callout")
}

func TestDetailRateLimit(t *testing.T) {
	cfg := testConfig
	cfg.RateLimit = 2
	app := newApp(t, cfg, nil)

	assert.Equal(t, http.StatusOK, get(t, app, "/blog/mock-1/").Code)
	assert.Equal(t, http.StatusOK, get(t, app, "/blog/mock-2/").Code)
	rec := get(t, app, "/blog/mock-3/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	// Index pages are not limited.
	assert.Equal(t, http.StatusOK, get(t, app, "/blog/").Code)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newApp(t, testConfig, nil)

	rec := get(t, app, "/nope/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Page Not Found", parse(t, rec).Find("h1").Text())
}

func TestRevalidateDisabled(t *testing.T) {
	cfg := testConfig
	cfg.Revalidate = 0
	app := newApp(t, cfg, nil)

	assert.Equal(t, "no-cache", get(t, app, "/").Header().Get("Cache-Control"))
}

func TestListPageQueriesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	ws := mocks.NewMockWorkspace(ctrl)
	ws.EXPECT().QueryDatabase(gomock.Any(), "posts-db", gomock.Any()).
		Return(nil, errors.New("workspace down")).Times(1)

	f := content.NewFetcher(ws, nil, content.Config{PostsDatabaseID: "posts-db"})
	app := newApp(t, testConfig, f)

	rec := get(t, app, "/blog/?tag=react")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "Building Interactive Web Experiences", doc.Find("li.item h3 a").Text())
}

func TestRelatedComeFromCachedListing(t *testing.T) {
	const siblingID = "2f2e3d4c-5b6a-4789-8abc-0123456789ab"
	tagged := func(title string) notion.Properties {
		return notion.Properties{
			"Title": json.RawMessage(`{"title":[{"plain_text":"` + title + `"}]}`),
			"Tags":  json.RawMessage(`{"multi_select":[{"name":"Go"}]}`),
		}
	}

	ctrl := gomock.NewController(t)
	ws := mocks.NewMockWorkspace(ctrl)
	resolver := mocks.NewMockResolver(ctrl)
	ws.EXPECT().QueryDatabase(gomock.Any(), "posts-db", gomock.Any()).Return([]notion.Page{
		{ID: realID, Properties: tagged("Current")},
		{ID: siblingID, Properties: tagged("Sibling")},
	}, nil).Times(1)
	ws.EXPECT().RetrievePage(gomock.Any(), realID).Return(&notion.Page{ID: realID, Properties: tagged("Current")}, nil)
	resolver.EXPECT().ResolvePage(gomock.Any(), realID).Return(paragraphMap(t, "body"), nil)

	f := content.NewFetcher(ws, resolver, content.Config{PostsDatabaseID: "posts-db"})
	app := newApp(t, testConfig, f)

	require.Equal(t, http.StatusOK, get(t, app, "/blog/").Code)
	doc := parse(t, get(t, app, "/blog/"+realID+"/"))
	related := doc.Find("section.related li.item h3 a")
	require.Equal(t, 1, related.Length())
	assert.Equal(t, "Sibling", related.Text())
}

func TestReloadSwapsContentSource(t *testing.T) {
	app := newApp(t, testConfig, nil)
	doc := parse(t, get(t, app, "/blog/"))
	require.Equal(t, 3, doc.Find("li.item").Length())

	ctrl := gomock.NewController(t)
	ws := mocks.NewMockWorkspace(ctrl)
	ws.EXPECT().QueryDatabase(gomock.Any(), "posts-db", gomock.Any()).Return([]notion.Page{
		{ID: realID, Properties: notion.Properties{"Title": json.RawMessage(`{"title":[{"plain_text":"Fresh"}]}`)}},
	}, nil)
	app.Reload(content.NewFetcher(ws, nil, content.Config{PostsDatabaseID: "posts-db"}))

	doc = parse(t, get(t, app, "/blog/"))
	items := doc.Find("li.item h3 a")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "Fresh", items.Text())
}
