// Package folio serves a personal portfolio and blog whose posts and projects
// live in two workspace databases. It is built with Go, Echo, and templ.
//
// Users provide their own templ templates via the ViewFuncs struct, and folio
// handles the routing, caching, feeds, and middleware. The views package ships
// a complete default set.
package folio

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/blocks"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/internal/logger"
)

// ViewFuncs holds the templ components folio calls when rendering pages.
// This is the inversion-of-control mechanism that lets users own and
// customize all templates.
type ViewFuncs struct {
	Home        func(p HomePage) templ.Component
	PostList    func(p ListPage) templ.Component
	ProjectList func(p ListPage) templ.Component
	Post        func(p DetailPage) templ.Component
	Project     func(p DetailPage) templ.Component
	NotFound    func(meta PageMeta, site Site) templ.Component
	ServerError func(site Site) templ.Component
}

// App is the central folio application. It wires together the content
// fetcher, the list cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *ListCache
	Views  ViewFuncs

	log          logger.Logger
	limiter      *RequestLimiter
	renderBody   func(content.Detail) templ.Component
	customRoutes []func(*App)
	staticDir    string
	setupOnce    sync.Once

	// mu guards content and Config.Profile, which a config reload swaps.
	mu      sync.RWMutex
	content *content.Fetcher
}

// New creates a folio App serving the content of f through views.
func New(cfg SiteConfig, f *content.Fetcher, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:     cfg,
		Echo:       echo.New(),
		content:    f,
		Views:      views,
		log:        logger.Discard(),
		renderBody: func(d content.Detail) templ.Component { return blocks.Render(d) },
		staticDir:  "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	a.Cache = NewListCache(f, cfg.Revalidate)
	if cfg.RateLimit > 0 {
		a.limiter = NewRequestLimiter(cfg.RateLimit, rateWindow)
	}
	return a
}

// Handler installs middleware and routes once and returns the Echo instance.
// Start calls it; tests can drive the returned handler directly.
func (a *App) Handler() http.Handler {
	a.setupOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Start installs routes and serves until the server is shut down.
func (a *App) Start() error {
	a.Handler()
	a.log.Infof("folio listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases background resources.
func (a *App) Shutdown(ctx context.Context) error {
	defer a.Close()
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded stylesheet and favicon win over the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/site.css", embeddedHandler)
	e.GET("/public/favicon.svg", embeddedHandler)
	e.GET("/favicon.svg", a.handleFavicon)

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleList(content.Post))
	e.GET("/projects/", a.handleList(content.Project))

	e.GET("/blog/:id/", a.handleDetail(content.Post), a.rateLimit)
	e.GET("/projects/:id/", a.handleDetail(content.Project), a.rateLimit)
}

// UpdateProfile swaps the profile shown on every page. It is safe to call
// while serving.
func (a *App) UpdateProfile(p Profile) {
	a.mu.Lock()
	a.Config.Profile = p
	a.mu.Unlock()
}

// Reload swaps the content fetcher and drops cached listings. It is safe to
// call while serving.
func (a *App) Reload(f *content.Fetcher) {
	a.mu.Lock()
	a.content = f
	a.mu.Unlock()
	a.Cache.SetSource(f)
}

// Content returns the fetcher currently serving requests.
func (a *App) Content() *content.Fetcher {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.content
}

func (a *App) site() Site {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config.site()
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return nil
}
