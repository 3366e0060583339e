package folio

import (
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/internal/logger"
)

const (
	// DefaultRevalidate is how long list results and page responses stay
	// fresh unless configured otherwise.
	DefaultRevalidate = 60 * time.Second
	// DefaultRateLimit is the per-IP detail page budget per minute.
	DefaultRateLimit = 120
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for titles and JSON-LD

	Addr string // Listen address (default ":3000")

	// Revalidate is the freshness window for cached listings and the
	// s-maxage hint sent to shared caches. Zero disables both.
	Revalidate time.Duration
	// RateLimit caps detail page requests per IP per minute. Zero disables
	// the limiter.
	RateLimit int

	Profile Profile
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

// owner is the name used in page titles.
func (c SiteConfig) owner() string {
	if c.Author != "" {
		return c.Author
	}
	return c.Name
}

func (c SiteConfig) site() Site {
	return Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		Profile:     c.Profile,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		if dir != "" {
			a.staticDir = dir
		}
	}
}

// WithLogger sets the application logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithRenderer replaces the component used to render resolved page bodies.
func WithRenderer(fn func(content.Detail) templ.Component) Option {
	return func(a *App) {
		if fn != nil {
			a.renderBody = fn
		}
	}
}
