package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

// NotFound renders the 404 page.
func NotFound(meta folio.PageMeta, site folio.Site) templ.Component {
	if meta.Title == "" {
		meta.Title = "Page Not Found"
	}
	return Layout(meta, site, component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<header class="hero"><h1>` + esc(meta.Title) + `</h1>`)
		buf.WriteString(`<p>The page you are looking for does not exist or has moved.</p>`)
		buf.WriteString(`<p><a href="/">Go home</a></p></header>`)
		return nil
	}))
}

// ServerError renders the 500 page.
func ServerError(site folio.Site) templ.Component {
	meta := folio.PageMeta{Title: "Something went wrong"}
	return Layout(meta, site, component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<header class="hero"><h1>Something went wrong</h1>`)
		buf.WriteString(`<p>Please try again in a moment.</p></header>`)
		return nil
	}))
}
