package views

import (
	"bytes"
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
)

// Layout wraps body in the document shell: head metadata, navigation and
// footer.
func Layout(meta folio.PageMeta, site folio.Site, body templ.Component) templ.Component {
	return component(func(ctx context.Context, buf *bytes.Buffer) error {
		title := meta.Title
		if title == "" {
			title = site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}

		buf.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
		buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		buf.WriteString(`<title>` + esc(title) + `</title>`)
		if desc != "" {
			buf.WriteString(`<meta name="description" content="` + esc(desc) + `"/>`)
			buf.WriteString(`<meta property="og:description" content="` + esc(desc) + `"/>`)
		}
		buf.WriteString(`<meta property="og:title" content="` + esc(title) + `"/>`)
		buf.WriteString(`<meta property="og:site_name" content="` + esc(site.Name) + `"/>`)
		if meta.OGType != "" {
			buf.WriteString(`<meta property="og:type" content="` + esc(meta.OGType) + `"/>`)
		}
		if meta.URL != "" {
			buf.WriteString(`<link rel="canonical" href="` + esc(meta.URL) + `"/>`)
			buf.WriteString(`<meta property="og:url" content="` + esc(meta.URL) + `"/>`)
		}
		buf.WriteString(`<link rel="icon" href="/public/favicon.svg" type="image/svg+xml"/>`)
		buf.WriteString(`<link rel="stylesheet" href="/public/site.css"/>`)
		buf.WriteString(`<link rel="alternate" type="application/rss+xml" title="` + esc(site.Name) + `" href="/feed.xml"/>`)
		if meta.JSONLD != "" {
			// JSON from encoding/json escapes <, > and &, so it cannot close the tag.
			buf.WriteString(`<script type="application/ld+json">` + meta.JSONLD + `</script>`)
		}
		buf.WriteString(`</head><body><div class="wrap">`)

		buf.WriteString(`<nav class="site-nav"><a class="brand" href="/">` + esc(site.Name) + `</a><div>`)
		for _, item := range navItems {
			buf.WriteString(`<a href="` + item.Href + `">` + item.Label + `</a>`)
		}
		buf.WriteString(`</div></nav><main>`)

		if err := body.Render(ctx, buf); err != nil {
			return err
		}

		buf.WriteString(`</main><footer class="site-footer">`)
		owner := site.Author
		if owner == "" {
			owner = site.Name
		}
		buf.WriteString(`&copy; ` + time.Now().Format("2006") + ` ` + esc(owner))
		buf.WriteString(` &middot; <a href="/feed.xml">RSS</a></footer></div></body></html>`)
		return nil
	})
}
