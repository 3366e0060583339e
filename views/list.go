package views

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
)

// PostList renders the blog index with its tag cloud.
func PostList(p folio.ListPage) templ.Component {
	return listPage(p, "Writing", "No posts match this tag.")
}

// ProjectList renders the project index with its tag cloud.
func ProjectList(p folio.ListPage) templ.Component {
	return listPage(p, "Projects", "No projects match this tag.")
}

func listPage(p folio.ListPage, heading, empty string) templ.Component {
	return Layout(p.Meta, p.Site, component(func(ctx context.Context, buf *bytes.Buffer) error {
		buf.WriteString(`<header class="hero"><h1>` + esc(heading) + `</h1>`)
		if p.ActiveTag != "" {
			buf.WriteString(`<p class="meta">Tagged <strong>` + esc(p.ActiveTag) + `</strong> &middot; <a href="/` + folio.Section(p.Kind) + `/">clear</a></p>`)
		}
		buf.WriteString(`</header>`)
		if len(p.Tags) > 0 {
			buf.WriteString(`<nav aria-label="Tags">`)
			tagList(buf, p.Kind, p.Tags, p.ActiveTag)
			buf.WriteString(`</nav>`)
		}
		itemList(buf, p.Kind, p.Items, empty)
		return nil
	}))
}

func itemList(buf *bytes.Buffer, kind content.Kind, items []content.Summary, empty string) {
	if len(items) == 0 {
		buf.WriteString(`<p class="notice">` + esc(empty) + `</p>`)
		return
	}
	buf.WriteString(`<ul class="item-list">`)
	for _, s := range items {
		buf.WriteString(`<li class="item"><h3><a href="` + esc(folio.ItemPath(kind, s.ID)) + `">` + esc(s.Title) + `</a></h3>`)
		buf.WriteString(`<time class="meta" datetime="` + esc(s.Date) + `">` + esc(FormatDate(s.Date)) + `</time>`)
		if d := s.DescriptionOr(""); d != "" {
			buf.WriteString(`<p>` + esc(d) + `</p>`)
		}
		if s.HasTags() {
			tagList(buf, kind, s.Tags, "")
		}
		buf.WriteString(`</li>`)
	}
	buf.WriteString(`</ul>`)
}

func tagList(buf *bytes.Buffer, kind content.Kind, tags []string, active string) {
	buf.WriteString(`<ul class="tags">`)
	for _, t := range tags {
		on := active != "" && strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(active))
		buf.WriteString(`<li><a class="` + TagClass(on) + `" href="` + esc(TagHref(kind, t)) + `">` + esc(t) + `</a></li>`)
	}
	buf.WriteString(`</ul>`)
}
