package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/blocks"
	"github.com/eringen/folio/content"
)

// Post renders a blog post.
func Post(p folio.DetailPage) templ.Component {
	return detailPage(p, "The full article is not available right now.", "Related writing")
}

// Project renders a project page.
func Project(p folio.DetailPage) templ.Component {
	return detailPage(p, "This project doesn't have additional detailed content.", "Related projects")
}

func detailPage(p folio.DetailPage, missing, relatedHeading string) templ.Component {
	return Layout(p.Meta, p.Site, component(func(ctx context.Context, buf *bytes.Buffer) error {
		s := p.Summary
		buf.WriteString(`<article><header class="article-header">`)
		buf.WriteString(`<p class="meta"><a href="/` + folio.Section(p.Kind) + `/">&larr; Back</a></p>`)
		buf.WriteString(`<h1>` + esc(s.Title) + `</h1>`)
		buf.WriteString(`<time class="meta" datetime="` + esc(s.Date) + `">` + esc(FormatDate(s.Date)) + `</time>`)
		if d := s.DescriptionOr(""); d != "" {
			buf.WriteString(`<p class="lede">` + esc(d) + `</p>`)
		}
		if s.HasTags() {
			tagList(buf, p.Kind, s.Tags, "")
		}
		if p.Kind == content.Project && s.Link != "" {
			if href := blocks.SafeURL(s.Link); href != "" {
				buf.WriteString(`<p><a class="project-link" href="` + href + `" target="_blank" rel="noopener noreferrer">Visit project &rarr;</a></p>`)
			}
		}
		buf.WriteString(`</header>`)

		if p.Outcome == content.OutcomeFull && p.Body != nil {
			buf.WriteString(`<div class="prose">`)
			if err := p.Body.Render(ctx, buf); err != nil {
				return err
			}
			buf.WriteString(`</div>`)
		} else {
			buf.WriteString(`<p class="notice">` + esc(missing) + `</p>`)
		}
		buf.WriteString(`</article>`)

		if len(p.Related) > 0 {
			buf.WriteString(`<section class="related"><h2 class="section-title">` + esc(relatedHeading) + `</h2>`)
			itemList(buf, p.Kind, p.Related, "")
			buf.WriteString(`</section>`)
		}
		return nil
	}))
}
