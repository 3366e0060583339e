package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/blocks"
	"github.com/eringen/folio/content"
)

// Home renders the landing page: hero, latest writing, projects and contact.
func Home(p folio.HomePage) templ.Component {
	return Layout(p.Meta, p.Site, component(func(ctx context.Context, buf *bytes.Buffer) error {
		hero(buf, p.Site)

		buf.WriteString(`<section id="writing"><h2 class="section-title">Writing</h2>`)
		itemList(buf, content.Post, limit(p.Posts, HomePostLimit), "No posts yet.")
		if len(p.Posts) > HomePostLimit {
			buf.WriteString(`<p><a href="/blog/">All posts &rarr;</a></p>`)
		}
		buf.WriteString(`</section>`)

		buf.WriteString(`<section id="projects"><h2 class="section-title">Projects</h2>`)
		itemList(buf, content.Project, limit(p.Projects, HomeProjectLimit), "No projects yet.")
		if len(p.Projects) > HomeProjectLimit {
			buf.WriteString(`<p><a href="/projects/">All projects &rarr;</a></p>`)
		}
		buf.WriteString(`</section>`)

		contact(buf, p.Site.Profile)
		return nil
	}))
}

func hero(buf *bytes.Buffer, site folio.Site) {
	headline := site.Profile.Headline
	if headline == "" {
		headline = site.Name
	}
	intro := site.Profile.Intro
	if intro == "" {
		intro = site.Description
	}
	buf.WriteString(`<header class="hero"><h1>` + esc(headline) + `</h1>`)
	if intro != "" {
		buf.WriteString(`<p>` + esc(intro) + `</p>`)
	}
	buf.WriteString(`</header>`)
}

func contact(buf *bytes.Buffer, profile folio.Profile) {
	if profile.Email == "" && len(profile.Links) == 0 {
		return
	}
	buf.WriteString(`<section id="contact" class="contact"><h2 class="section-title">Contact</h2><p>`)
	if profile.Email != "" {
		if href := blocks.SafeURL("mailto:" + profile.Email); href != "" {
			buf.WriteString(`<a href="` + href + `">` + esc(profile.Email) + `</a>`)
		}
	}
	for _, l := range profile.Links {
		href := blocks.SafeURL(l.URL)
		if href == "" {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.URL
		}
		buf.WriteString(`<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + esc(label) + `</a>`)
	}
	buf.WriteString(`</p></section>`)
}
