package folio

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string // pre-encoded schema.org object, empty for none
}

// Link is a labelled external link shown in the contact section.
type Link struct {
	Label string `mapstructure:"label" yaml:"label"`
	URL   string `mapstructure:"url" yaml:"url"`
}

// Profile is the site owner's public profile shown on the home page.
type Profile struct {
	Headline string `mapstructure:"headline" yaml:"headline"`
	Intro    string `mapstructure:"intro" yaml:"intro"`
	Email    string `mapstructure:"email" yaml:"email"`
	Links    []Link `mapstructure:"links" yaml:"links"`
}

// Site is the site-wide data every page template receives.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Profile     Profile
}

// HomePage is the data for the landing page.
type HomePage struct {
	Meta     PageMeta
	Site     Site
	Posts    []content.Summary
	Projects []content.Summary
}

// ListPage is the data for the post and project indexes.
type ListPage struct {
	Meta      PageMeta
	Site      Site
	Kind      content.Kind
	Items     []content.Summary
	Tags      []string
	ActiveTag string
}

// DetailPage is the data for a single post or project. Body is nil unless
// Outcome is content.OutcomeFull.
type DetailPage struct {
	Meta    PageMeta
	Site    Site
	Kind    content.Kind
	Summary content.Summary
	Outcome content.Outcome
	Body    templ.Component
	Related []content.Summary
}
