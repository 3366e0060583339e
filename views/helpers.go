package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
)

// component renders fn into a buffer and writes it out in one go.
func component(fn func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := fn(ctx, &buf); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func esc(s string) string { return html.EscapeString(s) }

// FormatDate renders a YYYY-MM-DD day as "January 2, 2006". Other values are
// returned unchanged.
func FormatDate(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("January 2, 2006")
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag active"
	}
	return "tag"
}

// TagHref links a tag pill to the filtered index of kind.
func TagHref(kind content.Kind, tag string) string {
	return "/" + folio.Section(kind) + "/?tag=" + url.QueryEscape(tag)
}

func limit(items []content.Summary, n int) []content.Summary {
	if len(items) > n {
		return items[:n]
	}
	return items
}
