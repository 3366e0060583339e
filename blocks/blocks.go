// Package blocks renders a resolved workspace page as HTML, wrapped in a
// templ component.
package blocks

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/folio/notion"
)

// maxNesting bounds how deep nested children are rendered.
const maxNesting = 32

// Render returns a templ.Component for detail. Anything other than a
// resolved page renders a short notice instead of failing.
func Render(detail any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		switch d := detail.(type) {
		case *notion.RecordMap:
			RenderRecordMap(&buf, d)
		case notion.RecordMap:
			RenderRecordMap(&buf, &d)
		default:
			buf.WriteString(`<p class="content-unsupported">This content cannot be displayed.</p>`)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderRecordMap writes the HTML for every block under the page root.
func RenderRecordMap(buf *bytes.Buffer, rm *notion.RecordMap) {
	if rm == nil {
		return
	}
	r := &renderer{rm: rm, buf: buf}
	r.children(rm.RootID(), 0)
}

type renderer struct {
	rm         *notion.RecordMap
	buf        *bytes.Buffer
	imageCount int
}

// payload is the union of fields read from the block types we render.
type payload struct {
	RichText   []notion.RichText `json:"rich_text"`
	Caption    []notion.RichText `json:"caption"`
	Color      string            `json:"color"`
	Checked    bool              `json:"checked"`
	Language   string            `json:"language"`
	URL        string            `json:"url"`
	Expression string            `json:"expression"`
	Title      string            `json:"title"`
	Type       string            `json:"type"`

	Cells           [][]notion.RichText `json:"cells"`
	HasColumnHeader bool                `json:"has_column_header"`
	HasRowHeader    bool                `json:"has_row_header"`

	External   *struct {
		URL string `json:"url"`
	} `json:"external"`
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
	Icon *struct {
		Type  string `json:"type"`
		Emoji string `json:"emoji"`
	} `json:"icon"`
}

func (p payload) source() string {
	switch {
	case p.External != nil && p.External.URL != "":
		return p.External.URL
	case p.File != nil && p.File.URL != "":
		return p.File.URL
	}
	return p.URL
}

func (r *renderer) children(parentID string, depth int) {
	if depth >= maxNesting {
		return
	}
	openList := ""
	closeList := func() {
		if openList != "" {
			r.buf.WriteString("</" + openList + ">")
			openList = ""
		}
	}
	for _, b := range r.rm.ChildrenOf(parentID) {
		list := listTag(b.Type)
		if list != openList {
			closeList()
			if list != "" {
				r.buf.WriteString("<" + list + ">")
				openList = list
			}
		}
		r.block(b, depth)
	}
	closeList()
}

func listTag(blockType string) string {
	switch blockType {
	case "bulleted_list_item":
		return "ul"
	case "numbered_list_item":
		return "ol"
	}
	return ""
}

func (r *renderer) hasChildren(b *notion.Block) bool {
	return len(r.rm.Children[b.ID]) > 0
}

func (r *renderer) nested(b *notion.Block, depth int) {
	if r.hasChildren(b) {
		r.children(b.ID, depth+1)
	}
}

func (r *renderer) block(b *notion.Block, depth int) {
	var p payload
	if err := b.Decode(&p); err != nil {
		return
	}
	buf := r.buf
	switch b.Type {
	case "paragraph":
		if len(p.RichText) == 0 && !r.hasChildren(b) {
			return
		}
		buf.WriteString("<p" + colorClass(p.Color) + ">")
		buf.WriteString(FormatRichText(p.RichText))
		buf.WriteString("</p>")
		r.indented(b, depth)
	case "heading_1", "heading_2", "heading_3":
		// The page title owns <h1>.
		tag := map[string]string{"heading_1": "h2", "heading_2": "h3", "heading_3": "h4"}[b.Type]
		buf.WriteString("<" + tag + colorClass(p.Color) + ">")
		buf.WriteString(FormatRichText(p.RichText))
		buf.WriteString("</" + tag + ">")
		r.indented(b, depth)
	case "bulleted_list_item", "numbered_list_item":
		buf.WriteString("<li>")
		buf.WriteString(FormatRichText(p.RichText))
		r.nested(b, depth)
		buf.WriteString("</li>")
	case "to_do":
		class := "todo"
		checked := ""
		if p.Checked {
			class += " todo-done"
			checked = " checked"
		}
		buf.WriteString(`<div class="` + class + `"><input type="checkbox" disabled` + checked + `/> <span>`)
		buf.WriteString(FormatRichText(p.RichText))
		buf.WriteString("</span></div>")
		r.indented(b, depth)
	case "toggle":
		buf.WriteString("<details><summary>")
		buf.WriteString(FormatRichText(p.RichText))
		buf.WriteString("</summary>")
		r.nested(b, depth)
		buf.WriteString("</details>")
	case "quote":
		buf.WriteString("<blockquote>")
		buf.WriteString(FormatRichText(p.RichText))
		r.nested(b, depth)
		buf.WriteString("</blockquote>")
	case "callout":
		buf.WriteString(`<div class="callout">`)
		if p.Icon != nil && p.Icon.Emoji != "" {
			buf.WriteString(`<span class="callout-icon">` + html.EscapeString(p.Icon.Emoji) + `</span>`)
		}
		buf.WriteString(`<div class="callout-body">`)
		buf.WriteString(FormatRichText(p.RichText))
		r.nested(b, depth)
		buf.WriteString("</div></div>")
	case "code":
		r.code(p)
	case "divider":
		buf.WriteString("<hr/>")
	case "image":
		r.image(p)
	case "bookmark", "embed", "video", "pdf", "file":
		href := SafeURL(p.source())
		if href == "" {
			return
		}
		label := html.EscapeString(p.source())
		if len(p.Caption) > 0 {
			label = FormatRichText(p.Caption)
		}
		buf.WriteString(`<p class="` + b.Type + `"><a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a></p>`)
	case "equation":
		buf.WriteString(`<pre class="equation"><code>` + html.EscapeString(p.Expression) + `</code></pre>`)
	case "child_page":
		buf.WriteString(`<p class="child-page">` + html.EscapeString(p.Title) + `</p>`)
	case "column_list":
		buf.WriteString(`<div class="columns">`)
		r.nested(b, depth)
		buf.WriteString("</div>")
	case "column":
		buf.WriteString(`<div class="column">`)
		r.nested(b, depth)
		buf.WriteString("</div>")
	case "synced_block":
		r.nested(b, depth)
	case "table":
		r.table(b, p, depth)
	}
}

// table renders a table block from its table_row children.
func (r *renderer) table(b *notion.Block, p payload, depth int) {
	if depth+1 >= maxNesting {
		return
	}
	buf := r.buf
	buf.WriteString(`<div class="table-wrapper"><table>`)
	body := false
	for i, row := range r.rm.ChildrenOf(b.ID) {
		if row.Type != "table_row" {
			continue
		}
		var rp payload
		if err := row.Decode(&rp); err != nil {
			continue
		}
		head := i == 0 && p.HasColumnHeader
		if head {
			buf.WriteString("<thead>")
		} else if !body {
			buf.WriteString("<tbody>")
			body = true
		}
		buf.WriteString("<tr>")
		for j, cell := range rp.Cells {
			switch {
			case head:
				buf.WriteString(`<th scope="col">` + FormatRichText(cell) + "</th>")
			case j == 0 && p.HasRowHeader:
				buf.WriteString(`<th scope="row">` + FormatRichText(cell) + "</th>")
			default:
				buf.WriteString("<td>" + FormatRichText(cell) + "</td>")
			}
		}
		buf.WriteString("</tr>")
		if head {
			buf.WriteString("</thead>")
		}
	}
	if body {
		buf.WriteString("</tbody>")
	}
	buf.WriteString("</table></div>")
}

// indented renders children of blocks that do not wrap them natively.
func (r *renderer) indented(b *notion.Block, depth int) {
	if !r.hasChildren(b) {
		return
	}
	r.buf.WriteString(`<div class="block-children">`)
	r.children(b.ID, depth+1)
	r.buf.WriteString("</div>")
}

func (r *renderer) code(p payload) {
	buf := r.buf
	code := html.EscapeString(notion.PlainText(p.RichText))
	lang := strings.TrimSpace(p.Language)
	if lang == "" || lang == "plain text" {
		buf.WriteString(`<pre class="code-block"><code>` + code + `</code></pre>`)
		return
	}
	escapedLang := html.EscapeString(lang)
	slug := html.EscapeString(strings.ReplaceAll(lang, " ", "-"))
	buf.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + slug + `">` + escapedLang + `</span>`)
	buf.WriteString(`<pre class="code-block"><code class="language-` + slug + `">` + code + `</code></pre></div>`)
}

func (r *renderer) image(p payload) {
	src := SafeURL(p.source())
	if src == "" {
		return
	}
	alt := html.EscapeString(notion.PlainText(p.Caption))
	r.imageCount++
	loadAttr := `loading="lazy"`
	if r.imageCount == 1 {
		loadAttr = `fetchpriority="high"`
	}
	r.buf.WriteString(`<figure><img ` + loadAttr + ` alt="` + alt + `" src="` + src + `" decoding="async"/>`)
	if len(p.Caption) > 0 {
		r.buf.WriteString("<figcaption>" + FormatRichText(p.Caption) + "</figcaption>")
	}
	r.buf.WriteString("</figure>")
}

func colorClass(color string) string {
	if color == "" || color == "default" {
		return ""
	}
	return ` class="color-` + html.EscapeString(strings.ReplaceAll(color, "_", "-")) + `"`
}

// FormatRichText renders rich text fragments as inline HTML. Text is escaped;
// links with unsafe schemes are rendered as plain text.
func FormatRichText(fragments []notion.RichText) string {
	var sb strings.Builder
	for _, f := range fragments {
		text := html.EscapeString(f.PlainText)
		text = strings.ReplaceAll(text, "\n", "<br/>")
		if f.Type == "equation" {
			text = `<span class="equation">` + text + `</span>`
		}
		a := f.Annotations
		if a.Code {
			text = "<code>" + text + "</code>"
		}
		if a.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if a.Italic {
			text = "<em>" + text + "</em>"
		}
		if a.Strikethrough {
			text = "<s>" + text + "</s>"
		}
		if a.Underline {
			text = "<u>" + text + "</u>"
		}
		if cls := colorClass(a.Color); cls != "" {
			text = "<span" + cls + ">" + text + "</span>"
		}
		if href := SafeURL(f.Href); href != "" {
			text = `<a href="` + href + `" class="underline decoration-2 underline-offset-4">` + text + `</a>`
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
