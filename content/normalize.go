package content

import (
	"encoding/json"
	"time"

	"github.com/eringen/folio/notion"
)

// UntitledTitle is used when a row has no usable title.
const UntitledTitle = "Untitled"

const dateLayout = "2006-01-02"

// rule reads one property and reports whether it matched. Rules for a field
// are tried in order; the first match wins.
type rule[T any] struct {
	property string
	extract  func(raw json.RawMessage) (T, bool)
}

func firstMatch[T any](props notion.Properties, rules []rule[T]) (T, bool) {
	for _, r := range rules {
		raw, ok := props[r.property]
		if !ok || len(raw) == 0 {
			continue
		}
		if v, ok := r.extract(raw); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

var (
	titleRules = []rule[string]{
		{property: "Title", extract: titleText},
		{property: "Name", extract: titleText},
	}
	dateRules = []rule[string]{
		{property: "Date", extract: dateStart},
	}
	descriptionRules = []rule[string]{
		{property: "Description", extract: richText},
	}
	tagRules = []rule[[]string]{
		{property: "Tags", extract: multiSelect},
	}
	linkRules = []rule[string]{
		{property: "Link", extract: urlValue},
	}
)

// Normalize maps a raw property bag onto a Summary. Missing optional
// properties are left empty; Title and Date always get a value. Links are
// only read for projects. today supplies the date for rows without one.
func Normalize(kind Kind, id string, props notion.Properties, today time.Time) Summary {
	s := Summary{ID: id}

	s.Title, _ = firstMatch(props, titleRules)
	if s.Title == "" {
		s.Title = UntitledTitle
	}

	if d, ok := firstMatch(props, dateRules); ok {
		s.Date = d
	} else {
		s.Date = today.UTC().Format(dateLayout)
	}

	if d, ok := firstMatch(props, descriptionRules); ok {
		s.Description = &d
	}

	if tags, ok := firstMatch(props, tagRules); ok {
		s.Tags = tags
	}

	if kind == Project {
		s.Link, _ = firstMatch(props, linkRules)
	}
	return s
}

func titleText(raw json.RawMessage) (string, bool) {
	var p struct {
		Title *[]notion.RichText `json:"title"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.Title == nil {
		return "", false
	}
	return notion.PlainText(*p.Title), true
}

func richText(raw json.RawMessage) (string, bool) {
	var p struct {
		RichText *[]notion.RichText `json:"rich_text"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.RichText == nil {
		return "", false
	}
	return notion.PlainText(*p.RichText), true
}

// dateStart returns the day of a date property's start. Start values that
// carry a time of day are cut to their date.
func dateStart(raw json.RawMessage) (string, bool) {
	var p struct {
		Date *struct {
			Start string `json:"start"`
		} `json:"date"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.Date == nil || p.Date.Start == "" {
		return "", false
	}
	start := p.Date.Start
	if len(start) > len(dateLayout) {
		if _, err := time.Parse(dateLayout, start[:len(dateLayout)]); err == nil {
			start = start[:len(dateLayout)]
		}
	}
	return start, true
}

func multiSelect(raw json.RawMessage) ([]string, bool) {
	var p struct {
		MultiSelect *[]struct {
			Name string `json:"name"`
		} `json:"multi_select"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.MultiSelect == nil {
		return nil, false
	}
	tags := make([]string, 0, len(*p.MultiSelect))
	for _, opt := range *p.MultiSelect {
		tags = append(tags, opt.Name)
	}
	return tags, true
}

func urlValue(raw json.RawMessage) (string, bool) {
	var p struct {
		URL *string `json:"url"`
	}
	if err := json.Unmarshal(raw, &p); err != nil || p.URL == nil || *p.URL == "" {
		return "", false
	}
	return *p.URL, true
}

// optionName reads the option name of a select or status property.
func optionName(raw json.RawMessage) (string, bool) {
	var p struct {
		Select *struct {
			Name string `json:"name"`
		} `json:"select"`
		Status *struct {
			Name string `json:"name"`
		} `json:"status"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", false
	}
	switch {
	case p.Select != nil:
		return p.Select.Name, true
	case p.Status != nil:
		return p.Status.Name, true
	}
	return "", false
}
