// Package content is folio's retrieval and normalization layer. It lists
// posts and projects from the workspace, resolves a single item's metadata and
// body, and falls back to built-in placeholder content whenever the workspace
// is not configured or does not answer.
package content

import "strings"

// Kind selects which database a request targets.
type Kind int

const (
	Post Kind = iota
	Project
)

func (k Kind) String() string {
	switch k {
	case Post:
		return "post"
	case Project:
		return "project"
	default:
		return "unknown"
	}
}

// ParseKind accepts "post(s)" or "project(s)".
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "post", "posts", "blog":
		return Post, true
	case "project", "projects":
		return Project, true
	}
	return 0, false
}

// Summary is the normalized list-item record shared by posts and projects.
// A Summary is never modified after it is built.
type Summary struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Date        string   `json:"date" yaml:"date"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Link        string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// DescriptionOr returns the description, or fallback when there is none.
func (s Summary) DescriptionOr(fallback string) string {
	if s.Description == nil || *s.Description == "" {
		return fallback
	}
	return *s.Description
}

// HasTags reports whether the summary carries at least one tag.
func (s Summary) HasTags() bool { return len(s.Tags) > 0 }

func (s Summary) clone() Summary {
	out := s
	if s.Description != nil {
		d := *s.Description
		out.Description = &d
	}
	if s.Tags != nil {
		out.Tags = append([]string{}, s.Tags...)
	}
	return out
}

// Detail is resolved page content. This package never looks inside it; it is
// handed unchanged to the renderer.
type Detail any
