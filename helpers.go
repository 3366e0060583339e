package folio

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// Section returns the URL path segment for kind: "blog" or "projects".
func Section(kind content.Kind) string {
	if kind == content.Project {
		return "projects"
	}
	return "blog"
}

// ItemPath returns the site-relative path of an item, e.g. "/blog/<id>/".
func ItemPath(kind content.Kind, id string) string {
	return "/" + Section(kind) + "/" + url.PathEscape(id) + "/"
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterRelated returns up to limit items that share at least one tag with
// current, excluding current itself. A limit of zero or less means no limit.
func FilterRelated(current content.Summary, items []content.Summary, limit int) []content.Summary {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	if len(tagSet) == 0 {
		return nil
	}
	var related []content.Summary
	for _, s := range items {
		if s.ID == current.ID {
			continue
		}
		for _, t := range s.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, s)
				break
			}
		}
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func encodeJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func person(name string) map[string]string {
	return map[string]string{"@type": "Person", "name": name}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = person(cfg.Author)
	}
	return encodeJSONLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post content.Summary, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, Section(content.Post), post.ID)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.Description != nil {
		data["description"] = *post.Description
	}
	if cfg.Author != "" {
		data["author"] = person(cfg.Author)
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if post.HasTags() {
		data["keywords"] = JoinTags(post.Tags)
	}
	return encodeJSONLD(data)
}

// CreativeWorkJsonLD returns a JSON-LD string for a project.
func CreativeWorkJsonLD(project content.Summary, cfg SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        project.Title,
		"dateCreated": project.Date,
		"url":         BuildURL(cfg.URL, Section(content.Project), project.ID),
	}
	if project.Description != nil {
		data["description"] = *project.Description
	}
	if project.Link != "" {
		data["sameAs"] = project.Link
	}
	if cfg.Author != "" {
		data["creator"] = person(cfg.Author)
	}
	if project.HasTags() {
		data["keywords"] = JoinTags(project.Tags)
	}
	return encodeJSONLD(data)
}
