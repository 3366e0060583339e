package content

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlaceholderPrefix marks ids of built-in placeholder items. Such ids never
// reach the workspace.
const PlaceholderPrefix = "mock-"

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackSet struct {
	Posts    []Summary `yaml:"posts"`
	Projects []Summary `yaml:"projects"`
}

var fallback = mustParseFallback(fallbackYAML)

func mustParseFallback(data []byte) fallbackSet {
	var set fallbackSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		panic(fmt.Sprintf("content: parse fallback.yaml: %v", err))
	}
	for _, s := range append(append([]Summary{}, set.Posts...), set.Projects...) {
		if !IsPlaceholder(s.ID) {
			panic(fmt.Sprintf("content: fallback id %q lacks prefix %q", s.ID, PlaceholderPrefix))
		}
	}
	return set
}

// IsPlaceholder reports whether id names a built-in placeholder item.
func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}

// Fallback returns a fresh copy of the placeholder sequence for kind, in
// declared order.
func Fallback(kind Kind) []Summary {
	src := fallback.Posts
	if kind == Project {
		src = fallback.Projects
	}
	out := make([]Summary, len(src))
	for i, s := range src {
		out[i] = s.clone()
	}
	return out
}

func findFallback(kind Kind, id string) (Summary, bool) {
	for _, s := range Fallback(kind) {
		if s.ID == id {
			return s, true
		}
	}
	return Summary{}, false
}
