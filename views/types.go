package views

import "github.com/eringen/folio"

// Home page section sizes.
const (
	HomePostLimit    = 5
	HomeProjectLimit = 4
)

type navItem struct {
	Label string
	Href  string
}

var navItems = []navItem{
	{Label: "Writing", Href: "/blog/"},
	{Label: "Projects", Href: "/projects/"},
	{Label: "Contact", Href: "/#contact"},
}

// Default returns the built-in templates wired for folio.New.
func Default() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:        Home,
		PostList:    PostList,
		ProjectList: ProjectList,
		Post:        Post,
		Project:     Project,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}
