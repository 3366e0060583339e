package folio

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/internal/logger"
)

const relatedLimit = 3

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	page := HomePage{
		Meta: PageMeta{
			Title:       a.Config.Name,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			OGType:      "website",
			JSONLD:      WebsiteJsonLD(a.Config),
		},
		Site:     a.site(),
		Posts:    a.Cache.List(ctx, content.Post),
		Projects: a.Cache.List(ctx, content.Project),
	}
	return Render(c, a.Views.Home(page))
}

func (a *App) handleList(kind content.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		tag := strings.TrimSpace(c.QueryParam("tag"))
		items, tags := a.Cache.Browse(c.Request().Context(), kind, tag)
		page := ListPage{
			Meta:      a.listMeta(kind, tag),
			Site:      a.site(),
			Kind:      kind,
			Items:     items,
			Tags:      tags,
			ActiveTag: tag,
		}
		if kind == content.Project {
			return Render(c, a.Views.ProjectList(page))
		}
		return Render(c, a.Views.PostList(page))
	}
}

func (a *App) handleDetail(kind content.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")
		st := a.Content().Page(ctx, kind, id)

		outcome := st.Outcome()
		if outcome == content.OutcomeNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.notFoundMeta(kind), a.site()))
		}
		if outcome == content.OutcomeHeaderOnly && !errors.Is(st.ContentErr, content.ErrPlaceholder) {
			// A degraded page must not outlive the failure in shared caches.
			c.Response().Header().Set("Cache-Control", "no-store")
			logger.WithFields(a.log, logger.Fields{
				"kind":  kind.String(),
				"id":    id,
				"error": fmt.Sprint(st.ContentErr),
			}).Warn("rendering header only")
		}

		page := DetailPage{
			Meta:    a.detailMeta(kind, st.Summary),
			Site:    a.site(),
			Kind:    kind,
			Summary: st.Summary,
			Outcome: outcome,
			Related: FilterRelated(st.Summary, a.relatedPool(kind, id), relatedLimit),
		}
		if outcome == content.OutcomeFull {
			page.Body = a.renderBody(st.Detail)
		}
		if kind == content.Project {
			return Render(c, a.Views.Project(page))
		}
		return Render(c, a.Views.Post(page))
	}
}

// relatedPool returns the listing related items are picked from. It never
// queries the workspace: placeholders relate to the placeholder listing, real
// items to whatever listing is already cached.
func (a *App) relatedPool(kind content.Kind, id string) []content.Summary {
	if content.IsPlaceholder(id) {
		return content.Fallback(kind)
	}
	items, _ := a.Cache.Cached(kind)
	return items
}

func (a *App) listMeta(kind content.Kind, tag string) PageMeta {
	title := "Blog"
	desc := fmt.Sprintf("Writing by %s", a.Config.owner())
	if kind == content.Project {
		title = "Projects"
		desc = fmt.Sprintf("Projects by %s", a.Config.owner())
	}
	if tag != "" {
		title += " tagged " + tag
	}
	return PageMeta{
		Title:       title + " - " + a.Config.owner(),
		Description: desc,
		URL:         BuildURL(a.Config.URL, Section(kind)),
		OGType:      "website",
	}
}

func (a *App) detailMeta(kind content.Kind, s content.Summary) PageMeta {
	owner := a.Config.owner()
	meta := PageMeta{
		Title:  s.Title + " - " + owner,
		URL:    BuildURL(a.Config.URL, Section(kind), s.ID),
		OGType: "article",
	}
	if kind == content.Project {
		meta.Description = s.DescriptionOr(fmt.Sprintf("View %s project details", s.Title))
		meta.JSONLD = CreativeWorkJsonLD(s, a.Config)
	} else {
		meta.Description = s.DescriptionOr(fmt.Sprintf("Read %s on %s's blog", s.Title, owner))
		meta.JSONLD = BlogPostingJsonLD(s, a.Config)
	}
	return meta
}

func (a *App) notFoundMeta(kind content.Kind) PageMeta {
	title := "Post Not Found"
	if kind == content.Project {
		title = "Project Not Found"
	}
	return PageMeta{Title: title, OGType: "website"}
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	return a.renderSitemap(c, a.Cache.List(ctx, content.Post), a.Cache.List(ctx, content.Project))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.List(c.Request().Context(), content.Post))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/public/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimSuffix(BuildURL(a.Config.URL), "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(PageMeta{Title: "Page Not Found"}, a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Errorf("server error on %s: %v", c.Request().URL.Path, err)
		if rerr := RenderStatus(c, code, a.Views.ServerError(a.site())); rerr != nil {
			_ = c.String(code, http.StatusText(code))
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
