package httpserver

import (
	"net/http"

	"github.com/roar-center/roar-web/internal/nav"
	"github.com/roar-center/roar-web/internal/seo"
)

// PageData is the view model shared by every page using the layout.
type PageData struct {
	Lang        string
	SEO         seo.Meta
	Site        seo.Site
	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	// Map loads the Leaflet stylesheet and scripts.
	Map bool

	// Content is the per-page payload.
	Content any
}

func (s *server) pageData(r *http.Request, meta seo.Meta, leaf string, payload any) PageData {
	crumbs := nav.Breadcrumbs(r.URL.Path, leaf)
	if len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: s.site.URL(c.Href)})
		}
		meta = meta.WithJSONLD(seo.BreadcrumbList(items))
	}
	return PageData{
		Lang:        "en",
		SEO:         meta,
		Site:        s.site,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: crumbs,
		Content:     payload,
	}
}
