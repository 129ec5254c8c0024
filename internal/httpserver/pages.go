package httpserver

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/content"
	custommw "github.com/roar-center/roar-web/internal/middleware"
	"github.com/roar-center/roar-web/internal/observability"
	"github.com/roar-center/roar-web/internal/seo"
)

type homeView struct {
	HTML     template.HTML
	Fallback bool
}

type documentView struct {
	Class   string
	Heading string
	Intro   string
	HTML    template.HTML
	Error   string
}

type categoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type guidesView struct {
	Query      string
	Category   string
	Categories []categoryOption
	Guides     []content.Guide
}

type guideView struct {
	Guide content.Guide
	Error string
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	doc, fallback := s.content.Home(r.Context())
	meta := s.site.Page("", "", "/").WithJSONLD(
		seo.WebSite(s.site.Title, s.site.URL("/"), s.site.URL("/guides")+"?q="),
		seo.Organization(s.site.Title, s.site.URL("/"), s.site.Tagline),
	)
	s.views.render(w, r, http.StatusOK, "home", s.pageData(r, meta, "", homeView{HTML: doc.HTML, Fallback: fallback}))
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	doc, err := s.content.History(r.Context())
	s.document(w, r, doc, err, documentView{
		Class:   "history-page",
		Heading: "History of Campus Organizing",
		Intro:   "The legacy of student activism at the University of Oregon",
		Error:   "Failed to load history content.",
	})
}

func (s *server) organizations(w http.ResponseWriter, r *http.Request) {
	doc, err := s.content.Organizations(r.Context())
	s.document(w, r, doc, err, documentView{
		Class:   "organizations-page",
		Heading: "Partner Organizations",
		Intro:   "Meet the organizations that make up the ROAR coalition",
		Error:   "Failed to load organizations content.",
	})
}

// document renders a markdown page; a load failure keeps the page and shows the
// error inline.
func (s *server) document(w http.ResponseWriter, r *http.Request, doc content.Document, err error, view documentView) {
	if err != nil {
		observability.FromContext(r.Context()).Warn("page content unavailable", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		view.HTML = doc.HTML
		view.Error = ""
		if t := doc.Title(); t != "" {
			view.Heading = t
		}
	}
	meta := s.site.Page(view.Heading, view.Intro, r.URL.Path)
	s.views.render(w, r, http.StatusOK, "document", s.pageData(r, meta, "", view))
}

func (s *server) resources(w http.ResponseWriter, r *http.Request) {
	res := s.content.Resources(r.Context())
	meta := s.site.Page("Resources", res.Intro, r.URL.Path)
	s.views.render(w, r, http.StatusOK, "resources", s.pageData(r, meta, "", res))
}

func (s *server) guides(w http.ResponseWriter, r *http.Request) {
	all := s.content.LoadGuides(r.Context())
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	if category == "" {
		category = "all"
	}
	query := q.Get("q")

	view := guidesView{
		Query:    query,
		Category: category,
		Guides:   content.SearchGuides(content.FilterGuidesByCategory(all, category), query),
	}
	for _, c := range content.GuideCategories(all) {
		view.Categories = append(view.Categories, categoryOption{Value: c, Label: content.CategoryLabel(c), Selected: c == category})
	}

	if custommw.HTMXInfoFromContext(r.Context()).Partial() {
		s.views.renderFragment(w, r, http.StatusOK, "guides", "guide-grid", view)
		return
	}
	meta := s.site.Page("Organizing Guides", "Resources and guides for effective campus organizing", r.URL.Path)
	s.views.render(w, r, http.StatusOK, "guides", s.pageData(r, meta, "", view))
}

func (s *server) guide(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	g, err := s.content.Guide(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).Warn("guide unavailable", zap.String("slug", slug), zap.Error(err))
		meta := s.site.Page("Organizing Guides", "", r.URL.Path)
		s.views.render(w, r, http.StatusOK, "guide", s.pageData(r, meta, "", guideView{Error: "Failed to load guide."}))
		return
	}
	meta := s.site.Page(g.Title, g.Excerpt(), r.URL.Path).Article().WithJSONLD(
		seo.Article(g.Title, s.site.URL(r.URL.Path), g.Date, g.Tags),
	)
	s.views.render(w, r, http.StatusOK, "guide", s.pageData(r, meta, g.Title, guideView{Guide: g}))
}

func (s *server) notFound(w http.ResponseWriter, r *http.Request) {
	meta := s.site.Page("Page not found", "", r.URL.Path)
	meta.Robots = "noindex"
	s.views.render(w, r, http.StatusNotFound, "notfound", s.pageData(r, meta, "", "We could not find the page you were looking for."))
}
