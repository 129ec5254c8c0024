package httpserver

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/campusmap"
	custommw "github.com/roar-center/roar-web/internal/middleware"
	"github.com/roar-center/roar-web/internal/observability"
	"github.com/roar-center/roar-web/internal/seo"
)

type hiddenField struct {
	Name  string
	Value string
}

type filterButton struct {
	Key    string
	Label  string
	Icon   string
	Color  string
	Href   string
	Active bool
}

type legendEntry struct {
	Key         string
	Name        string
	Icon        string
	Color       string
	Description string
}

type detailView struct {
	campusmap.Detail
	DismissURL string
}

type mapView struct {
	Search        string
	Hidden        []hiddenField
	ShowAll       filterButton
	Filters       []filterButton
	LegendVisible bool
	LegendURL     string
	Legend        []legendEntry
	Ready         bool
	VisibleCount  int
	TotalCount    int
	Surface       template.HTML
	Detail        *detailView
}

// loadPage restores the map page for a request. The dataset comes from the shared
// content cache; a load failure leaves the page in the failed state.
func (s *server) loadPage(ctx context.Context, q url.Values) *campusmap.Page {
	page := campusmap.NewPage(s.content)
	if err := page.Load(ctx); err != nil {
		observability.FromContext(ctx).Warn("campus map unavailable", zap.Error(err))
	}
	page.Restore(q)
	return page
}

func mapURL(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// stateWithout encodes the page state with the selection removed.
func stateWithout(page *campusmap.Page) url.Values {
	return campusmap.EncodeState(page.Filter(), "", page.LegendVisible())
}

func (s *server) detailURL(page *campusmap.Page) func(campusmap.LocationID) string {
	if s.static {
		return nil
	}
	q := stateWithout(page)
	return func(id campusmap.LocationID) string {
		return mapURL("/map/locations/"+url.PathEscape(string(id)), q)
	}
}

func (s *server) renderSurface(page *campusmap.Page, lazy bool) (template.HTML, error) {
	surface := campusmap.Surface{State: page.State(), DetailURL: s.detailURL(page)}
	switch {
	case surface.State == campusmap.StateReady && lazy:
		surface.State = campusmap.StateLoading
		surface.LoadURL = mapURL("/map/surface", stateWithout(page))
	case surface.State == campusmap.StateReady:
		surface.Scene = page.Scene(s.mapCfg, s.markers)
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, surface); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (s *server) buildMapView(page *campusmap.Page) (mapView, error) {
	filter := page.Filter()
	legend := page.LegendVisible()
	var selected campusmap.LocationID
	if loc, ok := page.Selected(); ok {
		selected = loc.ID
	}

	view := mapView{
		Search:        filter.Search,
		LegendVisible: legend,
		LegendURL:     mapURL("/map", campusmap.EncodeState(filter, selected, !legend)),
		Ready:         page.State() == campusmap.StateReady,
	}
	for _, key := range filter.Selection.Keys() {
		view.Hidden = append(view.Hidden, hiddenField{Name: campusmap.ParamCategory, Value: key})
	}
	if selected != "" {
		view.Hidden = append(view.Hidden, hiddenField{Name: campusmap.ParamLocation, Value: string(selected)})
	}
	if !legend {
		view.Hidden = append(view.Hidden, hiddenField{Name: campusmap.ParamLegend, Value: "0"})
	}

	// only the dismiss link clears the selection
	toggled := func(key string) string {
		next := filter
		next.Selection = filter.Selection.Toggle(key)
		return mapURL("/map", campusmap.EncodeState(next, selected, legend))
	}
	view.ShowAll = filterButton{Key: campusmap.AllKey, Label: "Show All", Href: toggled(campusmap.AllKey), Active: filter.Selection.IsAll()}
	for _, e := range page.Categories().Entries() {
		view.Filters = append(view.Filters, filterButton{
			Key:    e.Key,
			Label:  e.Name,
			Icon:   e.Icon,
			Color:  e.Color,
			Href:   toggled(e.Key),
			Active: filter.Selection.Contains(e.Key),
		})
		view.Legend = append(view.Legend, legendEntry{Key: e.Key, Name: e.Name, Icon: e.Icon, Color: e.Color, Description: e.Description})
	}

	if view.Ready {
		view.VisibleCount = len(page.Visible())
		view.TotalCount = len(page.Dataset().Locations)
	}
	if d, ok := page.Detail(); ok {
		view.Detail = &detailView{Detail: d, DismissURL: mapURL("/map", stateWithout(page))}
	}

	surface, err := s.renderSurface(page, !s.static)
	if err != nil {
		return mapView{}, err
	}
	view.Surface = surface
	return view, nil
}

func (s *server) mapPage(w http.ResponseWriter, r *http.Request) {
	page := s.loadPage(r.Context(), r.URL.Query())
	view, err := s.buildMapView(page)
	if err != nil {
		observability.FromContext(r.Context()).Error("render map surface", zap.Error(err))
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}

	meta := s.site.Page("Campus Organizing Map", "Explore sites of organizing history and current activist resources at UO", r.URL.Path)
	leaf := ""
	if view.Detail != nil {
		loc := view.Detail.Location
		leaf = loc.Name
		meta = meta.WithJSONLD(seo.Place(loc.Name, loc.Description, loc.Lat, loc.Lng))
	}
	data := s.pageData(r, meta, leaf, view)
	data.Map = true
	if custommw.HTMXInfoFromContext(r.Context()).Partial() {
		s.views.renderFragment(w, r, http.StatusOK, "map", "map-page", data)
		return
	}
	s.views.render(w, r, http.StatusOK, "map", data)
}

// mapSurface answers the lazy surface request made by the loading placeholder.
func (s *server) mapSurface(w http.ResponseWriter, r *http.Request) {
	page := s.loadPage(r.Context(), r.URL.Query())
	surface, err := s.renderSurface(page, false)
	if err != nil {
		observability.FromContext(r.Context()).Error("render map surface", zap.Error(err))
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(surface))
}

// mapLocation is the selection channel: htmx receives the detail panel, a plain
// request is redirected to the full page with the location selected.
func (s *server) mapLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set(campusmap.ParamLocation, chi.URLParam(r, "id"))
	page := s.loadPage(r.Context(), q)

	if !custommw.HTMXInfoFromContext(r.Context()).Partial() {
		http.Redirect(w, r, mapURL("/map", q), http.StatusSeeOther)
		return
	}
	if page.State() == campusmap.StateFailed {
		s.views.renderFragment(w, r, http.StatusOK, "map", "inline-error", "Failed to load map data")
		return
	}
	d, ok := page.Detail()
	if !ok {
		// htmx only swaps successful responses
		s.views.renderFragment(w, r, http.StatusOK, "map", "map-detail-missing", nil)
		return
	}
	w.Header().Set("HX-Push-Url", mapURL("/map", page.Query()))
	s.views.renderFragment(w, r, http.StatusOK, "map", "map-detail", detailView{Detail: d, DismissURL: mapURL("/map", stateWithout(page))})
}
