package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/campusmap"
	"github.com/roar-center/roar-web/internal/httpx"
	"github.com/roar-center/roar-web/internal/observability"
)

type mapResponse struct {
	MapCenter  campusmap.MapCenter     `json:"mapCenter"`
	Categories campusmap.CategoryTable `json:"categories"`
	Locations  []campusmap.Location    `json:"locations"`
	Config     campusmap.MapConfig     `json:"config"`
}

type locationsResponse struct {
	Categories []string             `json:"categories"`
	Search     string               `json:"search,omitempty"`
	Count      int                  `json:"count"`
	Locations  []campusmap.Location `json:"locations"`
}

// GeoJSON payloads for the visible locations. Coordinates are [lng, lat].
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   pointGeometry  `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (s *server) apiDataset(w http.ResponseWriter, r *http.Request) (campusmap.Dataset, bool) {
	ds, err := s.content.LoadDataset(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("campus dataset unavailable", zap.Error(err))
		httpx.WriteError(r.Context(), w, httpx.Unavailable("campus map data is unavailable"))
		return campusmap.Dataset{}, false
	}
	return ds, true
}

func (s *server) apiMap(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.apiDataset(w, r)
	if !ok {
		return
	}
	locations := ds.Locations
	if locations == nil {
		locations = []campusmap.Location{}
	}
	httpx.WriteJSON(w, http.StatusOK, mapResponse{
		MapCenter:  ds.MapCenter,
		Categories: ds.Categories,
		Locations:  locations,
		Config:     s.mapCfg,
	})
}

func visibleFromQuery(r *http.Request, ds campusmap.Dataset) (campusmap.FilterState, []campusmap.Location) {
	q := r.URL.Query()
	filter := campusmap.FilterState{
		Selection: campusmap.ParseSelection(q[campusmap.ParamCategory]),
		Search:    q.Get(campusmap.ParamSearch),
	}
	visible := filter.Apply(ds.Locations)
	if visible == nil {
		visible = []campusmap.Location{}
	}
	return filter, visible
}

func (s *server) apiLocations(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.apiDataset(w, r)
	if !ok {
		return
	}
	filter, visible := visibleFromQuery(r, ds)
	httpx.WriteJSON(w, http.StatusOK, locationsResponse{
		Categories: filter.Selection.Values(),
		Search:     filter.Search,
		Count:      len(visible),
		Locations:  visible,
	})
}

func (s *server) apiGeoJSON(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.apiDataset(w, r)
	if !ok {
		return
	}
	_, visible := visibleFromQuery(r, ds)
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(visible))}
	for _, loc := range visible {
		props := map[string]any{
			"name":         loc.Name,
			"category":     loc.Category,
			"description":  loc.Description,
			"organizeHere": loc.OrganizeHere,
		}
		style := campusmap.CategoryMarker(loc.Category, ds.Categories)
		if !style.Default {
			props["marker-color"] = style.Color
			props["marker-symbol"] = style.Glyph
		}
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			ID:         loc.ID.String(),
			Geometry:   pointGeometry{Type: "Point", Coordinates: [2]float64{loc.Lng, loc.Lat}},
			Properties: props,
		})
	}
	httpx.WriteJSONAs(w, http.StatusOK, "application/geo+json", fc)
}
