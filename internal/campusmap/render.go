package campusmap

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// Surface is the renderer input: the scene plus the surface state.
type Surface struct {
	State SurfaceState
	Scene Scene
	// LoadURL is requested by the loading placeholder to fetch the ready surface.
	LoadURL string
	// DetailURL links a marker to the detail panel; nil disables the selection channel.
	DetailURL func(LocationID) string
}

// Renderer draws a surface. Implementations bind a concrete map library.
type Renderer interface {
	Render(w io.Writer, s Surface) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, s Surface) error

// Render calls f.
func (f RendererFunc) Render(w io.Writer, s Surface) error { return f(w, s) }

type leafletMarker struct {
	ID        LocationID `json:"id"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Default   bool       `json:"default"`
	ClassName string     `json:"className,omitempty"`
	Color     string     `json:"color,omitempty"`
	Glyph     string     `json:"glyph,omitempty"`
	Size      [2]int     `json:"iconSize"`
	Anchor    [2]int     `json:"iconAnchor"`
	Popup     [2]int     `json:"popupAnchor"`
	DetailURL string     `json:"detailUrl,omitempty"`
}

type leafletData struct {
	State       string
	LoadURL     string
	ConfigJSON  string
	ViewJSON    string
	MarkersJSON string
	Markers     []leafletMarkerView
	Empty       bool
}

type leafletMarkerView struct {
	ID        LocationID
	Popup     Popup
	DetailURL string
}

// LeafletRenderer renders surfaces for the Leaflet browser hook in assets/js/map.js.
type LeafletRenderer struct {
	tmpl *template.Template
}

// NewLeafletRenderer parses the surface template.
func NewLeafletRenderer() *LeafletRenderer {
	return &LeafletRenderer{tmpl: template.Must(template.New("surface").Parse(leafletTemplate))}
}

// Render writes the surface markup.
func (r *LeafletRenderer) Render(w io.Writer, s Surface) error {
	data := leafletData{State: s.State.String(), LoadURL: s.LoadURL}
	if s.State == StateReady {
		markers := make([]leafletMarker, 0, len(s.Scene.Markers))
		views := make([]leafletMarkerView, 0, len(s.Scene.Markers))
		for _, m := range s.Scene.Markers {
			var detail string
			if s.DetailURL != nil {
				detail = s.DetailURL(m.Location.ID)
			}
			markers = append(markers, leafletMarker{
				ID:        m.Location.ID,
				Lat:       m.Location.Lat,
				Lng:       m.Location.Lng,
				Default:   m.Style.Default,
				ClassName: m.Style.ClassName,
				Color:     m.Style.Color,
				Glyph:     m.Style.Glyph,
				Size:      m.Style.Size,
				Anchor:    m.Style.Anchor,
				Popup:     m.Style.PopupAnchor,
				DetailURL: detail,
			})
			views = append(views, leafletMarkerView{ID: m.Location.ID, Popup: m.Popup, DetailURL: detail})
		}
		var err error
		if data.ConfigJSON, err = marshalString(s.Scene.Config); err != nil {
			return err
		}
		if data.ViewJSON, err = marshalString(s.Scene.View); err != nil {
			return err
		}
		if data.MarkersJSON, err = marshalString(markers); err != nil {
			return err
		}
		data.Markers = views
		data.Empty = len(views) == 0
	}
	return r.tmpl.Execute(w, data)
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("campusmap: encode surface: %w", err)
	}
	return string(b), nil
}

const leafletTemplate = `{{- if eq .State "loading" -}}
<div id="map-surface" class="map-loading" aria-busy="true"{{if .LoadURL}} hx-get="{{.LoadURL}}" hx-trigger="load" hx-swap="outerHTML"{{end}}>Loading campus map...</div>
{{- else if eq .State "failed" -}}
<div id="map-surface" class="map-error" role="alert">Failed to load map data</div>
{{- else -}}
<div id="map-surface" class="campus-map-container" data-state="ready">
  <div class="campus-map" style="height: 600px; width: 100%" data-map-config="{{.ConfigJSON}}" data-view="{{.ViewJSON}}" data-markers="{{.MarkersJSON}}"></div>
  {{- if .Empty}}
  <p class="map-no-results">No locations match your filters.</p>
  {{- end}}
  <ul class="map-results">
  {{- range .Markers}}
    <li class="map-result" data-location-id="{{.ID}}">
      <template class="location-popup" data-popup-for="{{.ID}}">
        <div class="popup-content">
          <h3 class="popup-title">{{.Popup.Title}}</h3>
          <div class="popup-category">
            <span class="category-badge"{{with .Popup.Badge.Color}} style="background-color: {{.}}"{{end}}>{{.Popup.Badge.Glyph}} {{.Popup.Badge.Name}}</span>
          </div>
          <p class="popup-description">{{.Popup.Description}}</p>
          {{- range .Popup.Sections}}
          <div class="popup-section" data-section="{{.Key}}">
            <h4>{{.Title}}</h4>
            <p>{{.Body}}</p>
          </div>
          {{- end}}
          <div class="popup-footer">
            {{- if .Popup.OrganizeHere}}
            <span class="can-organize">✅ Good for organizing</span>
            {{- else}}
            <span class="no-organize">❌ Not for organizing</span>
            {{- end}}
          </div>
        </div>
      </template>
      {{- if .DetailURL}}
      <a href="{{.DetailURL}}" hx-get="{{.DetailURL}}" hx-target="#location-detail" hx-swap="innerHTML">{{.Popup.Title}}</a>
      {{- else}}
      <span>{{.Popup.Title}}</span>
      {{- end}}
    </li>
  {{- end}}
  </ul>
</div>
{{- end}}`
