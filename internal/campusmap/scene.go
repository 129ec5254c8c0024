package campusmap

import "math"

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangle given by its south-west and north-east corners.
type Bounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// Contains reports whether p lies inside the rectangle (edges included).
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// Clamp moves p to the nearest point inside the rectangle.
func (b Bounds) Clamp(p LatLng) LatLng {
	return LatLng{
		Lat: math.Min(math.Max(p.Lat, b.SouthWest.Lat), b.NorthEast.Lat),
		Lng: math.Min(math.Max(p.Lng, b.SouthWest.Lng), b.NorthEast.Lng),
	}
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Valid reports whether the south-west corner lies south-west of the north-east one.
func (b Bounds) Valid() bool {
	return b.SouthWest.Lat < b.NorthEast.Lat && b.SouthWest.Lng < b.NorthEast.Lng
}

// ViewTarget is the requested center and zoom of the map surface.
type ViewTarget struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// MapConfig holds the hard display constraints of the surface.
type MapConfig struct {
	Bounds      Bounds `json:"bounds"`
	MinZoom     int    `json:"minZoom"`
	MaxZoom     int    `json:"maxZoom"`
	TileURL     string `json:"tileUrl"`
	Attribution string `json:"attribution"`
}

// Campus defaults for the University of Oregon map.
var (
	DefaultBounds = Bounds{
		SouthWest: LatLng{Lat: 44.0390, Lng: -123.0850},
		NorthEast: LatLng{Lat: 44.0520, Lng: -123.0650},
	}
	DefaultMinZoom     = 14
	DefaultMaxZoom     = 18
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
)

// DefaultMapConfig returns the campus constraints.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Bounds:      DefaultBounds,
		MinZoom:     DefaultMinZoom,
		MaxZoom:     DefaultMaxZoom,
		TileURL:     DefaultTileURL,
		Attribution: DefaultAttribution,
	}
}

// ClampView forces a target inside the bounds and zoom range. A zero zoom means "unset"
// and resolves to MinZoom.
func (c MapConfig) ClampView(v ViewTarget) ViewTarget {
	out := v
	if c.Bounds.Valid() {
		out.Center = c.Bounds.Clamp(v.Center)
	}
	if out.Zoom < c.MinZoom {
		out.Zoom = c.MinZoom
	}
	if c.MaxZoom > 0 && out.Zoom > c.MaxZoom {
		out.Zoom = c.MaxZoom
	}
	return out
}

// Marker is one drawable location.
type Marker struct {
	Location Location
	Style    MarkerStyle
	Popup    Popup
}

// Scene is everything a surface needs to draw one frame.
type Scene struct {
	Config  MapConfig
	View    ViewTarget
	Markers []Marker
}

// BuildScene draws one marker per visible location, in order.
func BuildScene(cfg MapConfig, view ViewTarget, visible []Location, table CategoryTable, markers MarkerFactory) Scene {
	if markers == nil {
		markers = CategoryMarker
	}
	scene := Scene{
		Config:  cfg,
		View:    cfg.ClampView(view),
		Markers: make([]Marker, 0, len(visible)),
	}
	for _, loc := range visible {
		scene.Markers = append(scene.Markers, Marker{
			Location: loc,
			Style:    markers(loc.Category, table),
			Popup:    PopupFor(loc, table),
		})
	}
	return scene
}

// SelectFunc receives the location whose marker was activated.
type SelectFunc func(Location)

// Activate looks up the marker for id and notifies onSelect. The scene is not modified.
func (s Scene) Activate(id LocationID, onSelect SelectFunc) (Location, bool) {
	for _, m := range s.Markers {
		if m.Location.ID == id {
			if onSelect != nil {
				onSelect(m.Location)
			}
			return m.Location, true
		}
	}
	return Location{}, false
}

// ViewSyncer is implemented by imperative surfaces that keep their own view state.
type ViewSyncer interface {
	SyncView(ViewTarget)
}

// Sync pushes the scene's view into an imperative surface.
func (s Scene) Sync(v ViewSyncer) {
	if v == nil {
		return
	}
	v.SyncView(s.View)
}
