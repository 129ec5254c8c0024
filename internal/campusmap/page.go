package campusmap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// ErrDatasetUnavailable wraps failures to load the campus dataset.
var ErrDatasetUnavailable = errors.New("campusmap: dataset unavailable")

// Query parameter names shared by the map page and its fragments.
const (
	ParamCategory = "cat"
	ParamSearch   = "q"
	ParamLocation = "loc"
	ParamLegend   = "legend"
)

// DatasetLoader supplies the campus dataset.
type DatasetLoader interface {
	LoadDataset(ctx context.Context) (Dataset, error)
}

// DatasetLoaderFunc adapts a function to DatasetLoader.
type DatasetLoaderFunc func(ctx context.Context) (Dataset, error)

// LoadDataset calls f.
func (f DatasetLoaderFunc) LoadDataset(ctx context.Context) (Dataset, error) { return f(ctx) }

// SurfaceState distinguishes loading, failure and ready surfaces.
type SurfaceState int

const (
	StateLoading SurfaceState = iota
	StateFailed
	StateReady
)

func (s SurfaceState) String() string {
	switch s {
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "loading"
	}
}

// Page owns the map page state: filter, selection and legend visibility.
// A Page is used by one request at a time.
type Page struct {
	loader DatasetLoader

	once    sync.Once
	done    bool
	dataset Dataset
	err     error

	filter   FilterState
	selected *Location
	hideLeg  bool
}

// NewPage returns a page showing every category, no search, the legend visible and
// nothing selected.
func NewPage(loader DatasetLoader) *Page {
	return &Page{loader: loader}
}

// Load fetches the dataset on the first call; later calls return the first result.
func (p *Page) Load(ctx context.Context) error {
	p.once.Do(func() {
		defer func() { p.done = true }()
		if p.loader == nil {
			p.err = fmt.Errorf("%w: no loader configured", ErrDatasetUnavailable)
			return
		}
		ds, err := p.loader.LoadDataset(ctx)
		if err != nil {
			p.err = fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
			return
		}
		p.dataset = ds
	})
	return p.err
}

// State reports the surface state.
func (p *Page) State() SurfaceState {
	switch {
	case !p.done:
		return StateLoading
	case p.err != nil:
		return StateFailed
	default:
		return StateReady
	}
}

// Err returns the load error, if any.
func (p *Page) Err() error { return p.err }

// Dataset returns the loaded dataset (zero before a successful Load).
func (p *Page) Dataset() Dataset { return p.dataset }

// Categories returns the loaded category table.
func (p *Page) Categories() CategoryTable { return p.dataset.Categories }

// Filter returns the current filter state.
func (p *Page) Filter() FilterState { return p.filter }

// SetSelection replaces the category selection.
func (p *Page) SetSelection(sel Selection) { p.filter.Selection = sel }

// Toggle applies the category toggle state machine.
func (p *Page) Toggle(category string) {
	p.filter.Selection = p.filter.Selection.Toggle(category)
}

// SetSearch updates the free-text search term.
func (p *Page) SetSearch(term string) { p.filter.Search = term }

// Select marks loc as the selected location. It satisfies SelectFunc.
func (p *Page) Select(loc Location) {
	l := loc
	p.selected = &l
}

// SelectByID activates the marker for id within the visible scene.
func (p *Page) SelectByID(id LocationID) bool {
	scene := BuildScene(MapConfig{}, ViewTarget{}, p.Visible(), p.dataset.Categories, nil)
	_, ok := scene.Activate(id, p.Select)
	return ok
}

// Dismiss clears the selection.
func (p *Page) Dismiss() { p.selected = nil }

// Selected returns the selected location.
func (p *Page) Selected() (Location, bool) {
	if p.selected == nil {
		return Location{}, false
	}
	return *p.selected, true
}

// Detail returns the detail panel for the selected location.
func (p *Page) Detail() (Detail, bool) {
	loc, ok := p.Selected()
	if !ok {
		return Detail{}, false
	}
	return DetailFor(loc, p.dataset.Categories), true
}

// LegendVisible reports whether the legend is shown.
func (p *Page) LegendVisible() bool { return !p.hideLeg }

// ToggleLegend flips legend visibility. It does not affect filtering.
func (p *Page) ToggleLegend() { p.hideLeg = !p.hideLeg }

// SetLegendVisible sets legend visibility.
func (p *Page) SetLegendVisible(v bool) { p.hideLeg = !v }

// Visible derives the visible locations from the current filter.
func (p *Page) Visible() []Location {
	return p.filter.Apply(p.dataset.Locations)
}

// Scene builds the surface scene centred on the dataset's map center.
func (p *Page) Scene(cfg MapConfig, markers MarkerFactory) Scene {
	return BuildScene(cfg, p.dataset.MapCenter.Target(), p.Visible(), p.dataset.Categories, markers)
}

// Restore applies filter, selection and legend state from query values.
// The selection is resolved against the whole dataset: a location hidden by the
// filter stays selected, and only unknown ids leave nothing selected.
func (p *Page) Restore(q url.Values) {
	p.filter = FilterState{
		Selection: ParseSelection(q[ParamCategory]),
		Search:    q.Get(ParamSearch),
	}
	p.SetLegendVisible(q.Get(ParamLegend) != "0")
	p.selected = nil
	if id := strings.TrimSpace(q.Get(ParamLocation)); id != "" {
		if loc, ok := p.dataset.Find(LocationID(id)); ok {
			p.Select(loc)
		}
	}
}

// Query encodes the page state.
func (p *Page) Query() url.Values {
	var id LocationID
	if loc, ok := p.Selected(); ok {
		id = loc.ID
	}
	return EncodeState(p.filter, id, p.LegendVisible())
}

// EncodeState builds the query string for a page state. Defaults are omitted.
func EncodeState(filter FilterState, selected LocationID, legend bool) url.Values {
	q := url.Values{}
	filter.Selection.Encode(q, ParamCategory)
	if s := strings.TrimSpace(filter.Search); s != "" {
		q.Set(ParamSearch, filter.Search)
	}
	if selected != "" {
		q.Set(ParamLocation, string(selected))
	}
	if !legend {
		q.Set(ParamLegend, "0")
	}
	return q
}
