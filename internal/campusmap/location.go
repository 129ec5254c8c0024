package campusmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LocationID identifies a location. The dataset may encode ids as JSON numbers or strings.
type LocationID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *LocationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LocationID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("campusmap: location id must be a string or number: %w", err)
	}
	*id = LocationID(n.String())
	return nil
}

// MarshalJSON emits ids in canonical integer form as numbers so the dataset round-trips
// unchanged. Everything else, including "007" and "+1", stays a string.
func (id LocationID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id LocationID) String() string { return string(id) }

// Location is a point of interest on the campus map.
type Location struct {
	ID           LocationID `json:"id"`
	Name         string     `json:"name"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	History      string     `json:"history,omitempty"`
	CurrentUse   string     `json:"currentUse,omitempty"`
	Tips         string     `json:"tips,omitempty"`
	Permits      string     `json:"permits,omitempty"`
	OrganizeHere bool       `json:"organizeHere"`
}

// Position returns the location coordinates.
func (l Location) Position() LatLng {
	return LatLng{Lat: l.Lat, Lng: l.Lng}
}

// Category is a classification bucket carrying display styling.
type Category struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// CategoryEntry pairs a category with its key.
type CategoryEntry struct {
	Key string
	Category
}

// CategoryTable maps category keys to categories. Lookups are order independent;
// iteration follows the order of the source document.
type CategoryTable struct {
	keys  []string
	items map[string]Category
}

// NewCategoryTable builds a table from entries, keeping the first occurrence of duplicate keys.
func NewCategoryTable(entries ...CategoryEntry) CategoryTable {
	t := CategoryTable{items: make(map[string]Category, len(entries))}
	for _, e := range entries {
		t.set(e.Key, e.Category)
	}
	return t
}

func (t *CategoryTable) set(key string, c Category) {
	if t.items == nil {
		t.items = map[string]Category{}
	}
	if _, exists := t.items[key]; exists {
		return
	}
	t.keys = append(t.keys, key)
	t.items[key] = c
}

// Lookup returns the category stored under key.
func (t CategoryTable) Lookup(key string) (Category, bool) {
	c, ok := t.items[key]
	return c, ok
}

// Has reports whether key is present.
func (t CategoryTable) Has(key string) bool {
	_, ok := t.items[key]
	return ok
}

// Len returns the number of categories.
func (t CategoryTable) Len() int { return len(t.keys) }

// Keys returns the category keys in document order.
func (t CategoryTable) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Entries returns key/category pairs in document order.
func (t CategoryTable) Entries() []CategoryEntry {
	out := make([]CategoryEntry, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, CategoryEntry{Key: k, Category: t.items[k]})
	}
	return out
}

// UnmarshalJSON decodes a JSON object while remembering key order.
func (t *CategoryTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = CategoryTable{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("campusmap: categories must be a JSON object")
	}
	out := CategoryTable{items: map[string]Category{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("campusmap: invalid category key")
		}
		var c Category
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("campusmap: category %q: %w", key, err)
		}
		out.set(key, c)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// MarshalJSON encodes the table as a JSON object in document order.
func (t CategoryTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(t.items[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MapCenter is the default view stored alongside the dataset.
type MapCenter struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// Target converts the center into a view target.
func (c MapCenter) Target() ViewTarget {
	return ViewTarget{Center: LatLng{Lat: c.Lat, Lng: c.Lng}, Zoom: c.Zoom}
}

// Dataset is the campus map document served by the content store.
type Dataset struct {
	MapCenter  MapCenter     `json:"mapCenter"`
	Categories CategoryTable `json:"categories"`
	Locations  []Location    `json:"locations"`
}

// DecodeDataset parses the campus map JSON document.
func DecodeDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("campusmap: decode dataset: %w", err)
	}
	if ds.Locations == nil {
		ds.Locations = []Location{}
	}
	return ds, nil
}

// Find returns the location with the given id.
func (d Dataset) Find(id LocationID) (Location, bool) {
	for _, loc := range d.Locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return Location{}, false
}
