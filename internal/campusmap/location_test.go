package campusmap

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const datasetJSON = `{
  "mapCenter": {"lat": 44.0448, "lng": -123.0726, "zoom": 16},
  "categories": {
    "historic": {"name": "Historic Sites", "color": "#8B4513", "icon": "🏛️", "description": "Sites of past actions"},
    "gathering": {"name": "Gathering Spaces", "color": "#228B22", "icon": "👥", "description": "Good for rallies"},
    "admin": {"name": "Administration", "color": "#4169E1", "icon": "🏢", "description": "Decision makers"}
  },
  "locations": [
    {"id": 1, "name": "Johnson Hall", "lat": 44.0451, "lng": -123.0752, "category": "admin", "description": "Admin building", "organizeHere": true},
    {"id": "emu-amp", "name": "EMU Amphitheater", "lat": 44.0447, "lng": -123.0737, "category": "gathering", "description": "Stage", "tips": "Bring a mic", "organizeHere": true}
  ]
}`

func TestDecodeDataset(t *testing.T) {
	t.Parallel()

	ds, err := DecodeDataset([]byte(datasetJSON))
	require.NoError(t, err)
	require.Equal(t, MapCenter{Lat: 44.0448, Lng: -123.0726, Zoom: 16}, ds.MapCenter)
	require.Equal(t, []string{"historic", "gathering", "admin"}, ds.Categories.Keys())
	require.Equal(t, 3, ds.Categories.Len())

	cat, ok := ds.Categories.Lookup("gathering")
	require.True(t, ok)
	require.Equal(t, "Gathering Spaces", cat.Name)
	require.False(t, ds.Categories.Has("park"))

	require.Len(t, ds.Locations, 2)
	require.Equal(t, LocationID("1"), ds.Locations[0].ID)
	require.Equal(t, LocationID("emu-amp"), ds.Locations[1].ID)

	loc, ok := ds.Find("emu-amp")
	require.True(t, ok)
	require.Equal(t, "Bring a mic", loc.Tips)
	require.Equal(t, LatLng{Lat: 44.0447, Lng: -123.0737}, loc.Position())
	_, ok = ds.Find("2")
	require.False(t, ok)
}

func TestDecodeDatasetEmptyLocations(t *testing.T) {
	t.Parallel()

	ds, err := DecodeDataset([]byte(`{"mapCenter": {"lat": 1, "lng": 2, "zoom": 3}, "categories": {}}`))
	require.NoError(t, err)
	require.NotNil(t, ds.Locations)
	require.Empty(t, ds.Locations)
	require.Empty(t, ds.Categories.Keys())
}

func TestDecodeDatasetRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	_, err := DecodeDataset([]byte(`{"locations": [`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "campusmap: decode dataset")

	_, err = DecodeDataset([]byte(`{"categories": ["park"]}`))
	require.Error(t, err)

	_, err = DecodeDataset([]byte(`{"locations": [{"id": true}]}`))
	require.Error(t, err)
}

func TestLocationIDRoundTrip(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal([]LocationID{"12", "quad", "-4", "007", "+1", "1.5", " 3"})
	require.NoError(t, err)
	require.JSONEq(t, `[12, "quad", -4, "007", "+1", "1.5", " 3"]`, string(b))

	ds, err := DecodeDataset([]byte(`{"locations": [{"id": "007", "name": "Bond Hall", "lat": 44.04, "lng": -123.07, "category": "admin"}, {"id": 8, "name": "Deady Hall", "lat": 44.04, "lng": -123.07, "category": "admin"}]}`))
	require.NoError(t, err)
	require.Equal(t, LocationID("007"), ds.Locations[0].ID)

	b, err = json.Marshal(ds.Locations)
	require.NoError(t, err)
	var back []Location
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, ds.Locations, back)
	require.Contains(t, string(b), `"id":"007"`)
	require.Contains(t, string(b), `"id":8`)
}

func TestRenderSurvivesPaddedIDs(t *testing.T) {
	t.Parallel()

	ds, err := DecodeDataset([]byte(`{"locations": [{"id": "007", "name": "Bond Hall", "lat": 44.0448, "lng": -123.0726, "category": "admin"}]}`))
	require.NoError(t, err)
	scene := BuildScene(DefaultMapConfig(), ds.MapCenter.Target(), ds.Locations, ds.Categories, nil)

	var buf bytes.Buffer
	require.NoError(t, NewLeafletRenderer().Render(&buf, Surface{State: StateReady, Scene: scene}))
	require.Contains(t, buf.String(), "Bond Hall")
}

func TestCategoryTableMarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	table := NewCategoryTable(
		CategoryEntry{Key: "zeta", Category: Category{Name: "Z"}},
		CategoryEntry{Key: "alpha", Category: Category{Name: "A"}},
		CategoryEntry{Key: "zeta", Category: Category{Name: "ignored"}},
	)
	require.Equal(t, []string{"zeta", "alpha"}, table.Keys())

	b, err := json.Marshal(table)
	require.NoError(t, err)
	require.Equal(t, `{"zeta":{"name":"Z","color":"","icon":"","description":""},"alpha":{"name":"A","color":"","icon":"","description":""}}`, string(b))

	var back CategoryTable
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, table.Entries(), back.Entries())
}
