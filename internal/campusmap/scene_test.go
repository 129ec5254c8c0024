package campusmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampViewKeepsTargetInsideBounds(t *testing.T) {
	t.Parallel()

	cfg := DefaultMapConfig()
	tests := []struct {
		name string
		in   ViewTarget
		want ViewTarget
	}{
		{
			name: "inside",
			in:   ViewTarget{Center: LatLng{Lat: 44.045, Lng: -123.072}, Zoom: 16},
			want: ViewTarget{Center: LatLng{Lat: 44.045, Lng: -123.072}, Zoom: 16},
		},
		{
			name: "north east of campus",
			in:   ViewTarget{Center: LatLng{Lat: 45, Lng: -120}, Zoom: 22},
			want: ViewTarget{Center: LatLng{Lat: 44.0520, Lng: -123.0650}, Zoom: 18},
		},
		{
			name: "unset zoom",
			in:   ViewTarget{Center: LatLng{Lat: 0, Lng: -130}},
			want: ViewTarget{Center: LatLng{Lat: 44.0390, Lng: -123.0850}, Zoom: 14},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := cfg.ClampView(tc.in)
			require.Equal(t, tc.want, got)
			require.True(t, cfg.Bounds.Contains(got.Center))
		})
	}
}

func TestClampViewWithoutBounds(t *testing.T) {
	t.Parallel()

	cfg := MapConfig{MinZoom: 3}
	got := cfg.ClampView(ViewTarget{Center: LatLng{Lat: 10, Lng: 20}, Zoom: 30})
	require.Equal(t, ViewTarget{Center: LatLng{Lat: 10, Lng: 20}, Zoom: 30}, got)
}

func TestBoundsCenter(t *testing.T) {
	t.Parallel()

	b := Bounds{SouthWest: LatLng{Lat: 0, Lng: 0}, NorthEast: LatLng{Lat: 2, Lng: 4}}
	require.Equal(t, LatLng{Lat: 1, Lng: 2}, b.Center())
	require.True(t, b.Valid())
	require.False(t, Bounds{}.Valid())
}

func TestBuildSceneOneMarkerPerVisibleLocation(t *testing.T) {
	t.Parallel()

	locs := scenarioLocations()
	scene := BuildScene(DefaultMapConfig(), ViewTarget{Center: LatLng{Lat: 44.045, Lng: -123.072}, Zoom: 15}, locs, scenarioTable(), nil)
	require.Len(t, scene.Markers, 2)
	require.Equal(t, LocationID("1"), scene.Markers[0].Location.ID)
	require.Equal(t, "custom-marker", scene.Markers[0].Style.ClassName)
	require.True(t, scene.Markers[1].Style.Default)
	require.Equal(t, "Library", scene.Markers[1].Popup.Title)

	empty := BuildScene(DefaultMapConfig(), ViewTarget{}, nil, scenarioTable(), nil)
	require.NotNil(t, empty.Markers)
	require.Empty(t, empty.Markers)
}

func TestBuildSceneCustomFactory(t *testing.T) {
	t.Parallel()

	var seen []string
	factory := func(key string, _ CategoryTable) MarkerStyle {
		seen = append(seen, key)
		return MarkerStyle{ClassName: "pin-" + key}
	}
	scene := BuildScene(MapConfig{}, ViewTarget{}, scenarioLocations(), scenarioTable(), factory)
	require.Equal(t, []string{"park", "lib"}, seen)
	require.Equal(t, "pin-lib", scene.Markers[1].Style.ClassName)
}

func TestSceneActivateNotifiesSelection(t *testing.T) {
	t.Parallel()

	scene := BuildScene(MapConfig{}, ViewTarget{}, scenarioLocations(), scenarioTable(), nil)

	var got []Location
	loc, ok := scene.Activate("2", func(l Location) { got = append(got, l) })
	require.True(t, ok)
	require.Equal(t, "Library", loc.Name)
	require.Len(t, got, 1)
	require.Equal(t, loc, got[0])

	_, ok = scene.Activate("404", func(l Location) { got = append(got, l) })
	require.False(t, ok)
	require.Len(t, got, 1)

	_, ok = scene.Activate("1", nil)
	require.True(t, ok)
}

type recordingSyncer struct {
	views []ViewTarget
}

func (r *recordingSyncer) SyncView(v ViewTarget) { r.views = append(r.views, v) }

func TestSceneSyncPushesClampedView(t *testing.T) {
	t.Parallel()

	scene := BuildScene(DefaultMapConfig(), ViewTarget{Center: LatLng{Lat: 50, Lng: -123.07}, Zoom: 10}, nil, CategoryTable{}, nil)
	rec := &recordingSyncer{}
	scene.Sync(rec)
	scene.Sync(nil)
	require.Equal(t, []ViewTarget{{Center: LatLng{Lat: 44.0520, Lng: -123.07}, Zoom: 14}}, rec.views)
}
