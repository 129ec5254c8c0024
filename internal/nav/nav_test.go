package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActiveSection(t *testing.T) {
	t.Parallel()

	active := func(items []RenderedItem) []string {
		var out []string
		for _, it := range items {
			if it.Active {
				out = append(out, it.Href)
			}
		}
		return out
	}

	require.Equal(t, []string{"/"}, active(Build("")))
	require.Equal(t, []string{"/guides"}, active(Build("/guides/direct-action")))
	require.Equal(t, []string{"/map"}, active(Build("/map")))
	require.Empty(t, active(Build("/mapping")))
	require.Len(t, Build("/"), len(Main))
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, Breadcrumbs("/", ""))

	crumbs := Breadcrumbs("/guides/event-planning", "")
	require.Equal(t, []Crumb{
		{Href: "/", Label: "Home"},
		{Href: "/guides", Label: "Guides"},
		{Href: "/guides/event-planning", Label: "Event planning", Active: true},
	}, crumbs)

	crumbs = Breadcrumbs("/guides/event-planning/", "Event Planning 101")
	require.Equal(t, "Event Planning 101", crumbs[2].Label)
	require.Equal(t, "/guides/event-planning", crumbs[2].Href)
}
