package campusmap

// MarkerStyle describes how a marker is drawn, independent of the map library.
type MarkerStyle struct {
	// Default means the library's stock marker; the remaining fields are empty.
	Default     bool
	ClassName   string
	Color       string
	Glyph       string
	Size        [2]int
	Anchor      [2]int
	PopupAnchor [2]int
}

// MarkerFactory derives a marker style from a category key.
type MarkerFactory func(categoryKey string, table CategoryTable) MarkerStyle

// DefaultMarker is the undecorated fallback marker.
func DefaultMarker() MarkerStyle {
	return MarkerStyle{Default: true}
}

// CategoryMarker draws a colored pin with the category glyph.
func CategoryMarker(categoryKey string, table CategoryTable) MarkerStyle {
	cat, ok := table.Lookup(categoryKey)
	if !ok {
		return DefaultMarker()
	}
	return MarkerStyle{
		ClassName:   "custom-marker",
		Color:       cat.Color,
		Glyph:       cat.Icon,
		Size:        [2]int{30, 30},
		Anchor:      [2]int{15, 30},
		PopupAnchor: [2]int{0, -30},
	}
}

// Badge is the category label shown in popups and detail panels.
// A zero Badge renders undecorated.
type Badge struct {
	Color string
	Glyph string
	Name  string
}

// BadgeFor builds the badge for a category key; unknown keys yield an empty badge.
func BadgeFor(categoryKey string, table CategoryTable) Badge {
	cat, ok := table.Lookup(categoryKey)
	if !ok {
		return Badge{}
	}
	return Badge{Color: cat.Color, Glyph: cat.Icon, Name: cat.Name}
}

// Section is an optional titled block of location detail.
type Section struct {
	Key   string
	Title string
	Body  string
}

// Popup is the content displayed when a marker is activated.
type Popup struct {
	Title        string
	Badge        Badge
	Description  string
	Sections     []Section
	OrganizeHere bool
}

// PopupFor builds popup content; optional sections appear only when non-empty.
func PopupFor(loc Location, table CategoryTable) Popup {
	return Popup{
		Title:       loc.Name,
		Badge:       BadgeFor(loc.Category, table),
		Description: loc.Description,
		Sections: optionalSections(loc, map[string]string{
			"history":    "Historical Significance",
			"currentUse": "Current Use",
			"tips":       "Organizing Tips",
			"permits":    "Permits Required",
		}),
		OrganizeHere: loc.OrganizeHere,
	}
}

// Detail is the page-level panel for the selected location. It mirrors the popup
// with longer section headings.
type Detail struct {
	Location Location
	Badge    Badge
	Sections []Section
}

// DetailFor builds the detail panel content.
func DetailFor(loc Location, table CategoryTable) Detail {
	sections := []Section{{Key: "description", Title: "Description", Body: loc.Description}}
	sections = append(sections, optionalSections(loc, map[string]string{
		"history":    "Historical Significance",
		"currentUse": "Current Use for Organizing",
		"tips":       "Organizing Tips",
		"permits":    "Permits & Logistics",
	})...)
	return Detail{
		Location: loc,
		Badge:    BadgeFor(loc.Category, table),
		Sections: sections,
	}
}

func optionalSections(loc Location, titles map[string]string) []Section {
	fields := []struct {
		key  string
		body string
	}{
		{"history", loc.History},
		{"currentUse", loc.CurrentUse},
		{"tips", loc.Tips},
		{"permits", loc.Permits},
	}
	out := make([]Section, 0, len(fields))
	for _, f := range fields {
		if f.body == "" {
			continue
		}
		out = append(out, Section{Key: f.key, Title: titles[f.key], Body: f.body})
	}
	return out
}
