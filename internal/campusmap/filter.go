package campusmap

import "strings"

// FilterState is the user-controlled input of the filter engine.
type FilterState struct {
	Selection Selection
	Search    string
}

// Apply runs VisibleLocations with this state.
func (f FilterState) Apply(all []Location) []Location {
	return VisibleLocations(all, f.Selection, f.Search)
}

// VisibleLocations derives the visible subset of all, preserving input order.
// Both stages must pass: category membership (skipped for AllCategories) and a
// case-insensitive substring search over name, description, history and current use
// (skipped when search is blank).
func VisibleLocations(all []Location, sel Selection, search string) []Location {
	return visible(all, sel.IsAll(), sel.Contains, search)
}

// VisibleLocationsByKeys is VisibleLocations over a raw key list using the "all" sentinel.
// An empty list without the sentinel matches nothing.
func VisibleLocationsByKeys(all []Location, keys []string, search string) []Location {
	set := make(map[string]struct{}, len(keys))
	unrestricted := false
	for _, k := range keys {
		if k == AllKey {
			unrestricted = true
		}
		set[k] = struct{}{}
	}
	return visible(all, unrestricted, func(category string) bool {
		_, ok := set[category]
		return ok
	}, search)
}

func visible(all []Location, unrestricted bool, member func(string) bool, search string) []Location {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Location, 0, len(all))
	for _, loc := range all {
		if !unrestricted && !member(loc.Category) {
			continue
		}
		if term != "" && !matchesSearch(loc, term) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

func matchesSearch(loc Location, term string) bool {
	fields := [...]string{loc.Name, loc.Description, loc.History, loc.CurrentUse}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
