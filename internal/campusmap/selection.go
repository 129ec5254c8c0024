package campusmap

import (
	"net/url"
	"strings"
)

// AllKey is the wire-level sentinel meaning "no category restriction".
const AllKey = "all"

// Selection is either every category or a non-empty ordered set of concrete keys.
// The zero value selects every category.
type Selection struct {
	keys []string
}

// AllCategories selects every category.
func AllCategories() Selection { return Selection{} }

// SpecificCategories selects the given keys. Blank keys, duplicates and the "all"
// sentinel are dropped; an empty result selects every category.
func SpecificCategories(keys ...string) Selection {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || k == AllKey {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	if len(out) == 0 {
		return AllCategories()
	}
	return Selection{keys: out}
}

// ParseSelection decodes query values. Any occurrence of "all" wins.
func ParseSelection(values []string) Selection {
	for _, v := range values {
		if strings.TrimSpace(v) == AllKey {
			return AllCategories()
		}
	}
	return SpecificCategories(values...)
}

// IsAll reports whether the selection imposes no category restriction.
func (s Selection) IsAll() bool { return len(s.keys) == 0 }

// Keys returns the concrete keys in selection order; nil for AllCategories.
func (s Selection) Keys() []string {
	if s.IsAll() {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Contains reports whether key is active. Contains(AllKey) is true only for AllCategories.
func (s Selection) Contains(key string) bool {
	if key == AllKey {
		return s.IsAll()
	}
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Toggle returns the selection after the user presses the button for category.
func (s Selection) Toggle(category string) Selection {
	category = strings.TrimSpace(category)
	if category == AllKey || category == "" {
		return AllCategories()
	}
	if s.Contains(category) {
		rest := make([]string, 0, len(s.keys))
		for _, k := range s.keys {
			if k != category {
				rest = append(rest, k)
			}
		}
		return SpecificCategories(rest...)
	}
	next := make([]string, 0, len(s.keys)+1)
	next = append(next, s.keys...)
	next = append(next, category)
	return Selection{keys: next}
}

// Equal compares two selections including key order.
func (s Selection) Equal(o Selection) bool {
	if len(s.keys) != len(o.keys) {
		return false
	}
	for i := range s.keys {
		if s.keys[i] != o.keys[i] {
			return false
		}
	}
	return true
}

// Values encodes the selection for a query string.
func (s Selection) Values() []string {
	if s.IsAll() {
		return []string{AllKey}
	}
	return s.Keys()
}

// Encode writes the selection under param into q. AllCategories is left implicit.
func (s Selection) Encode(q url.Values, param string) {
	q.Del(param)
	for _, k := range s.keys {
		q.Add(param, k)
	}
}

func (s Selection) String() string {
	return strings.Join(s.Values(), ",")
}
