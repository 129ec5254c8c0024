// Package format holds display helpers shared by templates.
package format

import (
	"strings"
	"time"
)

// Date formats t in a short, human readable form.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// ISODate formats t for machine-readable attributes such as <time datetime>.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateOr formats t, or returns raw unchanged when t is zero. Dates that could not be
// parsed are shown as written.
func DateOr(t time.Time, raw string) string {
	if t.IsZero() {
		return strings.TrimSpace(raw)
	}
	return Date(t)
}
