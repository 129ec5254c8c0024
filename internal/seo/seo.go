package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

type Twitter struct {
	Card string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []string
}

// Site holds the site-wide values every page inherits.
type Site struct {
	Title   string
	Tagline string
	BaseURL string
}

// Page builds metadata for a page at path. An empty title yields the site title.
func (s Site) Page(title, description, path string) Meta {
	full := s.Title
	if title != "" && title != s.Title {
		full = title + " | " + s.Title
	}
	if description == "" {
		description = s.Tagline
	}
	canonical := s.URL(path)
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Type:        "website",
			URL:         canonical,
			SiteName:    s.Title,
		},
		Twitter: Twitter{Card: "summary"},
	}
}

// URL resolves path against the site base URL.
func (s Site) URL(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// WithJSONLD appends encoded schema.org payloads; payloads that fail to encode are skipped.
func (m Meta) WithJSONLD(payloads ...map[string]any) Meta {
	for _, p := range payloads {
		if s := JSON(p); s != "" {
			m.JSONLD = append(m.JSONLD, s)
		}
	}
	return m
}

// Article marks the page as an article for Open Graph.
func (m Meta) Article() Meta {
	m.OG.Type = "article"
	return m
}
