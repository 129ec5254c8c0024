package content

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Content tree layout.
const (
	HomePath          = "data/home-content.md"
	DatasetPath       = "data/campus-locations.json"
	HistoryPath       = "content/history/timeline.md"
	OrganizationsPath = "content/organizations/current-orgs.md"
	ResourcesPath     = "content/resources.yaml"
	GuidesDir         = "content/guides"
	GuideManifestPath = "content/guides/index.yaml"
)

const homeFallbackHTML = `<h1>ROAR Center</h1><p>Welcome to the Radical Organizing and Activist Resource Center</p>`

// Home returns the landing page. When the document cannot be loaded a built-in
// welcome text is returned and fallback is true.
func (l *Loader) Home(ctx context.Context) (doc Document, fallback bool) {
	doc, err := l.Markdown(ctx, HomePath)
	if err != nil {
		return Document{Slug: "home-content", Meta: Frontmatter{}, HTML: template.HTML(homeFallbackHTML)}, true
	}
	return doc, false
}

// History loads the organizing history timeline.
func (l *Loader) History(ctx context.Context) (Document, error) {
	return l.Markdown(ctx, HistoryPath)
}

// Organizations loads the partner organization listing.
func (l *Loader) Organizations(ctx context.Context) (Document, error) {
	return l.Markdown(ctx, OrganizationsPath)
}

// ResourceLink is one external link on the resources page.
type ResourceLink struct {
	Title       string `yaml:"title" json:"title"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// ResourceSection groups related links.
type ResourceSection struct {
	Title string         `yaml:"title" json:"title"`
	Links []ResourceLink `yaml:"links" json:"links"`
}

// Resources is the resources page content.
type Resources struct {
	Title    string            `yaml:"title" json:"title"`
	Intro    string            `yaml:"intro" json:"intro"`
	Sections []ResourceSection `yaml:"sections" json:"sections"`
}

// DefaultResources is the built-in link list used when no resources file is published.
func DefaultResources() Resources {
	return Resources{
		Title: "External Resources",
		Intro: "Helpful links and tools for organizers",
		Sections: []ResourceSection{
			{
				Title: "Organizing Resources",
				Links: []ResourceLink{
					{Title: "Community Tool Box", URL: "https://ctb.ku.edu/en", Description: "Comprehensive organizing guide"},
					{Title: "Training for Change", URL: "https://www.trainingforchange.org/", Description: "Workshops and resources"},
					{Title: "Beautiful Trouble", URL: "https://beautifultrouble.org/", Description: "Creative activism tactics"},
				},
			},
			{
				Title: "Legal Resources",
				Links: []ResourceLink{
					{Title: "National Lawyers Guild", URL: "https://www.nlg.org/", Description: "Legal support for activists"},
					{Title: "ACLU Oregon", URL: "https://www.aclu-or.org/", Description: "Know your rights"},
				},
			},
			{
				Title: "Campus Resources",
				Links: []ResourceLink{
					{Title: "Student Life", URL: "https://studentlife.uoregon.edu/", Description: "UO student organizations"},
					{Title: "EMU", URL: "https://emu.uoregon.edu/", Description: "Event spaces and services"},
				},
			},
		},
	}
}

// Resources loads the resources page. A missing or unreadable file yields the
// built-in link list.
func (l *Loader) Resources(ctx context.Context) Resources {
	res, err := l.loadResources(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.logger.Warn("content: resources unavailable, using defaults", zap.Error(err))
		}
		return DefaultResources()
	}
	return res
}

func (l *Loader) loadResources(ctx context.Context) (Resources, error) {
	data, err := l.Bytes(ctx, ResourcesPath)
	if err != nil {
		return Resources{}, err
	}
	var res Resources
	if err := yaml.Unmarshal(data, &res); err != nil {
		return Resources{}, fmt.Errorf("content: decode %s: %w", ResourcesPath, err)
	}
	if len(res.Sections) == 0 {
		return Resources{}, fmt.Errorf("content: %s lists no sections", ResourcesPath)
	}
	def := DefaultResources()
	if res.Title == "" {
		res.Title = def.Title
	}
	if res.Intro == "" {
		res.Intro = def.Intro
	}
	return res, nil
}
