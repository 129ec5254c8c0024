package content

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultGuideSlugs lists the guides published when no manifest exists.
var DefaultGuideSlugs = []string{
	"getting-started",
	"event-planning",
	"coalition-building",
	"direct-action",
}

const excerptLength = 150

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Guide is an organizing guide.
type Guide struct {
	Document
	Title     string
	Category  string
	Date      string
	Published time.Time
	Tags      []string
	Featured  bool
}

// GuideFromDocument reads guide fields from the document frontmatter.
func GuideFromDocument(doc Document) Guide {
	date := doc.Meta.String("date")
	return Guide{
		Document:  doc,
		Title:     doc.Meta.String("title"),
		Category:  doc.Meta.String("category"),
		Date:      date,
		Published: parseGuideDate(date),
		Tags:      doc.Meta.Strings("tags"),
		Featured:  doc.Meta.Bool("featured"),
	}
}

func parseGuideDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02", "2006-1-2", "January 2, 2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Excerpt returns the first 150 characters of the markdown body followed by "...".
func (g Guide) Excerpt() string {
	raw := g.Raw
	if utf8.RuneCountInString(raw) > excerptLength {
		raw = string([]rune(raw)[:excerptLength])
	}
	return raw + "..."
}

// DisplayTags returns at most n tags.
func (g Guide) DisplayTags(n int) []string {
	if n < 0 || len(g.Tags) <= n {
		return g.Tags
	}
	return g.Tags[:n]
}

type guideManifest struct {
	Guides []string `yaml:"guides"`
}

// GuideSlugs returns the published guide slugs from the manifest, or the defaults
// when the manifest is missing or unreadable.
func (l *Loader) GuideSlugs(ctx context.Context) []string {
	data, err := l.Bytes(ctx, GuideManifestPath)
	if err != nil {
		return slices.Clone(DefaultGuideSlugs)
	}
	var m guideManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		l.logger.Warn("content: invalid guide manifest", zap.String("path", GuideManifestPath), zap.Error(err))
		return slices.Clone(DefaultGuideSlugs)
	}
	out := make([]string, 0, len(m.Guides))
	for _, s := range m.Guides {
		s = strings.TrimSpace(s)
		if slugPattern.MatchString(s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// LoadGuides loads every published guide, featured first and newest first.
// Guides that fail to load are left out.
func (l *Loader) LoadGuides(ctx context.Context) []Guide {
	docs := l.Directory(ctx, GuidesDir, l.GuideSlugs(ctx))
	guides := make([]Guide, 0, len(docs))
	for _, d := range docs {
		guides = append(guides, GuideFromDocument(d))
	}
	SortGuides(guides)
	return guides
}

// Guide loads a single published guide.
func (l *Loader) Guide(ctx context.Context, slug string) (Guide, error) {
	slug = strings.TrimSpace(slug)
	if !slices.Contains(l.GuideSlugs(ctx), slug) {
		return Guide{}, fmt.Errorf("%w: guide %q", ErrNotFound, slug)
	}
	doc, err := l.Markdown(ctx, GuidesDir+"/"+slug+".md")
	if err != nil {
		return Guide{}, err
	}
	return GuideFromDocument(doc), nil
}

// SortGuides orders guides featured first, then by date descending. Ties keep
// their relative order; undated guides sort last.
func SortGuides(guides []Guide) {
	sort.SliceStable(guides, func(i, j int) bool {
		a, b := guides[i], guides[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.Published.After(b.Published)
	})
}

// SearchGuides keeps guides whose title, body, tags or category contain query,
// ignoring case. A blank query keeps everything.
func SearchGuides(guides []Guide, query string) []Guide {
	if strings.TrimSpace(query) == "" {
		return guides
	}
	term := strings.ToLower(query)
	out := make([]Guide, 0, len(guides))
	for _, g := range guides {
		if guideMatches(g, term) {
			out = append(out, g)
		}
	}
	return out
}

func guideMatches(g Guide, term string) bool {
	if strings.Contains(strings.ToLower(g.Title), term) ||
		strings.Contains(strings.ToLower(g.Raw), term) ||
		strings.Contains(strings.ToLower(g.Category), term) {
		return true
	}
	for _, tag := range g.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// FilterGuidesByCategory keeps guides in category; "" and "all" keep everything.
func FilterGuidesByCategory(guides []Guide, category string) []Guide {
	if category == "" || category == "all" {
		return guides
	}
	out := make([]Guide, 0, len(guides))
	for _, g := range guides {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}

// GuideCategories lists the distinct non-empty categories in first-seen order.
func GuideCategories(guides []Guide) []string {
	var out []string
	for _, g := range guides {
		if g.Category != "" && !slices.Contains(out, g.Category) {
			out = append(out, g.Category)
		}
	}
	return out
}

// CategoryLabel capitalises the first letter of a category key for display.
func CategoryLabel(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return cases.Upper(language.English).String(string(r)) + category[size:]
}
