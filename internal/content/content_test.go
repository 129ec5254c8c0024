package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func guideFile(title, category, date string, featured bool, tags string, body string) *fstest.MapFile {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: \"" + title + "\"\n")
	b.WriteString("category: " + category + "\n")
	if date != "" {
		b.WriteString("date: " + date + "\n")
	}
	if featured {
		b.WriteString("featured: true\n")
	}
	if tags != "" {
		b.WriteString("tags: " + tags + "\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return &fstest.MapFile{Data: []byte(b.String())}
}

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"data/home-content.md": {Data: []byte("# ROAR Center\n\nWelcome, organizers.\nSecond line.")},
		"content/history/timeline.md": {Data: []byte("---\ntitle: Timeline\n---\n## 1970\n\nStudents occupied <script>alert(1)</script>Johnson Hall.")},
		"content/guides/getting-started.md":    guideFile("Getting Started", "basics", "2024-01-10", false, "[intro, basics]", "Start here with your first meeting."),
		"content/guides/event-planning.md":     guideFile("Event Planning", "events", "2024-03-01", false, "[planning, permits, logistics, rallies]", "Reserve rooms early. Book the EMU."),
		"content/guides/coalition-building.md": guideFile("Coalition Building", "strategy", "2023-11-20", true, "[coalitions]", "Find allies across campus."),
		"content/guides/direct-action.md":      guideFile("Direct Action", "tactics", "", false, "", "Know your rights before any action."),
	}
}

func TestMarkdownRendersAndSanitises(t *testing.T) {
	t.Parallel()

	html, err := NewMarkdown().Render("## Heading\n\nline one\nline two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script><a href=\"https://nlg.org\">NLG</a>")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	require.NoError(t, err)
	require.Equal(t, "heading", doc.Find("h2").AttrOr("id", ""))
	require.Equal(t, 1, doc.Find("p br").Length(), "single newlines become hard breaks")
	require.Equal(t, 1, doc.Find("table").Length())
	require.Zero(t, doc.Find("script").Length())
	require.Contains(t, doc.Find("a").AttrOr("rel", ""), "nofollow")
}

func TestLoaderMarkdownDocument(t *testing.T) {
	t.Parallel()

	l := NewLoader(NewFSSource(siteFS()))
	doc, err := l.History(context.Background())
	require.NoError(t, err)
	require.Equal(t, "timeline", doc.Slug)
	require.Equal(t, "Timeline", doc.Title())
	require.True(t, strings.HasPrefix(doc.Raw, "## 1970"))
	require.Contains(t, string(doc.HTML), `<h2 id="1970">1970</h2>`)
	require.NotContains(t, string(doc.HTML), "<script>")

	_, err = l.Organizations(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHomeFallback(t *testing.T) {
	t.Parallel()

	doc, fallback := NewLoader(NewFSSource(siteFS())).Home(context.Background())
	require.False(t, fallback)
	require.Contains(t, string(doc.HTML), "<h1 id=\"roar-center\">ROAR Center</h1>")

	doc, fallback = NewLoader(NewFSSource(fstest.MapFS{})).Home(context.Background())
	require.True(t, fallback)
	require.Equal(t, "<h1>ROAR Center</h1><p>Welcome to the Radical Organizing and Activist Resource Center</p>", string(doc.HTML))
}

func TestDirectoryDropsFailedDocuments(t *testing.T) {
	t.Parallel()

	l := NewLoader(NewFSSource(siteFS()))
	docs := l.Directory(context.Background(), "content/guides", []string{"direct-action", "missing", "getting-started"})
	require.Len(t, docs, 2)
	require.Equal(t, "direct-action", docs[0].Slug)
	require.Equal(t, "getting-started", docs[1].Slug)
}

func TestResources(t *testing.T) {
	t.Parallel()

	def := NewLoader(NewFSSource(fstest.MapFS{})).Resources(context.Background())
	require.Equal(t, DefaultResources(), def)
	require.Len(t, def.Sections, 3)
	require.Equal(t, "https://www.nlg.org/", def.Sections[1].Links[0].URL)

	fsys := fstest.MapFS{
		ResourcesPath: {Data: []byte("sections:\n  - title: Mutual Aid\n    links:\n      - title: Food Pantry\n        url: https://example.org/pantry\n")},
	}
	res := NewLoader(NewFSSource(fsys)).Resources(context.Background())
	require.Equal(t, "External Resources", res.Title)
	require.Equal(t, []ResourceSection{{Title: "Mutual Aid", Links: []ResourceLink{{Title: "Food Pantry", URL: "https://example.org/pantry"}}}}, res.Sections)

	broken := fstest.MapFS{ResourcesPath: {Data: []byte("sections: [")}}
	require.Equal(t, DefaultResources(), NewLoader(NewFSSource(broken)).Resources(context.Background()))
}

func TestLoadGuidesOrdering(t *testing.T) {
	t.Parallel()

	guides := NewLoader(NewFSSource(siteFS())).LoadGuides(context.Background())
	var slugs []string
	for _, g := range guides {
		slugs = append(slugs, g.Slug)
	}
	require.Equal(t, []string{"coalition-building", "event-planning", "getting-started", "direct-action"}, slugs)
	require.True(t, guides[0].Featured)
	require.Equal(t, []string{"planning", "permits", "logistics", "rallies"}, guides[1].Tags)
	require.Equal(t, []string{"planning", "permits", "logistics"}, guides[1].DisplayTags(3))
}

func TestGuideManifest(t *testing.T) {
	t.Parallel()

	fsys := siteFS()
	fsys[GuideManifestPath] = &fstest.MapFile{Data: []byte("guides:\n  - direct-action\n  - ../secrets\n  - direct-action\n  - missing\n")}
	l := NewLoader(NewFSSource(fsys))

	require.Equal(t, []string{"direct-action", "missing"}, l.GuideSlugs(context.Background()))
	guides := l.LoadGuides(context.Background())
	require.Len(t, guides, 1)

	g, err := l.Guide(context.Background(), "direct-action")
	require.NoError(t, err)
	require.Equal(t, "Direct Action", g.Title)

	_, err = l.Guide(context.Background(), "event-planning")
	require.ErrorIs(t, err, ErrNotFound, "guides outside the manifest are not published")
	_, err = l.Guide(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGuideDefaultsWithoutManifest(t *testing.T) {
	t.Parallel()

	l := NewLoader(NewFSSource(siteFS()))
	require.Equal(t, DefaultGuideSlugs, l.GuideSlugs(context.Background()))
	_, err := l.Guide(context.Background(), "../data/home-content")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAndFilterGuides(t *testing.T) {
	t.Parallel()

	guides := NewLoader(NewFSSource(siteFS())).LoadGuides(context.Background())

	require.Equal(t, guides, SearchGuides(guides, "   "))
	require.Len(t, SearchGuides(guides, "EMU"), 1, "body text is searched")
	require.Len(t, SearchGuides(guides, "coalitions"), 1, "tags are searched")
	require.Len(t, SearchGuides(guides, "TACTICS"), 1, "category is searched")
	require.Len(t, SearchGuides(guides, "planning"), 1, "title is searched")
	require.Empty(t, SearchGuides(guides, "zzz"))

	require.Equal(t, guides, FilterGuidesByCategory(guides, "all"))
	require.Equal(t, guides, FilterGuidesByCategory(guides, ""))
	events := FilterGuidesByCategory(guides, "events")
	require.Len(t, events, 1)
	require.Equal(t, "event-planning", events[0].Slug)

	require.Equal(t, []string{"strategy", "events", "basics", "tactics"}, GuideCategories(guides))
}

func TestGuideExcerptAndLabels(t *testing.T) {
	t.Parallel()

	long := Guide{Document: Document{Raw: strings.Repeat("é", 200)}}
	require.Equal(t, strings.Repeat("é", 150)+"...", long.Excerpt())
	short := Guide{Document: Document{Raw: "Short"}}
	require.Equal(t, "Short...", short.Excerpt())

	require.Equal(t, "Direct-action", CategoryLabel("direct-action"))
	require.Equal(t, "Événements", CategoryLabel("événements"))
	require.Equal(t, "", CategoryLabel(""))
}

func TestSortGuidesIsStable(t *testing.T) {
	t.Parallel()

	guides := []Guide{
		GuideFromDocument(Document{Slug: "a", Meta: Frontmatter{"date": "2024-01-01"}}),
		GuideFromDocument(Document{Slug: "b", Meta: Frontmatter{"date": "not a date"}}),
		GuideFromDocument(Document{Slug: "c", Meta: Frontmatter{"date": "2024-01-01"}}),
		GuideFromDocument(Document{Slug: "d", Meta: Frontmatter{"featured": true}}),
	}
	SortGuides(guides)
	var slugs []string
	for _, g := range guides {
		slugs = append(slugs, g.Slug)
	}
	require.Equal(t, []string{"d", "a", "c", "b"}, slugs)
}

func TestLoadDataset(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		DatasetPath: {Data: []byte(`{"mapCenter": {"lat": 44.04, "lng": -123.07, "zoom": 16}, "categories": {"park": {"name": "Park", "color": "#0f0", "icon": "🌳", "description": ""}}, "locations": [{"id": 1, "name": "Old Park", "lat": 44.04, "lng": -123.07, "category": "park", "description": "x", "organizeHere": true}]}`)},
	}
	ds, err := NewLoader(NewFSSource(fsys)).LoadDataset(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Locations, 1)
	require.Equal(t, []string{"park"}, ds.Categories.Keys())

	_, err = NewLoader(NewFSSource(fstest.MapFS{})).LoadDataset(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	bad := fstest.MapFS{DatasetPath: {Data: []byte(`{"locations": {}}`)}}
	_, err = NewLoader(NewFSSource(bad)).LoadDataset(context.Background())
	require.Error(t, err)
}
