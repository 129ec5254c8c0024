package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter(t *testing.T) {
	t.Parallel()

	doc := "---\n" +
		"title: \"Event Planning 101\"\n" +
		"category: 'events'\n" +
		"date: 2024-03-01\n" +
		"tags: [planning, \"logistics\", 'permits' ]\n" +
		"featured: true\n" +
		"draft: false\n" +
		"note: time: 5pm\n" +
		"no colon here\n" +
		": orphan\n" +
		"---\n" +
		"# Heading\n\nBody text.\n"

	meta, body := ParseFrontmatter(doc)
	require.Equal(t, "# Heading\n\nBody text.\n", body)
	require.Equal(t, Frontmatter{
		"title":    "Event Planning 101",
		"category": "events",
		"date":     "2024-03-01",
		"tags":     []string{"planning", "logistics", "permits"},
		"featured": true,
		"draft":    false,
		"note":     "time: 5pm",
	}, meta)

	require.Equal(t, "Event Planning 101", meta.String("title"))
	require.True(t, meta.Bool("featured"))
	require.False(t, meta.Bool("title"))
	require.Equal(t, []string{"planning", "logistics", "permits"}, meta.Strings("tags"))
	require.Equal(t, []string{"events"}, meta.Strings("category"))
	require.Empty(t, meta.String("featured"))
	require.True(t, meta.Has("draft"))
	require.False(t, meta.Has("author"))
}

func TestParseFrontmatterQuotedBoolean(t *testing.T) {
	t.Parallel()

	meta, _ := ParseFrontmatter("---\nfeatured: \"true\"\nempty: \"\"\nlist: []\n---\nbody")
	require.Equal(t, true, meta["featured"])
	require.Equal(t, "", meta["empty"])
	require.Equal(t, []string{}, meta["list"])
}

func TestParseFrontmatterAbsentOrMalformed(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"",
		"# Just markdown\n",
		"---\ntitle: unterminated\n",
		"intro\n---\ntitle: x\n---\nbody",
		"---\ntitle: no newline after closing\n---",
	} {
		meta, body := ParseFrontmatter(doc)
		require.Empty(t, meta, doc)
		require.NotNil(t, meta)
		require.Equal(t, doc, body)
	}
}

func TestParseFrontmatterEmptyBody(t *testing.T) {
	t.Parallel()

	meta, body := ParseFrontmatter("---   \ntitle: x\n---\n")
	require.Equal(t, "x", meta.String("title"))
	require.Empty(t, body)
}
