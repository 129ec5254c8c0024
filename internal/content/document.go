package content

import (
	"context"
	"html/template"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Document is a parsed markdown file.
type Document struct {
	// Slug is the file name without the .md extension.
	Slug string
	Meta Frontmatter
	HTML template.HTML
	// Raw is the markdown body after the frontmatter block.
	Raw string
}

// Title returns the frontmatter title, if any.
func (d Document) Title() string { return d.Meta.String("title") }

// ParseDocument builds a Document from raw markdown.
func (l *Loader) ParseDocument(name string, text []byte) (Document, error) {
	meta, body := ParseFrontmatter(string(text))
	html, err := l.markdown.Render(body)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Slug: strings.TrimSuffix(path.Base(name), ".md"),
		Meta: meta,
		HTML: html,
		Raw:  body,
	}, nil
}

// Markdown loads and renders one markdown file.
func (l *Loader) Markdown(ctx context.Context, name string) (Document, error) {
	data, err := l.Bytes(ctx, name)
	if err != nil {
		return Document{}, err
	}
	return l.ParseDocument(name, data)
}

// Directory loads dir/<name>.md for each name concurrently. Files that fail to load
// are logged and left out; the rest keep the order of names.
func (l *Loader) Directory(ctx context.Context, dir string, names []string) []Document {
	docs := make([]*Document, len(names))
	var g errgroup.Group
	g.SetLimit(8)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			file := path.Join(dir, name+".md")
			doc, err := l.Markdown(ctx, file)
			if err != nil {
				l.logger.Warn("content: skipping document", zap.String("path", file), zap.Error(err))
				return nil
			}
			docs[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Document, 0, len(names))
	for _, d := range docs {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}
