package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/content"
	"github.com/roar-center/roar-web/internal/format"
	"github.com/roar-center/roar-web/internal/observability"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// shared templates are parsed into every page set
var sharedTemplates = []string{"layout.tmpl", "partials.tmpl"}

// views renders pages from a layout plus one page template each. In dev mode the
// templates are reparsed from disk on every render.
type views struct {
	dev   bool
	fsys  fs.FS
	pages map[string]*template.Template
}

func newViews(dir string, dev bool) (*views, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	v := &views{dev: dev && dir != "", fsys: fsys}
	pages, err := parseTemplates(fsys)
	if err != nil {
		return nil, err
	}
	v.pages = pages
	return v, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"year":          func() int { return time.Now().Year() },
		"categoryLabel": content.CategoryLabel,
		"join":          strings.Join,
		"jsonld":        func(s string) template.JS { return template.JS(s) },
		"displayDate":   format.DateOr,
		"isoDate":       format.ISODate,
	}
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	files, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	pages := map[string]*template.Template{}
	for _, f := range files {
		if isShared(f) {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".tmpl")
		t, err := template.New(name).Funcs(templateFuncs()).ParseFS(fsys, append(append([]string{}, sharedTemplates...), f)...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", f, err)
		}
		pages[name] = t
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return pages, nil
}

func isShared(name string) bool {
	for _, s := range sharedTemplates {
		if name == s {
			return true
		}
	}
	return false
}

func (v *views) lookup(page string) (*template.Template, error) {
	pages := v.pages
	if v.dev {
		reparsed, err := parseTemplates(v.fsys)
		if err != nil {
			return nil, err
		}
		pages = reparsed
	}
	t, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("template %q not found", page)
	}
	return t, nil
}

// execute renders the named template of a page set into a buffer so a failure never
// leaves a half-written response.
func (v *views) execute(page, name string, data any) ([]byte, error) {
	t, err := v.lookup(page)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template exec %s/%s: %w", page, name, err)
	}
	return buf.Bytes(), nil
}

// render writes a full page using the base layout.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	v.write(w, r, status, page, "base", data)
}

// renderFragment writes one named template without the layout, for htmx swaps.
func (v *views) renderFragment(w http.ResponseWriter, r *http.Request, status int, page, name string, data any) {
	v.write(w, r, status, page, name, data)
}

func (v *views) write(w http.ResponseWriter, r *http.Request, status int, page, name string, data any) {
	body, err := v.execute(page, name, data)
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.String("template", page+"/"+name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
