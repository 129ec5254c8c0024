// Package export renders the site to a directory of static files.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roar-center/roar-web/internal/content"
	"github.com/roar-center/roar-web/internal/observability"
)

// DatasetFile is where the campus dataset is copied inside the output directory.
const DatasetFile = "data/campus-locations.json"

// StaticPages are rendered on every export; guide pages are added per published guide.
var StaticPages = []string{"/", "/history", "/organizations", "/resources", "/guides", "/map"}

const defaultConcurrency = 4

// Options configures an export.
type Options struct {
	// Handler serves the pages; it should be built in static mode.
	Handler http.Handler
	Content *content.Loader
	Assets  fs.FS
	OutDir  string
	Logger  *zap.Logger
	// Concurrency bounds parallel page renders. Zero uses a small default.
	Concurrency int
}

// Result summarises a finished export.
type Result struct {
	Pages    []string
	Assets   int
	Dataset  bool
	Duration time.Duration
}

// Build renders every page and copies the dataset and assets into OutDir.
// The output directory is recreated.
func Build(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()
	logger := observability.OrNop(opts.Logger)
	if opts.Handler == nil || opts.Content == nil {
		return Result{}, errors.New("export: handler and content are required")
	}
	out := strings.TrimSpace(opts.OutDir)
	if out == "" || filepath.Clean(out) == "." || filepath.Clean(out) == "/" {
		return Result{}, fmt.Errorf("export: refusing to write to %q", opts.OutDir)
	}
	if err := os.RemoveAll(out); err != nil {
		return Result{}, fmt.Errorf("export: clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return Result{}, fmt.Errorf("export: create %s: %w", out, err)
	}

	pages := append([]string(nil), StaticPages...)
	for _, g := range opts.Content.LoadGuides(ctx) {
		pages = append(pages, "/guides/"+g.Slug)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var mu sync.Mutex
	written := make([]string, 0, len(pages))
	for _, p := range pages {
		p := p
		g.Go(func() error {
			file, err := renderPage(gctx, opts.Handler, p, out)
			if err != nil {
				return err
			}
			logger.Debug("export: page written", zap.String("path", p), zap.String("file", file))
			mu.Lock()
			written = append(written, p)
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		return renderNotFound(gctx, opts.Handler, out)
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	sort.Strings(written)

	res := Result{Pages: written}
	data, err := opts.Content.Bytes(ctx, content.DatasetPath)
	switch {
	case err == nil:
		if err := writeFile(filepath.Join(out, filepath.FromSlash(DatasetFile)), data); err != nil {
			return Result{}, err
		}
		res.Dataset = true
	default:
		logger.Warn("export: campus dataset not copied", zap.Error(err))
	}

	if opts.Assets != nil {
		n, err := copyAssets(opts.Assets, filepath.Join(out, "assets"))
		if err != nil {
			return Result{}, err
		}
		res.Assets = n
	}

	res.Duration = time.Since(start)
	logger.Info("export: finished",
		zap.String("out", out),
		zap.Int("pages", len(res.Pages)),
		zap.Int("assets", res.Assets),
		zap.Bool("dataset", res.Dataset),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// bufferWriter collects a handler response in memory.
type bufferWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferWriter() *bufferWriter {
	return &bufferWriter{header: http.Header{}}
}

func (b *bufferWriter) Header() http.Header { return b.header }

func (b *bufferWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func serve(ctx context.Context, h http.Handler, target string) (*bufferWriter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("export: request %s: %w", target, err)
	}
	req.RemoteAddr = "127.0.0.1:0"
	rec := newBufferWriter()
	h.ServeHTTP(rec, req)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec, nil
}

// PageFile maps a URL path to its file below the output directory.
func PageFile(urlPath string) string {
	clean := strings.Trim(path.Clean("/"+urlPath), "/")
	if clean == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(clean), "index.html")
}

func renderPage(ctx context.Context, h http.Handler, urlPath, out string) (string, error) {
	rec, err := serve(ctx, h, urlPath)
	if err != nil {
		return "", err
	}
	if rec.status != http.StatusOK {
		return "", fmt.Errorf("export: %s returned status %d", urlPath, rec.status)
	}
	file := filepath.Join(out, PageFile(urlPath))
	return file, writeFile(file, rec.body.Bytes())
}

func renderNotFound(ctx context.Context, h http.Handler, out string) error {
	rec, err := serve(ctx, h, "/404.html")
	if err != nil {
		return err
	}
	if rec.status != http.StatusNotFound {
		return fmt.Errorf("export: not found page returned status %d", rec.status)
	}
	return writeFile(filepath.Join(out, "404.html"), rec.body.Bytes())
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("export: create %s: %w", filepath.Dir(name), err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	return nil
}

func copyAssets(fsys fs.FS, dst string) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dst, filepath.FromSlash(p)), data); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("export: copy assets: %w", err)
	}
	return count, nil
}
