package testutil

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roar-center/roar-web/internal/campusmap"
	"github.com/roar-center/roar-web/internal/content"
	"github.com/roar-center/roar-web/internal/httpserver"
	"github.com/roar-center/roar-web/internal/observability"
	"github.com/roar-center/roar-web/internal/seo"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithContent serves content from fsys instead of SiteFS.
func WithContent(fsys fs.FS) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Content = content.NewLoader(content.NewFSSource(fsys))
	}
}

// WithSource serves content from src.
func WithSource(src content.Source) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Content = content.NewLoader(src)
	}
}

// WithStatic renders the map surface inline, as the static export does.
func WithStatic() ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Static = true
	}
}

// WithAPILimit overrides the API rate limit.
func WithAPILimit(perSecond float64, burst int) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.APIRatePerSecond = perSecond
		cfg.APIBurst = burst
	}
}

// WithMetrics records request metrics and serves /metrics.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// Config returns the default test configuration after applying opts.
func Config(opts ...ServerOption) httpserver.Config {
	cfg := httpserver.Config{
		Address: ":0",
		Content: content.NewLoader(content.NewFSSource(SiteFS())),
		Map:     campusmap.DefaultMapConfig(),
		Site: seo.Site{
			Title:   "ROAR Center",
			Tagline: "Radical Organizing and Activist Resource Center",
			BaseURL: "https://roar.example",
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewHandler builds the site router with test defaults.
func NewHandler(t testing.TB, opts ...ServerOption) http.Handler {
	t.Helper()

	h, err := httpserver.NewHandler(Config(opts...))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

// NewServer constructs an httptest server running the site HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(NewHandler(t, opts...))
	t.Cleanup(ts.Close)
	return ts
}
