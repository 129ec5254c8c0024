package httpserver

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/campusmap"
	"github.com/roar-center/roar-web/internal/content"
	"github.com/roar-center/roar-web/internal/httpx"
	custommw "github.com/roar-center/roar-web/internal/middleware"
	"github.com/roar-center/roar-web/internal/observability"
	"github.com/roar-center/roar-web/internal/seo"
	"github.com/roar-center/roar-web/public"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultAPIRate        = 10.0
	defaultAPIBurst       = 20
)

// Config holds runtime options for the site HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Content *content.Loader
	Map     campusmap.MapConfig
	Site    seo.Site

	// Renderer draws the map surface; defaults to the Leaflet renderer.
	Renderer campusmap.Renderer
	Markers  campusmap.MarkerFactory

	// TemplatesDir reparses templates from disk in DevMode; empty uses the embedded set.
	TemplatesDir string
	DevMode      bool
	// Static renders the map surface inline and drops links that need a live server.
	Static bool

	APIRatePerSecond float64
	APIBurst         int
	CORSOrigins      []string

	Logger  *zap.Logger
	Metrics *observability.Metrics
	// Assets overrides the embedded static assets.
	Assets fs.FS
}

type server struct {
	content  *content.Loader
	views    *views
	renderer campusmap.Renderer
	markers  campusmap.MarkerFactory
	mapCfg   campusmap.MapConfig
	site     seo.Site
	static   bool
	logger   *zap.Logger
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}, nil
}

// NewHandler builds the router. It is used directly by tests and the static export.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Content == nil {
		return nil, errors.New("httpserver: content loader is required")
	}
	v, err := newViews(cfg.TemplatesDir, cfg.DevMode)
	if err != nil {
		return nil, err
	}
	assets := cfg.Assets
	if assets == nil {
		if assets, err = public.AssetsFS(); err != nil {
			return nil, err
		}
	}
	mapCfg := cfg.Map
	if !mapCfg.Bounds.Valid() {
		mapCfg = campusmap.DefaultMapConfig()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = campusmap.NewLeafletRenderer()
	}
	s := &server{
		content:  cfg.Content,
		views:    v,
		renderer: renderer,
		markers:  cfg.Markers,
		mapCfg:   mapCfg,
		site:     cfg.Site,
		static:   cfg.Static,
		logger:   observability.OrNop(cfg.Logger),
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(custommw.HTMX)
	router.Use(custommw.Logger(s.logger, cfg.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(defaultRequestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	router.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(assets)))

	router.Group(func(r chi.Router) {
		r.Get("/", s.home)
		r.Get("/history", s.history)
		r.Get("/organizations", s.organizations)
		r.Get("/resources", s.resources)
		r.Get("/guides", s.guides)
		r.Get("/guides/{slug}", s.guide)
		r.Get("/map", s.mapPage)
		r.Get("/map/surface", s.mapSurface)
		r.Get("/map/locations/{id}", s.mapLocation)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(apiCORS(cfg.CORSOrigins).Handler)
		r.Use(custommw.RateLimit(orDefaultFloat(cfg.APIRatePerSecond, defaultAPIRate), orDefaultInt(cfg.APIBurst, defaultAPIBurst)))
		r.Use(custommw.NoStore)
		r.Get("/map", s.apiMap)
		r.Get("/map/locations", s.apiLocations)
		r.Get("/map/locations.geojson", s.apiGeoJSON)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(r.Context(), w, httpx.NotFound("no such endpoint"))
		})
	})

	router.NotFound(s.notFound)
	return router, nil
}

func apiCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	})
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func orDefaultFloat(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func orDefaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
