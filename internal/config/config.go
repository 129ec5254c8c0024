package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/roar-center/roar-web/internal/campusmap"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultBaseURL         = "http://localhost:8080"
	defaultContentSource   = SourceDir
	defaultContentDir      = "site"
	defaultContentTimeout  = 5 * time.Second
	defaultCacheTTL        = 5 * time.Minute
	defaultAPIRate         = 10.0
	defaultAPIBurst        = 20
	defaultSiteTitle       = "ROAR Center"
	defaultSiteTagline     = "Radical Organizing and Activist Resource Center"
)

// Content source kinds.
const (
	SourceDir  = "dir"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Content ContentConfig
	Map     campusmap.MapConfig
	API     APIConfig
	Site    SiteConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	DevMode         bool
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return ":" + strings.TrimPrefix(s.Port, ":")
}

// ContentConfig selects where markdown, YAML and the campus dataset are read from.
type ContentConfig struct {
	Source   string
	Dir      string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Watch    bool
	S3       S3Config
}

// S3Config addresses an S3-compatible bucket holding the content tree.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// APIConfig throttles and exposes the JSON API.
type APIConfig struct {
	RatePerSecond float64
	Burst         int
	CORSOrigins   []string
}

// SiteConfig holds presentation defaults.
type SiteConfig struct {
	Title   string
	Tagline string
	BaseURL string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises loader behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile reads defaults from the given dotenv file. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap supplies explicit values that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration. Precedence: explicit map, process environment, dotenv file.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	dev := boolWithDefault(lookup, "ROAR_DEV", false)
	cfg := Config{
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "ROAR_SERVER_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:     durationWithDefault(lookup, "ROAR_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "ROAR_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "ROAR_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "ROAR_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
			DevMode:         dev,
		},
		Content: ContentConfig{
			Source:   strings.ToLower(stringWithDefault(lookup, "ROAR_CONTENT_SOURCE", defaultContentSource)),
			Dir:      stringWithDefault(lookup, "ROAR_CONTENT_DIR", defaultContentDir),
			BaseURL:  stringWithDefault(lookup, "ROAR_CONTENT_BASE_URL", ""),
			Timeout:  durationWithDefault(lookup, "ROAR_CONTENT_TIMEOUT", defaultContentTimeout),
			CacheTTL: durationWithDefault(lookup, "ROAR_CONTENT_CACHE_TTL", defaultCacheTTL),
			Watch:    boolWithDefault(lookup, "ROAR_CONTENT_WATCH", dev),
			S3: S3Config{
				Endpoint:  stringWithDefault(lookup, "ROAR_S3_ENDPOINT", ""),
				Bucket:    stringWithDefault(lookup, "ROAR_S3_BUCKET", ""),
				Prefix:    strings.Trim(stringWithDefault(lookup, "ROAR_S3_PREFIX", ""), "/"),
				AccessKey: stringWithDefault(lookup, "ROAR_S3_ACCESS_KEY", ""),
				SecretKey: stringWithDefault(lookup, "ROAR_S3_SECRET_KEY", ""),
				UseSSL:    boolWithDefault(lookup, "ROAR_S3_USE_SSL", true),
			},
		},
		Map: campusmap.MapConfig{
			Bounds:      boundsWithDefault(lookup, "ROAR_MAP_BOUNDS", campusmap.DefaultBounds),
			MinZoom:     intWithDefault(lookup, "ROAR_MAP_MIN_ZOOM", campusmap.DefaultMinZoom),
			MaxZoom:     intWithDefault(lookup, "ROAR_MAP_MAX_ZOOM", campusmap.DefaultMaxZoom),
			TileURL:     stringWithDefault(lookup, "ROAR_MAP_TILE_URL", campusmap.DefaultTileURL),
			Attribution: stringWithDefault(lookup, "ROAR_MAP_ATTRIBUTION", campusmap.DefaultAttribution),
		},
		API: APIConfig{
			RatePerSecond: floatWithDefault(lookup, "ROAR_API_RATE", defaultAPIRate),
			Burst:         intWithDefault(lookup, "ROAR_API_BURST", defaultAPIBurst),
			CORSOrigins:   csvWithDefault(lookup, "ROAR_API_CORS_ORIGINS"),
		},
		Site: SiteConfig{
			Title:   stringWithDefault(lookup, "ROAR_SITE_TITLE", defaultSiteTitle),
			Tagline: stringWithDefault(lookup, "ROAR_SITE_TAGLINE", defaultSiteTagline),
			BaseURL: strings.TrimRight(stringWithDefault(lookup, "ROAR_SITE_BASE_URL", defaultBaseURL), "/"),
		},
	}
	if len(cfg.API.CORSOrigins) == 0 {
		cfg.API.CORSOrigins = []string{"*"}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimPrefix(cfg.Server.Port, ":") == "" {
		missing = append(missing, "Server.Port")
	}
	switch cfg.Content.Source {
	case SourceDir:
		if strings.TrimSpace(cfg.Content.Dir) == "" {
			missing = append(missing, "Content.Dir")
		}
	case SourceHTTP:
		if strings.TrimSpace(cfg.Content.BaseURL) == "" {
			missing = append(missing, "Content.BaseURL")
		}
	case SourceS3:
		s3 := cfg.Content.S3
		if s3.Endpoint == "" {
			missing = append(missing, "Content.S3.Endpoint")
		}
		if s3.Bucket == "" {
			missing = append(missing, "Content.S3.Bucket")
		}
		if s3.AccessKey == "" {
			missing = append(missing, "Content.S3.AccessKey")
		}
		if s3.SecretKey == "" {
			missing = append(missing, "Content.S3.SecretKey")
		}
	default:
		missing = append(missing, "Content.Source")
	}
	if cfg.Content.CacheTTL <= 0 {
		missing = append(missing, "Content.CacheTTL")
	}
	if !cfg.Map.Bounds.Valid() {
		missing = append(missing, "Map.Bounds")
	}
	if cfg.Map.MinZoom < 0 || cfg.Map.MinZoom > cfg.Map.MaxZoom {
		missing = append(missing, "Map.MinZoom")
	}
	if cfg.API.RatePerSecond > 0 && cfg.API.Burst <= 0 {
		missing = append(missing, "API.Burst")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatWithDefault(lookup func(string) (string, bool), key string, fallback float64) float64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// boundsWithDefault parses "swLat,swLng,neLat,neLng". Malformed values fall back.
func boundsWithDefault(lookup func(string) (string, bool), key string, fallback campusmap.Bounds) campusmap.Bounds {
	parts := csvWithDefault(lookup, key)
	if len(parts) != 4 {
		return fallback
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return fallback
		}
		v[i] = f
	}
	return campusmap.Bounds{
		SouthWest: campusmap.LatLng{Lat: v[0], Lng: v[1]},
		NorthEast: campusmap.LatLng{Lat: v[2], Lng: v[3]},
	}
}
