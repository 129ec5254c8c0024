package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/roar-center/roar-web/internal/observability"
)

const (
	defaultCacheTTL = 5 * time.Minute
	maxContentSize  = 8 << 20
)

// Loader reads content through a Source. Successful reads are cached; concurrent
// reads of the same path share one fetch. Failures are never cached or retried.
type Loader struct {
	source   Source
	cache    *cache.Cache
	group    singleflight.Group
	markdown *Markdown
	logger   *zap.Logger
	metrics  *observability.Metrics
	ttl      time.Duration
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = observability.OrNop(logger) }
}

// WithMetrics records fetch results.
func WithMetrics(m *observability.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithCacheTTL overrides how long successful reads stay cached.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// NewLoader wraps src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   src,
		markdown: NewMarkdown(),
		logger:   observability.OrNop(nil),
		ttl:      defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cache = cache.New(l.ttl, 2*l.ttl)
	return l
}

// Source returns the underlying source.
func (l *Loader) Source() Source { return l.source }

// Bytes returns the raw content stored under name. The returned slice is shared and
// must not be modified.
func (l *Loader) Bytes(ctx context.Context, name string) ([]byte, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if v, ok := l.cache.Get(name); ok {
		l.metrics.ContentFetch(l.source.Name(), "hit")
		return v.([]byte), nil
	}
	v, err, _ := l.group.Do(name, func() (any, error) {
		return l.fetch(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (l *Loader) fetch(ctx context.Context, name string) (data []byte, err error) {
	ctx, span := observability.StartSpan(ctx, "content.fetch",
		attribute.String("content.source", l.source.Name()),
		attribute.String("content.path", name),
	)
	defer func() { observability.EndSpan(span, err) }()

	rc, err := l.source.Open(ctx, name)
	if err != nil {
		l.fetchFailed(name, err)
		return nil, err
	}
	defer rc.Close()

	data, err = io.ReadAll(io.LimitReader(rc, maxContentSize+1))
	if err == nil && len(data) > maxContentSize {
		err = fmt.Errorf("content: %s exceeds %d bytes", name, maxContentSize)
	}
	if err != nil {
		l.fetchFailed(name, err)
		return nil, err
	}
	l.cache.SetDefault(name, data)
	l.metrics.ContentFetch(l.source.Name(), "miss")
	return data, nil
}

func (l *Loader) fetchFailed(name string, err error) {
	result := "error"
	if errors.Is(err, ErrNotFound) {
		result = "not_found"
	}
	l.metrics.ContentFetch(l.source.Name(), result)
	l.logger.Warn("content fetch failed",
		zap.String("path", name),
		zap.String("source", l.source.Name()),
		zap.Error(err),
	)
}

// Invalidate drops the cached copy of name.
func (l *Loader) Invalidate(name string) {
	if name, err := cleanName(name); err == nil {
		l.cache.Delete(name)
	}
}

// Flush drops every cached entry.
func (l *Loader) Flush() { l.cache.Flush() }

// JSON decodes the JSON document stored under name into v.
func (l *Loader) JSON(ctx context.Context, name string, v any) error {
	data, err := l.Bytes(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("content: decode %s: %w", name, err)
	}
	return nil
}
