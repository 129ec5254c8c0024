package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/config"
	"github.com/roar-center/roar-web/internal/content"
	"github.com/roar-center/roar-web/internal/httpserver"
	"github.com/roar-center/roar-web/internal/observability"
	"github.com/roar-center/roar-web/internal/seo"
)

// app bundles the dependencies shared by serve and build.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	content *content.Loader
}

func newApp(ctx context.Context, withMetrics bool) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Server.DevMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	src, err := newSource(cfg.Content)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger.Named("web")}
	opts := []content.LoaderOption{
		content.WithLogger(a.logger.Named("content")),
		content.WithCacheTTL(cfg.Content.CacheTTL),
	}
	if withMetrics {
		a.metrics = observability.NewMetrics()
		opts = append(opts, content.WithMetrics(a.metrics))
	}
	a.content = content.NewLoader(src, opts...)
	return a, nil
}

func newSource(cfg config.ContentConfig) (content.Source, error) {
	switch cfg.Source {
	case config.SourceDir:
		return content.NewDirSource(cfg.Dir), nil
	case config.SourceHTTP:
		return content.NewHTTPSource(cfg.BaseURL, cfg.Timeout)
	case config.SourceS3:
		return content.NewS3Source(content.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Source)
	}
}

func (a *app) serverConfig() httpserver.Config {
	return httpserver.Config{
		Address:          a.cfg.Server.Addr(),
		ReadTimeout:      a.cfg.Server.ReadTimeout,
		WriteTimeout:     a.cfg.Server.WriteTimeout,
		IdleTimeout:      a.cfg.Server.IdleTimeout,
		Content:          a.content,
		Map:              a.cfg.Map,
		Site:             seo.Site{Title: a.cfg.Site.Title, Tagline: a.cfg.Site.Tagline, BaseURL: a.cfg.Site.BaseURL},
		DevMode:          a.cfg.Server.DevMode,
		APIRatePerSecond: a.cfg.API.RatePerSecond,
		APIBurst:         a.cfg.API.Burst,
		CORSOrigins:      a.cfg.API.CORSOrigins,
		Logger:           a.logger,
		Metrics:          a.metrics,
	}
}
