package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/config"
	"github.com/roar-center/roar-web/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	srv, err := httpserver.New(a.serverConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Content.Watch && a.cfg.Content.Source == config.SourceDir {
		w, err := watchContent(ctx, a.cfg.Content.Dir, a.content, a.logger.Named("watch"))
		if err != nil {
			a.logger.Warn("content watch disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.logger.Info("site server listening",
		zap.String("addr", srv.Addr),
		zap.String("content_source", a.cfg.Content.Source),
		zap.Bool("dev", a.cfg.Server.DevMode),
	)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	a.logger.Info("site server stopped")
	return nil
}
