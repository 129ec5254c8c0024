package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/content"
)

// watchContent invalidates cached content when files under dir change.
// fsnotify is not recursive, so every directory is added and new ones are picked up.
func watchContent(ctx context.Context, dir string, loader *content.Loader, logger *zap.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				handleContentEvent(watcher, dir, loader, logger, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("content watcher error", zap.Error(err))
			}
		}
	}()
	return watcher, nil
}

func handleContentEvent(watcher *fsnotify.Watcher, dir string, loader *content.Loader, logger *zap.Logger, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := watcher.Add(event.Name); err != nil {
			logger.Warn("watch new directory", zap.String("dir", event.Name), zap.Error(err))
		}
		loader.Flush()
		return
	}
	// a removed or renamed path can no longer be stat'ed and may have been a
	// directory holding any number of cached files
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		loader.Flush()
		logger.Debug("content removed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
		return
	}
	rel, err := filepath.Rel(dir, event.Name)
	if err != nil {
		loader.Flush()
		return
	}
	loader.Invalidate(filepath.ToSlash(rel))
	logger.Debug("content changed", zap.String("path", filepath.ToSlash(rel)), zap.String("op", event.Op.String()))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
