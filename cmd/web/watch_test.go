package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roar-center/roar-web/internal/config"
	"github.com/roar-center/roar-web/internal/content"
)

func TestWatchContentInvalidatesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	file := filepath.Join(dir, "data", "home-content.md")
	require.NoError(t, os.WriteFile(file, []byte("# Before"), 0o644))

	loader := content.NewLoader(content.NewDirSource(dir), content.WithCacheTTL(time.Hour))
	data, err := loader.Bytes(context.Background(), "data/home-content.md")
	require.NoError(t, err)
	require.Equal(t, "# Before", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w, err := watchContent(ctx, dir, loader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(file, []byte("# After"), 0o644))
	require.Eventually(t, func() bool {
		data, err := loader.Bytes(context.Background(), "data/home-content.md")
		return err == nil && string(data) == "# After"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRemovedDirectoryFlushesCachedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	guides := filepath.Join(dir, "content", "guides")
	require.NoError(t, os.MkdirAll(guides, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(guides, "know-your-rights.md"), []byte("# Rights"), 0o644))

	loader := content.NewLoader(content.NewDirSource(dir), content.WithCacheTTL(time.Hour))
	_, err := loader.Bytes(context.Background(), "content/guides/know-your-rights.md")
	require.NoError(t, err)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })

	require.NoError(t, os.RemoveAll(guides))
	handleContentEvent(watcher, dir, loader, zap.NewNop(), fsnotify.Event{Name: guides, Op: fsnotify.Remove})
	_, err = loader.Bytes(context.Background(), "content/guides/know-your-rights.md")
	require.ErrorIs(t, err, content.ErrNotFound)

	require.NoError(t, os.MkdirAll(guides, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(guides, "know-your-rights.md"), []byte("# Rights"), 0o644))
	_, err = loader.Bytes(context.Background(), "content/guides/know-your-rights.md")
	require.NoError(t, err)
	renamed := filepath.Join(dir, "content", "archive")
	require.NoError(t, os.Rename(guides, renamed))
	handleContentEvent(watcher, dir, loader, zap.NewNop(), fsnotify.Event{Name: guides, Op: fsnotify.Rename})
	_, err = loader.Bytes(context.Background(), "content/guides/know-your-rights.md")
	require.ErrorIs(t, err, content.ErrNotFound)
}

func TestWatchContentMissingDir(t *testing.T) {
	loader := content.NewLoader(content.NewDirSource("nowhere"))
	_, err := watchContent(context.Background(), filepath.Join(t.TempDir(), "missing"), loader, zap.NewNop())
	require.Error(t, err)
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	src, err := newSource(config.ContentConfig{Source: config.SourceDir, Dir: "site"})
	require.NoError(t, err)
	require.Equal(t, "dir", src.Name())

	src, err = newSource(config.ContentConfig{Source: config.SourceHTTP, BaseURL: "https://content.example/site/", Timeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "http", src.Name())

	src, err = newSource(config.ContentConfig{Source: config.SourceS3, S3: config.S3Config{Endpoint: "localhost:9000", Bucket: "roar"}})
	require.NoError(t, err)
	require.Equal(t, "s3", src.Name())

	_, err = newSource(config.ContentConfig{Source: "ftp"})
	require.Error(t, err)
}
