package content

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestDirSource(t *testing.T) {
	t.Parallel()

	src := NewFSSource(fstest.MapFS{
		"content/history/timeline.md": {Data: []byte("# Timeline")},
	})
	require.Equal(t, "dir", src.Name())

	rc, err := src.Open(context.Background(), "/content/history/timeline.md")
	require.NoError(t, err)
	require.Equal(t, "# Timeline", readAll(t, rc))

	_, err = src.Open(context.Background(), "content/missing.md")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = src.Open(context.Background(), "content/history")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = src.Open(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirSourceStaysInsideRoot(t *testing.T) {
	t.Parallel()

	src := NewFSSource(fstest.MapFS{"data/x.json": {Data: []byte("{}")}})
	rc, err := src.Open(context.Background(), "../../data/x.json")
	require.NoError(t, err, "parent segments are resolved against the root")
	require.Equal(t, "{}", readAll(t, rc))
}

func TestHTTPSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site/data/home-content.md":
			_, _ = io.WriteString(w, "# Welcome")
		case "/site/broken.md":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	src, err := NewHTTPSource(srv.URL+"/site/", time.Second)
	require.NoError(t, err)
	require.Equal(t, "http", src.Name())

	rc, err := src.Open(context.Background(), "data/home-content.md")
	require.NoError(t, err)
	require.Equal(t, "# Welcome", readAll(t, rc))

	_, err = src.Open(context.Background(), "data/missing.md")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = src.Open(context.Background(), "broken.md")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "remote status 502")
}

func TestNewHTTPSourceRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPSource("ftp://example.com", 0)
	require.Error(t, err)
	_, err = NewHTTPSource("://", 0)
	require.Error(t, err)
}

func fakeS3(t *testing.T, objects map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "text/markdown")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Last-Modified", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))
		w.Header().Set("ETag", `"abc123"`)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestS3Source(t *testing.T) {
	t.Parallel()

	srv := fakeS3(t, map[string]string{
		"/roar/public/content/history/timeline.md": "# From the bucket",
	})
	src, err := NewS3Source(S3Options{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		Bucket:    "roar",
		Prefix:    "/public/",
		AccessKey: "key",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	require.Equal(t, "s3", src.Name())

	rc, err := src.Open(context.Background(), "content/history/timeline.md")
	require.NoError(t, err)
	require.Equal(t, "# From the bucket", readAll(t, rc))

	_, err = src.Open(context.Background(), "content/missing.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewS3SourceRequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := NewS3Source(S3Options{Endpoint: "localhost:9000"})
	require.Error(t, err)
}
