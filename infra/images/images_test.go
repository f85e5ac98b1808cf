package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWiki(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/w/rest.php/v1/search/title", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Query().Get("q") {
		case "Toyota Camry":
			_, _ = w.Write([]byte(`{"pages":[{"title":"Toyota Camry"}]}`))
		case "Isuzu NPR":
			_, _ = w.Write([]byte(`{"pages":[{"title":"Isuzu Elf"}]}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"pages":[]}`))
		}
	})
	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/api/rest_v1/page/summary/") {
		case "Toyota Camry":
			_, _ = w.Write([]byte(`{"thumbnail":{"source":"https://upload.example/camry.jpg"}}`))
		case "Isuzu Elf":
			_, _ = w.Write([]byte(`{"title":"Isuzu Elf"}`))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestThumbnail(t *testing.T) {
	var hits atomic.Int32
	srv := newWiki(t, &hits)
	c := New(Config{BaseURL: srv.URL + "/", RPS: 100, Burst: 10})
	ctx := context.Background()

	got, err := c.Thumbnail(ctx, " Toyota Camry ")
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example/camry.jpg", got)

	// cached
	got, err = c.Thumbnail(ctx, "Toyota Camry")
	require.NoError(t, err)
	assert.Equal(t, "https://upload.example/camry.jpg", got)
	assert.Equal(t, int32(1), hits.Load())

	got, err = c.Thumbnail(ctx, "Isuzu NPR")
	require.NoError(t, err)
	assert.Empty(t, got, "page without thumbnail")

	got, err = c.Thumbnail(ctx, "Unknown Make")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.Thumbnail(ctx, "broken")
	require.NoError(t, err)
	assert.Empty(t, got, "server errors count as a miss")

	got, err = c.Thumbnail(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestThumbnailCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := newWiki(t, &hits)
	c := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Thumbnail(ctx, "Toyota Camry")
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}
