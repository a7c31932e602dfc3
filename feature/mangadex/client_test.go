package mangadex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chapter-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:           srv.URL + "/",
		Languages:         []string{"en"},
		RequestsPerSecond: 1000,
		TimeoutSeconds:    5,
		UserAgent:         "test-agent",
	}, zap.NewNop())
}

func TestClient_FetchChapters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manga/42", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completedFixture))
	})

	chapters, err := client.FetchChapters(context.Background(), reconcile.Manga{ID: 1, URL: "/manga/42"})
	require.NoError(t, err)

	// The fixture's future chapter is dated 2030.
	require.Len(t, chapters, 3)
	assert.Equal(t, "103", chapters[0].SourceChapterID)
	assert.Equal(t, SourceName, client.Name())
}

func TestClient_FetchDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completedFixture))
	})

	manga := reconcile.Manga{ID: 1, Title: "Old title", URL: "/manga/42", Status: reconcile.StatusOngoing}
	details, chapters, err := client.FetchDetails(context.Background(), manga)
	require.NoError(t, err)

	assert.Equal(t, "Test & Co", details.Title)
	assert.Equal(t, reconcile.StatusCompleted, details.Status)
	assert.Equal(t, int64(1), details.ID)
	assert.Len(t, chapters, 3)
}

func TestClient_Errors(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.FetchFeed(context.Background(), "42")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.FetchFeed(context.Background(), "42")
		assert.ErrorContains(t, err, "unexpected status 502")
	})

	t.Run("Malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})
		_, err := client.FetchFeed(context.Background(), "42")
		assert.ErrorContains(t, err, "failed to parse manga 42")
	})

	t.Run("Missing id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := client.FetchChapters(context.Background(), reconcile.Manga{ID: 1})
		assert.Error(t, err)
	})

	t.Run("Cancelled", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.FetchFeed(ctx, "42")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
