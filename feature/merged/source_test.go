package merged

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chapter-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seriesPage = `<html><body>
<ul class="row-content-chapter">
  <li><a href="/series/test/chapter-3">Vol.1 Chapter 3: Storm</a><span class="chapter-time" title="Mar 05,2024 10:30">5 days ago</span></li>
  <li><a href="https://cdn.example/series/test/chapter-2">Chapter 2</a><span class="chapter-time">Feb 01,2024 08:00</span></li>
  <li><span>Announcement</span></li>
  <li><a href="/series/test/extra">Special</a></li>
</ul>
</body></html>`

func testConfig() Config {
	return Config{
		UserAgent:         "test-agent",
		TimeoutSeconds:    5,
		RequestsPerSecond: 1000,
		ChapterSelector:   ".row-content-chapter li",
		DateSelector:      ".chapter-time",
		DateLayout:        "Jan 02,2006 15:04",
		Scanlator:         "Merged",
		Language:          "en",
	}
}

func TestSource_Parse(t *testing.T) {
	s := NewSource(testConfig(), zap.NewNop())
	base, _ := url.Parse("https://merged.example/series/test")

	chapters, err := s.Parse(strings.NewReader(seriesPage), base)
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	first := chapters[0]
	assert.Equal(t, "https://merged.example/series/test/chapter-3", first.URL)
	assert.Equal(t, "Vol.1 Chapter 3: Storm", first.Name)
	assert.Equal(t, 3.0, first.ChapterNumber)
	require.NotNil(t, first.VolumeNumber)
	assert.Equal(t, 1, *first.VolumeNumber)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), first.UploadedAt)
	assert.Equal(t, "Merged", first.Scanlator)
	assert.Equal(t, "en", first.Language)

	second := chapters[1]
	assert.Equal(t, "https://cdn.example/series/test/chapter-2", second.URL)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), second.UploadedAt)

	extra := chapters[2]
	assert.Equal(t, reconcile.UnknownNumber, extra.ChapterNumber)
	assert.True(t, extra.UploadedAt.IsZero())
}

func TestSource_FetchChapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/test" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(seriesPage))
	}))
	defer srv.Close()

	s := NewSource(testConfig(), zap.NewNop())

	t.Run("Merged manga", func(t *testing.T) {
		chapters, err := s.FetchChapters(context.Background(), reconcile.Manga{ID: 1, MergedURL: srv.URL + "/series/test"})
		require.NoError(t, err)
		require.Len(t, chapters, 3)
		assert.Equal(t, srv.URL+"/series/test/chapter-3", chapters[0].URL)
	})

	t.Run("Not merged", func(t *testing.T) {
		chapters, err := s.FetchChapters(context.Background(), reconcile.Manga{ID: 1})
		assert.NoError(t, err)
		assert.Nil(t, chapters)
	})

	t.Run("Missing page", func(t *testing.T) {
		_, err := s.FetchChapters(context.Background(), reconcile.Manga{ID: 1, MergedURL: srv.URL + "/series/gone"})
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	assert.Equal(t, SourceName, s.Name())
}
