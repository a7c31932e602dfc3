package checks

import (
	"context"
	"errors"
	"testing"

	"chapter-sync/core/reconcile"
	"chapter-sync/core/storage/mocks"
	"chapter-sync/feature/downloads"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLibrary struct {
	manga    []reconcile.Manga
	chapters map[int64][]reconcile.Chapter
	err      error
}

func (l fakeLibrary) ListManga(context.Context) ([]reconcile.Manga, error) {
	return l.manga, l.err
}

func (l fakeLibrary) Chapters(_ context.Context, mangaID int64) ([]reconcile.Chapter, error) {
	return l.chapters[mangaID], nil
}

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func withPrefix(prefix string) any {
	return mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == prefix
	})
}

const mangaDir = "mangadex/Test Manga/"

var lib = fakeLibrary{
	manga: []reconcile.Manga{{ID: 1, Title: "Test Manga", Source: "mangadex"}},
	chapters: map[int64][]reconcile.Chapter{
		1: {
			{ID: 10, MangaID: 1, Name: "Ch.1", SourceChapterID: "abc"},
			{ID: 11, MangaID: 1, Name: "Ch.2", SourceChapterID: "def"},
			{ID: 12, MangaID: 1, Name: "Ch.3", Scanlator: "Merged", Origin: reconcile.OriginMerged},
		},
	},
}

func TestCheckDownloads(t *testing.T) {
	t.Run("Orphans", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "downloads", withPrefix(mangaDir)).Return(objects(
			mangaDir+"Ch.1 - abc/",
			mangaDir+"Ch.2/",
			mangaDir+"Merged_Ch.3/",
			mangaDir+"Ch.4 - zzz/",
			mangaDir+"cover.jpg",
		))

		report, err := CheckDownloads(context.Background(), client, "downloads", downloads.NewLayout(""), lib)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Manga)
		assert.Equal(t, 4, report.Directories)
		assert.Equal(t, []string{mangaDir + "Ch.4 - zzz/"}, report.Orphans)
	})

	t.Run("Prefix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "downloads", withPrefix("library/"+mangaDir)).
			Return(objects("library/" + mangaDir + "Ch.1 - abc/"))

		report, err := CheckDownloads(context.Background(), client, "downloads", downloads.NewLayout("/library/"), lib)
		require.NoError(t, err)
		assert.Empty(t, report.Orphans)
		client.AssertExpectations(t)
	})

	t.Run("List Error", func(t *testing.T) {
		client := new(mocks.Client)
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: errors.New("access denied")}
		close(ch)
		client.On("ListObjects", mock.Anything, "downloads", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		_, err := CheckDownloads(context.Background(), client, "downloads", downloads.NewLayout(""), lib)
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("Library Error", func(t *testing.T) {
		_, err := CheckDownloads(context.Background(), new(mocks.Client), "downloads", downloads.NewLayout(""),
			fakeLibrary{err: errors.New("db down")})
		assert.ErrorContains(t, err, "failed to list manga")
	})
}

func TestFixDownloads(t *testing.T) {
	orphan := mangaDir + "Ch.4 - zzz/"

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "downloads", withPrefix(orphan)).
		Return(objects(orphan+"001.jpg", orphan+"002.jpg"))
	client.On("RemoveObjects", mock.Anything, "downloads", mock.Anything, mock.Anything).Return(nil)

	removed, err := FixDownloads(context.Background(), client, "downloads", zap.NewNop(), []string{orphan})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{orphan + "001.jpg", orphan + "002.jpg"}, client.Removed)
}
