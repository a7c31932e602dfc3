package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uploadBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func newTestReconciler() *Reconciler {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func testManga() Manga {
	return Manga{ID: 1, Title: "Test", Source: "mangadex", Language: "en"}
}

func vol(n int) *int {
	return &n
}

func uploadTime(num float64) time.Time {
	return uploadBase.Add(time.Duration(num * float64(time.Hour)))
}

// remote builds a primary chapter whose upload time grows with its number.
func remote(id string, num float64, volume *int) RemoteChapter {
	return RemoteChapter{
		URL:             "/chapter/" + id,
		SourceChapterID: id,
		Name:            fmt.Sprintf("Ch.%v", num),
		ChapterLabel:    fmt.Sprintf("%v", num),
		Language:        "en",
		ChapterNumber:   num,
		VolumeNumber:    volume,
		UploadedAt:      uploadTime(num),
	}
}

// mergedRemote builds a merged-source chapter identified by URL.
func mergedRemote(path string, num float64, volume *int) RemoteChapter {
	return RemoteChapter{
		URL:           "https://merged.example/" + path,
		Name:          fmt.Sprintf("Chapter %v", num),
		Language:      "en",
		ChapterNumber: num,
		VolumeNumber:  volume,
		UploadedAt:    uploadTime(num),
	}
}

// storedChapter converts a remote chapter into a persisted row.
func storedChapter(id int64, rc RemoteChapter, origin Origin, order int) Chapter {
	c := rc.toChapter(1, origin)
	c.ID = id
	c.SourceOrder = order
	c.FetchedAt = fixedNow.Add(-24 * time.Hour)
	return c
}

func assertDense(t *testing.T, chapters []Chapter) {
	t.Helper()
	for i, c := range chapters {
		assert.Equal(t, i, c.SourceOrder, "chapter %q", c.Name)
	}
}

func TestReconcile_InsertsNewChapters(t *testing.T) {
	primary := []RemoteChapter{remote("c3", 3, nil), remote("c2", 2, nil), remote("c1", 1, nil)}

	res := newTestReconciler().Reconcile(nil, primary, nil, testManga())

	require.Len(t, res.ToInsert, 3)
	assert.Empty(t, res.ToUpdate)
	assert.Empty(t, res.ToDelete)

	// Fetch times decrease with the insertion index.
	assert.Equal(t, fixedNow, res.ToInsert[0].FetchedAt)
	assert.Equal(t, fixedNow.Add(-time.Millisecond), res.ToInsert[1].FetchedAt)
	assert.Equal(t, fixedNow.Add(-2*time.Millisecond), res.ToInsert[2].FetchedAt)

	assertDense(t, res.Chapters)
	assert.True(t, res.LastUpdateChanged)
	assert.Equal(t, uploadTime(3), res.LastUpdate)
	assert.Equal(t, 3, res.Summary.Inserted)
	assert.Equal(t, 3, res.Summary.Remote)

	news := res.NewChapters()
	require.Len(t, news, 3)
	assert.Equal(t, 1.0, news[0].ChapterNumber)
	assert.Equal(t, 3.0, news[2].ChapterNumber)
}

func TestReconcile_IdentityStability(t *testing.T) {
	store := newMemoryStore()
	manga := testManga()
	r := newTestReconciler()
	primary := []RemoteChapter{remote("c3", 3, vol(1)), remote("c2", 2, vol(1)), remote("c1", 1, nil)}

	_, _, err := ReconcileAndApply(context.Background(), r, store, manga, primary, nil, ApplyOptions{})
	require.NoError(t, err)
	manga.LastUpdate = store.lastUpdate[manga.ID]

	stored, err := store.Chapters(context.Background(), manga.ID)
	require.NoError(t, err)

	res := r.Reconcile(stored, primary, nil, manga)

	assert.True(t, res.NoOp())
	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.ToUpdate)
	assert.Empty(t, res.ToDelete)
	assert.Empty(t, res.Reordered)
	assert.False(t, res.LastUpdateChanged)
}

func TestReconcile_SubMillisecondUploadTimes(t *testing.T) {
	rc := remote("c1", 1, nil)
	rc.UploadedAt = time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	want := time.Date(2024, 1, 1, 0, 0, 0, 123000000, time.UTC)

	res := newTestReconciler().Reconcile(nil, []RemoteChapter{rc}, nil, testManga())
	require.Len(t, res.ToInsert, 1)
	assert.Equal(t, want, res.ToInsert[0].UploadedAt)
	assert.Equal(t, want, res.LastUpdate)

	stored := []Chapter{storedChapter(1, rc, OriginPrimary, 0)}
	manga := testManga()
	manga.LastUpdate = want

	res = newTestReconciler().Reconcile(stored, []RemoteChapter{rc}, nil, manga)
	assert.True(t, res.NoOp())
	assert.False(t, res.LastUpdateChanged)
}

func TestReconcile_UpdatesMetadataPreservingProgress(t *testing.T) {
	old := storedChapter(7, remote("c1", 1, nil), OriginPrimary, 0)
	old.Read = true
	old.LastPageRead = 12

	incoming := remote("c1", 1, nil)
	incoming.Title = "The Beginning"
	incoming.Scanlator = "Group A"

	res := newTestReconciler().Reconcile([]Chapter{old}, []RemoteChapter{incoming}, nil, testManga())

	require.Len(t, res.ToUpdate, 1)
	updated := res.ToUpdate[0]
	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, "The Beginning", updated.Title)
	assert.Equal(t, "Group A", updated.Scanlator)
	assert.True(t, updated.Read)
	assert.Equal(t, 12, updated.LastPageRead)
	assert.Equal(t, old.FetchedAt, updated.FetchedAt)
	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.ToDelete)
	assert.Equal(t, 1, res.Summary.Updated)

	// The stored input is left untouched.
	assert.Empty(t, old.Title)
}

func TestReconcile_DeletesMissingChapters(t *testing.T) {
	stored := []Chapter{
		storedChapter(1, remote("c2", 2, nil), OriginPrimary, 0),
		storedChapter(2, remote("c1", 1, nil), OriginPrimary, 1),
	}

	res := newTestReconciler().Reconcile(stored, []RemoteChapter{remote("c2", 2, nil)}, nil, testManga())

	require.Len(t, res.ToDelete, 1)
	assert.Equal(t, int64(2), res.ToDelete[0].ID)
	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.Replaced)
}

func TestReconcile_ReadStateMonotonic(t *testing.T) {
	read := storedChapter(1, remote("c2", 2, nil), OriginPrimary, 0)
	read.Read = true
	unread := storedChapter(2, remote("c1", 1, nil), OriginPrimary, 1)

	changed := remote("c2", 2, nil)
	changed.Name = "Ch.2 (fixed)"

	res := newTestReconciler().Reconcile([]Chapter{read, unread},
		[]RemoteChapter{remote("c3", 3, nil), changed, remote("c1", 1, nil)}, nil, testManga())

	for _, c := range res.Chapters {
		if c.ID == read.ID {
			assert.True(t, c.Read)
		}
	}
	for _, c := range res.ToUpdate {
		if c.ID == read.ID {
			assert.True(t, c.Read)
		}
	}
}

func TestReconcile_ReplacementTransparency(t *testing.T) {
	old := storedChapter(10, remote("a5", 5, nil), OriginPrimary, 0)
	old.Read = true
	old.LastPageRead = 20

	res := newTestReconciler().Reconcile([]Chapter{old}, []RemoteChapter{remote("b5", 5, nil)}, nil, testManga())

	assert.Empty(t, res.ToDelete)
	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.NewChapters())

	require.Len(t, res.Replaced, 1)
	assert.Equal(t, "a5", res.Replaced[0].Old.SourceChapterID)

	require.Len(t, res.ToUpdate, 1)
	replacement := res.ToUpdate[0]
	assert.Equal(t, int64(10), replacement.ID)
	assert.Equal(t, "b5", replacement.SourceChapterID)
	assert.Equal(t, "/chapter/b5", replacement.URL)
	assert.True(t, replacement.Read)
	assert.Equal(t, 20, replacement.LastPageRead)
	assert.Equal(t, old.FetchedAt, replacement.FetchedAt)

	require.Len(t, res.Chapters, 1)
	assert.Equal(t, int64(10), res.Chapters[0].ID)
	assert.Equal(t, 1, res.Summary.Replaced)
	assert.Equal(t, 0, res.Summary.Updated)
}

func TestReconcile_ReplacementIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	manga := testManga()
	r := newTestReconciler()

	_, _, err := ReconcileAndApply(context.Background(), r, store, manga,
		[]RemoteChapter{remote("a5", 5, nil)}, nil, ApplyOptions{})
	require.NoError(t, err)

	res, _, err := ReconcileAndApply(context.Background(), r, store, manga,
		[]RemoteChapter{remote("b5", 5, nil)}, nil, ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, res.Replaced, 1)
	manga.LastUpdate = store.lastUpdate[manga.ID]

	stored, err := store.Chapters(context.Background(), manga.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "b5", stored[0].SourceChapterID)

	again := r.Reconcile(stored, []RemoteChapter{remote("b5", 5, nil)}, nil, manga)
	assert.True(t, again.NoOp())
}

func TestReconcile_SurplusReaddIsNotNew(t *testing.T) {
	old := storedChapter(10, remote("a5", 5, nil), OriginPrimary, 0)
	old.Read = true

	primary := []RemoteChapter{remote("b5", 5, nil), remote("c5", 5, nil), remote("c4", 4, nil)}
	res := newTestReconciler().Reconcile([]Chapter{old}, primary, nil, testManga())

	require.Len(t, res.Replaced, 1)
	assert.Equal(t, "b5", res.Replaced[0].New.SourceChapterID)

	require.Len(t, res.ToInsert, 2)
	assert.Equal(t, "c5", res.ToInsert[0].SourceChapterID)
	assert.True(t, res.ToInsert[0].Read)
	assert.False(t, res.ToInsert[1].Read)

	news := res.NewChapters()
	require.Len(t, news, 1)
	assert.Equal(t, "c4", news[0].SourceChapterID)
}

func TestReconcile_UnrecognizedNumbersSkipReadd(t *testing.T) {
	old := storedChapter(10, remote("extra-a", UnknownNumber, nil), OriginPrimary, 0)
	old.Read = true

	res := newTestReconciler().Reconcile([]Chapter{old},
		[]RemoteChapter{remote("extra-b", UnknownNumber, nil)}, nil, testManga())

	require.Len(t, res.ToDelete, 1)
	require.Len(t, res.ToInsert, 1)
	assert.False(t, res.ToInsert[0].Read)
	assert.Empty(t, res.Replaced)
	assert.Len(t, res.NewChapters(), 1)
}

func TestReconcile_NoOpUpdatesLastUpdateOnly(t *testing.T) {
	primary := []RemoteChapter{remote("c2", 2, nil), remote("c1", 1, nil)}
	stored := []Chapter{
		storedChapter(1, primary[0], OriginPrimary, 0),
		storedChapter(2, primary[1], OriginPrimary, 1),
	}

	t.Run("stale timestamp", func(t *testing.T) {
		res := newTestReconciler().Reconcile(stored, primary, nil, testManga())

		assert.True(t, res.NoOp())
		assert.Empty(t, res.Reordered)
		assert.True(t, res.LastUpdateChanged)
		assert.Equal(t, uploadTime(2), res.LastUpdate)
	})

	t.Run("current timestamp", func(t *testing.T) {
		manga := testManga()
		manga.LastUpdate = uploadTime(2)

		res := newTestReconciler().Reconcile(stored, primary, nil, manga)

		assert.True(t, res.NoOp())
		assert.False(t, res.LastUpdateChanged)
	})

	t.Run("zero upload times", func(t *testing.T) {
		bare := make([]Chapter, len(stored))
		copy(bare, stored)
		bare[0].UploadedAt = time.Time{}
		bare[1].UploadedAt = time.Time{}
		remotes := []RemoteChapter{primary[0], primary[1]}
		remotes[0].UploadedAt = time.Time{}
		remotes[1].UploadedAt = time.Time{}

		res := newTestReconciler().Reconcile(bare, remotes, nil, testManga())

		assert.True(t, res.NoOp())
		assert.False(t, res.LastUpdateChanged)
	})
}

func TestReconcile_LastUpdateFallsBackToNow(t *testing.T) {
	rc := remote("c1", 1, nil)
	rc.UploadedAt = time.Time{}

	res := newTestReconciler().Reconcile(nil, []RemoteChapter{rc}, nil, testManga())

	assert.True(t, res.LastUpdateChanged)
	assert.Equal(t, fixedNow, res.LastUpdate)
}

func TestReconcile_IdentityFromURLFallback(t *testing.T) {
	legacy := storedChapter(3, remote("123", 1, nil), OriginPrimary, 0)
	legacy.SourceChapterID = ""
	legacy.URL = "/chapter/123?server=1"

	res := newTestReconciler().Reconcile([]Chapter{legacy}, []RemoteChapter{remote("123", 1, nil)}, nil, testManga())

	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.ToDelete)
	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, "123", res.ToUpdate[0].SourceChapterID)
	assert.Equal(t, int64(3), res.ToUpdate[0].ID)
}

func TestReconcile_RemoteDuplicates(t *testing.T) {
	first := remote("c1", 1, nil)
	second := remote("c1", 1, nil)
	second.Name = "Ch.1 (repost)"

	res := newTestReconciler().Reconcile(nil, []RemoteChapter{remote("c2", 2, nil), first, second}, nil, testManga())

	require.Len(t, res.Chapters, 2)
	assertDense(t, res.Chapters)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "Ch.1 (repost)", res.Duplicates[0].Name)
	assert.Len(t, res.ToInsert, 2)
	assert.Equal(t, 1, res.Summary.Duplicates)
}

func TestReconcile_StoredDuplicates(t *testing.T) {
	kept := storedChapter(1, remote("c1", 1, nil), OriginPrimary, 0)
	extra := storedChapter(2, remote("c1", 1, nil), OriginPrimary, 1)
	extra.Read = true

	res := newTestReconciler().Reconcile([]Chapter{kept, extra}, []RemoteChapter{remote("c1", 1, nil)}, nil, testManga())

	require.Len(t, res.ToDelete, 1)
	assert.Equal(t, int64(2), res.ToDelete[0].ID)

	// The read flag of the dropped duplicate moves to the kept row.
	require.Len(t, res.ToUpdate, 1)
	assert.Equal(t, int64(1), res.ToUpdate[0].ID)
	assert.True(t, res.ToUpdate[0].Read)
	assert.Empty(t, res.ToInsert)
	assert.Empty(t, res.Replaced)
}

func TestReconcile_MergedSourceIgnoredWithoutLinkage(t *testing.T) {
	res := newTestReconciler().Reconcile(nil,
		[]RemoteChapter{remote("c1", 1, nil)},
		[]RemoteChapter{mergedRemote("ch-2", 2, nil)},
		testManga())

	require.Len(t, res.Chapters, 1)
	assert.Equal(t, OriginPrimary, res.Chapters[0].Origin)
}

func TestReconcile_MergedChaptersKeyedByURL(t *testing.T) {
	manga := testManga()
	manga.MergedURL = "https://merged.example/series/test"

	stored := []Chapter{
		storedChapter(1, mergedRemote("ch-4", 4, nil), OriginMerged, 0),
		storedChapter(2, remote("c3", 3, nil), OriginPrimary, 1),
	}

	res := newTestReconciler().Reconcile(stored,
		[]RemoteChapter{remote("c3", 3, nil)},
		[]RemoteChapter{mergedRemote("ch-4", 4, nil)},
		manga)

	assert.True(t, res.NoOp())
	require.Len(t, res.Chapters, 2)
	assert.Equal(t, OriginMerged, res.Chapters[0].Origin)
	assert.Equal(t, int64(1), res.Chapters[0].ID)
	assert.Empty(t, res.Reordered)
}

func TestReconcile_DenseOrdering(t *testing.T) {
	manga := testManga()
	manga.MergedURL = "https://merged.example/series/test"

	stored := []Chapter{
		storedChapter(1, remote("c1", 1, vol(1)), OriginPrimary, 5),
		storedChapter(2, remote("gone", 9, vol(3)), OriginPrimary, 0),
	}
	primary := []RemoteChapter{remote("c3", 3, vol(1)), remote("c2", 2, vol(1)), remote("c1", 1, vol(1))}
	merged := []RemoteChapter{mergedRemote("ch-5", 5, vol(2)), mergedRemote("ch-2", 2, vol(1)), mergedRemote("x", UnknownNumber, nil)}

	res := newTestReconciler().Reconcile(stored, primary, merged, manga)

	require.Len(t, res.Chapters, 4)
	assertDense(t, res.Chapters)
	require.Len(t, res.Reordered, 1)
	assert.Equal(t, int64(1), res.Reordered[0].ID)
	assert.Equal(t, 3, res.Reordered[0].SourceOrder)
}
