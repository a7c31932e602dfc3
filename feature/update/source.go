package update

import (
	"context"
	"time"

	"chapter-sync/core/reconcile"
)

// Source fetches the remote chapter list of a manga.
type Source interface {
	Name() string
	FetchChapters(ctx context.Context, manga reconcile.Manga) ([]reconcile.RemoteChapter, error)
}

// DetailsSource is a Source that also reports the current title and status of a manga.
type DetailsSource interface {
	Source
	FetchDetails(ctx context.Context, manga reconcile.Manga) (reconcile.Manga, []reconcile.RemoteChapter, error)
}

// Library is the persistent manga library updated by the scheduler.
type Library interface {
	reconcile.Store

	// FavoriteManga returns every manga in the library.
	FavoriteManga(ctx context.Context) ([]reconcile.Manga, error)

	// UpdateDetails persists the title and status of a manga.
	UpdateDetails(ctx context.Context, mangaID int64, title string, status reconcile.Status) error
}

// Downloader manages downloaded chapters.
type Downloader interface {
	IsDownloaded(ctx context.Context, manga reconcile.Manga, chapter reconcile.Chapter) (bool, error)
	DeleteChapters(ctx context.Context, manga reconcile.Manga, chapters []reconcile.Chapter) (int, error)
	Enqueue(manga reconcile.Manga, chapters []reconcile.Chapter) int
}

// EventType identifies a scheduler event.
type EventType string

const (
	EventCampaignStarted  EventType = "campaign_started"
	EventMangaUpdated     EventType = "manga_updated"
	EventMangaUnchanged   EventType = "manga_unchanged"
	EventMangaFailed      EventType = "manga_failed"
	EventCampaignFinished EventType = "campaign_finished"
)

// Event reports the progress of an update campaign.
type Event struct {
	Type    EventType `json:"type"`
	MangaID int64     `json:"manga_id,omitempty"`
	Title   string    `json:"title,omitempty"`

	// NewChapters holds the chapters reported as new, sorted by number.
	NewChapters []reconcile.Chapter `json:"new_chapters,omitempty"`
	Summary     reconcile.Summary   `json:"summary"`

	Error string `json:"error,omitempty"`

	Done  int       `json:"done"`
	Total int       `json:"total"`
	At    time.Time `json:"at"`
}

// Outcome is the result of updating one manga.
type Outcome struct {
	Result   *reconcile.Result
	Executed int

	// Skipped is set when the sources returned no chapter at all.
	Skipped bool

	NewChapters      []reconcile.Chapter
	QueuedDownloads  int
	RemovedDownloads int
}

// Changed reports whether chapters were added or removed.
func (o *Outcome) Changed() bool {
	if o == nil || o.Result == nil {
		return false
	}
	return len(o.Result.ToInsert)+len(o.Result.ToDelete) > 0
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running bool `json:"running"`
	Total   int  `json:"total"`
	Done    int  `json:"done"`
	Pending int  `json:"pending"`
}
