package reconcile

import (
	"context"
	"time"
)

// UnknownNumber marks a chapter whose number could not be recognised.
const UnknownNumber = -1.0

// Origin identifies which provider produced a chapter.
type Origin int

const (
	// OriginPrimary chapters come from the primary source and are keyed by SourceChapterID.
	OriginPrimary Origin = iota
	// OriginMerged chapters come from the merged (secondary) source and are keyed by URL.
	OriginMerged
)

// String returns the origin label used in logs and JSON.
func (o Origin) String() string {
	if o == OriginMerged {
		return "merged"
	}
	return "primary"
}

// Chapter is a chapter as stored by the library, or an incoming chapter being reconciled.
type Chapter struct {
	// ID is the database id. Zero for chapters not yet persisted.
	ID int64 `json:"id"`

	// MangaID is the owning manga.
	MangaID int64 `json:"manga_id"`

	// URL is the source locator. Identity key for merged chapters.
	URL string `json:"url"`

	// SourceChapterID is the primary source identifier. Identity key for primary chapters.
	SourceChapterID string `json:"source_chapter_id"`

	Name         string `json:"name"`
	Scanlator    string `json:"scanlator"`
	VolumeLabel  string `json:"volume_label"`
	ChapterLabel string `json:"chapter_label"`
	Title        string `json:"title"`
	Language     string `json:"language"`

	// ChapterNumber is UnknownNumber when the number could not be recognised.
	ChapterNumber float64 `json:"chapter_number"`

	// VolumeNumber is nil when the chapter carries no volume.
	VolumeNumber *int `json:"volume_number,omitempty"`

	// UploadedAt is the source-reported publish time.
	UploadedAt time.Time `json:"uploaded_at"`

	// FetchedAt is the time the chapter was first observed. Assigned on insert only.
	FetchedAt time.Time `json:"fetched_at"`

	Read         bool `json:"read"`
	LastPageRead int  `json:"last_page_read"`

	// SourceOrder is the position in the latest merge order.
	SourceOrder int `json:"source_order"`

	Origin Origin `json:"origin"`
}

// RecognizedNumber reports whether the chapter number could be parsed.
func (c Chapter) RecognizedNumber() bool {
	return c.ChapterNumber >= 0
}

// RemoteChapter is a chapter as returned by a provider fetch.
type RemoteChapter struct {
	URL             string    `json:"url"`
	SourceChapterID string    `json:"source_chapter_id"`
	Name            string    `json:"name"`
	Scanlator       string    `json:"scanlator"`
	VolumeLabel     string    `json:"volume_label"`
	ChapterLabel    string    `json:"chapter_label"`
	Title           string    `json:"title"`
	Language        string    `json:"language"`
	ChapterNumber   float64   `json:"chapter_number"`
	VolumeNumber    *int      `json:"volume_number,omitempty"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// toChapter converts a fetched chapter into an unsaved Chapter of the given origin.
// UploadedAt is truncated to the millisecond precision the library stores.
func (r RemoteChapter) toChapter(mangaID int64, origin Origin) Chapter {
	return Chapter{
		MangaID:         mangaID,
		URL:             r.URL,
		SourceChapterID: r.SourceChapterID,
		Name:            r.Name,
		Scanlator:       r.Scanlator,
		VolumeLabel:     r.VolumeLabel,
		ChapterLabel:    r.ChapterLabel,
		Title:           r.Title,
		Language:        r.Language,
		ChapterNumber:   r.ChapterNumber,
		VolumeNumber:    r.VolumeNumber,
		UploadedAt:      r.UploadedAt.Truncate(time.Millisecond),
		Origin:          origin,
	}
}

// Status is the publication status of a manga.
type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
	StatusCancelled
	StatusHiatus
)

// String returns the status label used in logs and JSON.
func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusHiatus:
		return "hiatus"
	default:
		return "unknown"
	}
}

// Manga is the library entry owning a chapter list.
type Manga struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Language string `json:"language"`

	// Source names the primary chapter provider. URL locates the manga on it.
	Source string `json:"source"`
	URL    string `json:"url"`

	Status Status `json:"status"`

	// Favorite marks library membership. Only favorites take part in update campaigns.
	Favorite bool `json:"favorite"`

	// LastUpdate is the upload time of the newest chapter known for this manga.
	LastUpdate time.Time `json:"last_update"`

	// ScanlatorFilter restricts which groups' chapters are downloaded automatically.
	ScanlatorFilter []string `json:"scanlator_filter,omitempty"`

	// MergedURL links the manga to a merged source. Empty when not merged.
	MergedURL string `json:"merged_url,omitempty"`
}

// IsMerged reports whether the manga has a merged-source linkage.
func (m Manga) IsMerged() bool {
	return m.MergedURL != ""
}

// Replacement pairs a deleted chapter with the same-numbered chapter that replaced it.
type Replacement struct {
	Old Chapter `json:"old"`
	New Chapter `json:"new"`
}

// Result is the outcome of reconciling one manga.
type Result struct {
	// MangaID is the reconciled manga.
	MangaID int64 `json:"manga_id"`

	// Chapters is the merged remote list in final order, SourceOrder 0..N-1.
	// Chapters matched to a stored row carry its ID.
	Chapters []Chapter `json:"chapters"`

	// ToInsert contains chapters not yet stored, with FetchedAt assigned.
	ToInsert []Chapter `json:"to_insert"`

	// ToUpdate contains stored chapters whose metadata changed, plus replacements.
	ToUpdate []Chapter `json:"to_update"`

	// ToDelete contains stored chapters absent from the remote list.
	ToDelete []Chapter `json:"to_delete"`

	// Replaced lists re-added chapters persisted as updates of the deleted row.
	Replaced []Replacement `json:"replaced"`

	// Duplicates lists remote chapters dropped because their identity was already seen.
	Duplicates []Chapter `json:"duplicates"`

	// Reordered lists stored chapters whose SourceOrder changed.
	Reordered []Chapter `json:"reordered"`

	// LastUpdate is the manga timestamp to persist when LastUpdateChanged is set.
	LastUpdate        time.Time `json:"last_update"`
	LastUpdateChanged bool      `json:"last_update_changed"`

	Summary Summary `json:"summary"`

	// readded holds chapter numbers of surplus inserts matching deleted numbers.
	readded map[float64]struct{}
}

// Summary provides aggregate counts for a Result.
type Summary struct {
	Remote     int `json:"remote"`
	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
	Deleted    int `json:"deleted"`
	Replaced   int `json:"replaced"`
	Duplicates int `json:"duplicates"`
	Reordered  int `json:"reordered"`
}

// NoOp reports whether no chapter needs to be inserted, updated or deleted.
func (r *Result) NoOp() bool {
	return len(r.ToInsert) == 0 && len(r.ToUpdate) == 0 && len(r.ToDelete) == 0
}

// Store is the persistent chapter store of the library.
type Store interface {
	// Chapters returns every stored chapter of a manga.
	Chapters(ctx context.Context, mangaID int64) ([]Chapter, error)

	// Transaction runs fn atomically. Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx groups the mutations applied for a Result inside one transaction.
type Tx interface {
	// InsertChapters persists new chapters and returns them with ids assigned.
	InsertChapters(ctx context.Context, chapters []Chapter) ([]Chapter, error)

	// UpdateChapters writes metadata of existing chapters. Read is only ever set, never cleared.
	UpdateChapters(ctx context.Context, chapters []Chapter) error

	// DeleteChapters removes chapters by id.
	DeleteChapters(ctx context.Context, chapters []Chapter) error

	// UpdateSourceOrder rewrites SourceOrder for stored chapters.
	UpdateSourceOrder(ctx context.Context, chapters []Chapter) error

	// UpdateLastUpdate sets the manga last update timestamp.
	UpdateLastUpdate(ctx context.Context, mangaID int64, at time.Time) error
}

// ApplyOptions controls how a Result is persisted.
type ApplyOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
}
