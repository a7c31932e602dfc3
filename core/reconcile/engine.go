package reconcile

import (
	"sort"
	"time"
)

// DefaultNoVolumeLanguage is the language whose series are numbered without volumes.
const DefaultNoVolumeLanguage = "jp"

// Reconciler computes the chapter changes for a manga. It holds no mutable state and is
// safe for concurrent use across manga.
type Reconciler struct {
	noVolumeLanguage string
	now              func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNoVolumeLanguage sets the language treated as single-volume numbering when
// interleaving merged chapters.
func WithNoVolumeLanguage(lang string) Option {
	return func(r *Reconciler) {
		r.noVolumeLanguage = lang
	}
}

// WithClock overrides the clock used to stamp inserted chapters.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		noVolumeLanguage: DefaultNoVolumeLanguage,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile diffs the stored chapters of a manga against freshly fetched remote lists.
// merged is ignored unless the manga has a merged-source linkage.
// Inputs are not modified.
func (r *Reconciler) Reconcile(stored []Chapter, primary, merged []RemoteChapter, manga Manga) *Result {
	res := &Result{MangaID: manga.ID}

	chapters := r.combine(primary, merged, manga, res)
	res.Summary.Remote = len(chapters)

	// Index stored chapters. The first row per identity wins; later rows are redundant.
	index := make(map[IdentityKey]int, len(stored))
	redundantRead := make(map[IdentityKey]bool)
	var redundant []Chapter
	for i, c := range stored {
		k := c.Identity()
		if _, dup := index[k]; dup {
			redundant = append(redundant, c)
			redundantRead[k] = redundantRead[k] || c.Read
			continue
		}
		index[k] = i
	}

	// Identity-keyed diff.
	var toInsert []Chapter
	matched := make(map[int]struct{}, len(stored))
	for i, c := range chapters {
		k := c.Identity()
		j, ok := index[k]
		if !ok {
			toInsert = append(toInsert, c)
			continue
		}
		matched[j] = struct{}{}
		old := stored[j]

		current := old
		current.SourceOrder = c.SourceOrder
		if metadataDiffers(old, c) || (redundantRead[k] && !old.Read) {
			current = old.WithMetadataFrom(c)
			current.Read = old.Read || redundantRead[k]
			res.ToUpdate = append(res.ToUpdate, current)
		}
		if old.SourceOrder != c.SourceOrder {
			res.Reordered = append(res.Reordered, current)
		}
		chapters[i] = current
	}

	var candidates []Chapter
	for i, c := range stored {
		if index[c.Identity()] != i {
			continue
		}
		if _, ok := matched[i]; !ok {
			candidates = append(candidates, c)
		}
	}

	// Re-add handling: a deleted number that reappears is a replacement, not a delete+insert.
	deletedNumbers := make(map[float64][]int)
	deletedRead := make(map[float64]struct{})
	for j, c := range candidates {
		if !c.RecognizedNumber() {
			continue
		}
		if c.Read {
			deletedRead[c.ChapterNumber] = struct{}{}
			// Read rows are consumed first so their progress survives.
			deletedNumbers[c.ChapterNumber] = append([]int{j}, deletedNumbers[c.ChapterNumber]...)
		} else {
			deletedNumbers[c.ChapterNumber] = append(deletedNumbers[c.ChapterNumber], j)
		}
	}

	consumed := make([]bool, len(candidates))
	inserts := make([]Chapter, 0, len(toInsert))
	for _, c := range toInsert {
		if c.RecognizedNumber() {
			if _, ok := deletedRead[c.ChapterNumber]; ok {
				c.Read = true
			}
			if _, ok := deletedNumbers[c.ChapterNumber]; ok {
				if pending := deletedNumbers[c.ChapterNumber]; len(pending) > 0 {
					j := pending[0]
					deletedNumbers[c.ChapterNumber] = pending[1:]
					consumed[j] = true

					old := candidates[j]
					replacement := old.replacedBy(c)
					res.Replaced = append(res.Replaced, Replacement{Old: old, New: replacement})
					res.ToUpdate = append(res.ToUpdate, replacement)
					if old.SourceOrder != c.SourceOrder {
						res.Reordered = append(res.Reordered, replacement)
					}
					chapters[c.SourceOrder] = replacement
					continue
				}
				if res.readded == nil {
					res.readded = make(map[float64]struct{})
				}
				res.readded[c.ChapterNumber] = struct{}{}
			}
		}
		inserts = append(inserts, c)
	}

	// Sources list newest first, so fetch times decrease with the insertion index.
	now := r.now()
	for i := range inserts {
		inserts[i].FetchedAt = now.Add(-time.Duration(i) * time.Millisecond)
		chapters[inserts[i].SourceOrder] = inserts[i]
	}
	if len(inserts) > 0 {
		res.ToInsert = inserts
	}

	for j, c := range candidates {
		if !consumed[j] {
			res.ToDelete = append(res.ToDelete, c)
		}
	}
	res.ToDelete = append(res.ToDelete, redundant...)

	res.Chapters = chapters
	r.resolveLastUpdate(res, stored, manga)

	res.Summary.Inserted = len(res.ToInsert)
	res.Summary.Updated = len(res.ToUpdate) - len(res.Replaced)
	res.Summary.Deleted = len(res.ToDelete)
	res.Summary.Replaced = len(res.Replaced)
	res.Summary.Duplicates = len(res.Duplicates)
	res.Summary.Reordered = len(res.Reordered)

	return res
}

// combine builds the remote chapter list in merge order with dense SourceOrder.
// Remote chapters repeating an identity already seen are moved to res.Duplicates.
func (r *Reconciler) combine(primary, merged []RemoteChapter, manga Manga, res *Result) []Chapter {
	combined := make([]Chapter, 0, len(primary)+len(merged))
	for _, rc := range primary {
		combined = append(combined, rc.toChapter(manga.ID, OriginPrimary))
	}

	if manga.IsMerged() {
		secondary := make([]Chapter, 0, len(merged))
		for _, rc := range merged {
			secondary = append(secondary, rc.toChapter(manga.ID, OriginMerged))
		}
		singleVolume := r.noVolumeLanguage != "" && manga.Language == r.noVolumeLanguage
		combined = interleave(combined, secondary, singleVolume)
	}

	seen := make(map[IdentityKey]struct{}, len(combined))
	out := make([]Chapter, 0, len(combined))
	for _, c := range combined {
		k := c.Identity()
		if _, dup := seen[k]; dup {
			res.Duplicates = append(res.Duplicates, c)
			continue
		}
		seen[k] = struct{}{}
		c.SourceOrder = len(out)
		out = append(out, c)
	}
	return out
}

// resolveLastUpdate computes the manga last update timestamp implied by the result.
func (r *Reconciler) resolveLastUpdate(res *Result, stored []Chapter, manga Manga) {
	if res.NoOp() {
		newest := newestUpload(stored)
		if !newest.IsZero() && !newest.Equal(manga.LastUpdate) {
			res.LastUpdate = newest
			res.LastUpdateChanged = true
		}
		return
	}

	newest := newestUpload(res.Chapters)
	if newest.IsZero() {
		if len(res.ToInsert) == 0 {
			return
		}
		newest = r.now()
	}
	if !newest.Equal(manga.LastUpdate) {
		res.LastUpdate = newest
		res.LastUpdateChanged = true
	}
}

func newestUpload(chapters []Chapter) time.Time {
	var newest time.Time
	for _, c := range chapters {
		if c.UploadedAt.After(newest) {
			newest = c.UploadedAt
		}
	}
	return newest
}

// NewChapters returns the inserted chapters worth reporting as new, ordered by number.
// Re-added chapters, which replace a number the library already had, are left out.
func (r *Result) NewChapters() []Chapter {
	out := make([]Chapter, 0, len(r.ToInsert))
	for _, c := range r.ToInsert {
		if _, readded := r.readded[c.ChapterNumber]; readded && c.RecognizedNumber() {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChapterNumber < out[j].ChapterNumber
	})
	return out
}
