package reconcile

import "strings"

// IdentityKey matches a remote chapter to a stored one across reconciliation passes.
// Keys of different origins never compare equal.
type IdentityKey struct {
	Origin Origin
	Value  string
}

// Identity returns the identity key of the chapter.
func (c Chapter) Identity() IdentityKey {
	switch c.Origin {
	case OriginMerged:
		return IdentityKey{Origin: OriginMerged, Value: c.URL}
	default:
		id := strings.TrimSpace(c.SourceChapterID)
		if id == "" {
			id = ChapterIDFromURL(c.URL)
		}
		return IdentityKey{Origin: OriginPrimary, Value: id}
	}
}

// ChapterIDFromURL extracts the trailing path segment of a chapter URL, without query.
// "/api/chapter/1234?server=x" -> "1234".
func ChapterIDFromURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		return url[i+1:]
	}
	return url
}

// metadataDiffers reports whether any mutable metadata field of the stored chapter
// differs from the incoming one.
func metadataDiffers(stored, incoming Chapter) bool {
	return stored.Scanlator != incoming.Scanlator ||
		stored.Name != incoming.Name ||
		!stored.UploadedAt.Equal(incoming.UploadedAt) ||
		stored.ChapterNumber != incoming.ChapterNumber ||
		stored.VolumeLabel != incoming.VolumeLabel ||
		stored.Title != incoming.Title ||
		stored.ChapterLabel != incoming.ChapterLabel ||
		stored.SourceChapterID != incoming.SourceChapterID ||
		stored.Language != incoming.Language
}

// WithMetadataFrom returns a copy of the stored chapter carrying the incoming metadata.
// Database id, owning manga, progress and first-fetch time are kept from c.
func (c Chapter) WithMetadataFrom(incoming Chapter) Chapter {
	out := c
	out.Scanlator = incoming.Scanlator
	out.Name = incoming.Name
	out.VolumeLabel = incoming.VolumeLabel
	out.ChapterLabel = incoming.ChapterLabel
	out.Title = incoming.Title
	out.UploadedAt = incoming.UploadedAt
	out.ChapterNumber = incoming.ChapterNumber
	out.VolumeNumber = copyVolume(incoming.VolumeNumber)
	out.SourceChapterID = incoming.SourceChapterID
	out.Language = incoming.Language
	out.SourceOrder = incoming.SourceOrder
	return out
}

// replacedBy returns the stored chapter c rewritten as the incoming chapter that replaces it.
// Unlike WithMetadataFrom the identity fields move to the incoming chapter too.
func (c Chapter) replacedBy(incoming Chapter) Chapter {
	out := c.WithMetadataFrom(incoming)
	out.URL = incoming.URL
	out.Origin = incoming.Origin
	out.Read = c.Read || incoming.Read
	return out
}

func copyVolume(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
