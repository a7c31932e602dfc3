package downloads

import (
	"path"
	"strings"

	"chapter-sync/core/reconcile"
)

const maxFilenameLength = 240

// BuildValidFilename mutates name into a name safe for every filesystem and object store.
func BuildValidFilename(name string) string {
	name = strings.Trim(name, ". ")
	if name == "" {
		return "(invalid)"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isInvalidFilenameRune(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}

	runes := []rune(b.String())
	if len(runes) > maxFilenameLength {
		runes = runes[:maxFilenameLength]
	}
	return string(runes)
}

func isInvalidFilenameRune(r rune) bool {
	if r <= 0x1f || r == 0x7f {
		return true
	}
	return strings.ContainsRune(`"*/:<>?\|`, r)
}

// MangaDirName returns the directory name of a manga.
func MangaDirName(manga reconcile.Manga) string {
	return BuildValidFilename(manga.Title)
}

// SourceDirName returns the directory name of a chapter source.
func SourceDirName(source string) string {
	return BuildValidFilename(source)
}

// ChapterDirName returns the directory a chapter is downloaded to.
// Primary chapters are suffixed with their chapter id, merged chapters prefixed with the scanlator.
func ChapterDirName(chapter reconcile.Chapter) string {
	if chapter.Origin == reconcile.OriginMerged {
		return BuildValidFilename(chapter.Scanlator + "_" + chapter.Name)
	}

	id := strings.TrimSpace(chapter.SourceChapterID)
	if id == "" {
		id = reconcile.ChapterIDFromURL(chapter.URL)
	}
	return BuildValidFilename(chapter.Name + " - " + id)
}

// LegacyChapterDirName returns the directory name used before chapter ids were part of it.
func LegacyChapterDirName(chapter reconcile.Chapter) string {
	return BuildValidFilename(chapter.Name)
}

// ValidChapterDirNames returns every directory name a chapter may have been downloaded to.
func ValidChapterDirNames(chapter reconcile.Chapter) []string {
	current := ChapterDirName(chapter)
	legacy := LegacyChapterDirName(chapter)
	if current == legacy {
		return []string{current}
	}
	return []string{current, legacy}
}

// Layout builds object keys in the form <prefix><source>/<manga>/<chapter>/.
type Layout struct {
	prefix string
}

// NewLayout creates a layout rooted at prefix.
func NewLayout(prefix string) Layout {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return Layout{prefix: prefix}
}

// MangaDir returns the key prefix holding every downloaded chapter of manga.
func (l Layout) MangaDir(manga reconcile.Manga) string {
	return l.prefix + path.Join(SourceDirName(manga.Source), MangaDirName(manga)) + "/"
}

// ChapterDirs returns the key prefixes a chapter may be stored under, current name first.
func (l Layout) ChapterDirs(manga reconcile.Manga, chapter reconcile.Chapter) []string {
	base := l.MangaDir(manga)
	names := ValidChapterDirNames(chapter)
	dirs := make([]string, len(names))
	for i, name := range names {
		dirs[i] = base + name + "/"
	}
	return dirs
}
