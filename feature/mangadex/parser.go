package mangadex

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"time"

	"chapter-sync/core/reconcile"
	"chapter-sync/core/utils"
)

// apiManga is the manga document returned with its chapter feed.
type apiManga struct {
	Manga   mangaDTO              `json:"manga"`
	Chapter map[string]chapterDTO `json:"chapter"`
}

type mangaDTO struct {
	Title       string `json:"title"`
	Status      int    `json:"status"`
	LastChapter string `json:"last_chapter"`
}

type chapterDTO struct {
	Volume     string  `json:"volume"`
	Chapter    string  `json:"chapter"`
	Title      string  `json:"title"`
	LangCode   string  `json:"lang_code"`
	GroupName  *string `json:"group_name"`
	GroupName2 *string `json:"group_name_2"`
	GroupName3 *string `json:"group_name_3"`
	Timestamp  int64   `json:"timestamp"`
}

// Feed is a parsed manga document.
type Feed struct {
	Title    string
	Status   reconcile.Status
	Chapters []reconcile.RemoteChapter
}

// Parser turns MangaDex manga documents into remote chapters.
type Parser struct {
	languages map[string]struct{}
	now       func() time.Time
}

// NewParser creates a parser keeping chapters in the given languages.
func NewParser(languages []string, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	set := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		set[strings.TrimSpace(l)] = struct{}{}
	}
	return &Parser{languages: set, now: now}
}

// Parse decodes a manga document. Chapters in other languages and chapters scheduled
// for a future release are skipped. The result is ordered newest first.
func (p *Parser) Parse(r io.Reader) (*Feed, error) {
	var doc apiManga
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode manga document: %w", err)
	}

	feed := &Feed{
		Title:  cleanString(doc.Manga.Title),
		Status: mapStatus(doc.Manga.Status),
	}
	if len(doc.Chapter) == 0 {
		return feed, nil
	}

	now := p.now()
	type entry struct {
		id string
		ch chapterDTO
	}
	entries := make([]entry, 0, len(doc.Chapter))
	for id, ch := range doc.Chapter {
		if _, ok := p.languages[ch.LangCode]; !ok {
			continue
		}
		if time.Unix(ch.Timestamp, 0).After(now) {
			continue
		}
		entries = append(entries, entry{id: id, ch: ch})
	}

	// Object keys carry no order; newest first, ties by id.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ch.Timestamp != entries[j].ch.Timestamp {
			return entries[i].ch.Timestamp > entries[j].ch.Timestamp
		}
		return entries[i].id > entries[j].id
	})

	feed.Chapters = make([]reconcile.RemoteChapter, 0, len(entries))
	for _, e := range entries {
		feed.Chapters = append(feed.Chapters, mapChapter(e.id, e.ch, doc.Manga, len(doc.Chapter)))
	}
	return feed, nil
}

func mapChapter(id string, ch chapterDTO, manga mangaDTO, total int) reconcile.RemoteChapter {
	rc := reconcile.RemoteChapter{
		URL:             ChapterURL(id),
		SourceChapterID: id,
		Language:        ch.LangCode,
		ChapterNumber:   reconcile.UnknownNumber,
		UploadedAt:      time.Unix(ch.Timestamp, 0).UTC(),
	}

	var name []string
	if v := strings.TrimSpace(ch.Volume); v != "" {
		rc.VolumeLabel = "Vol." + v
		name = append(name, rc.VolumeLabel)
		if n, ok := utils.ParseInt(v); ok {
			rc.VolumeNumber = &n
		}
	}
	if c := strings.TrimSpace(ch.Chapter); c != "" {
		rc.ChapterLabel = "Ch." + c
		name = append(name, rc.ChapterLabel)
		if f, ok := utils.ParseFloat(c); ok && f >= 0 {
			rc.ChapterNumber = f
		}
	}
	if t := strings.TrimSpace(ch.Title); t != "" {
		if len(name) > 0 {
			name = append(name, "-")
		}
		name = append(name, t)
		rc.Title = cleanString(t)
	}
	if len(name) == 0 {
		name = append(name, "Oneshot")
	}
	if isFinal(ch, manga, total) {
		name = append(name, "[END]")
	}
	rc.Name = cleanString(strings.Join(name, " "))
	rc.Scanlator = cleanString(scanlators(ch.GroupName, ch.GroupName2, ch.GroupName3))

	return rc
}

// isFinal reports whether a chapter of a completed or cancelled series is its last one.
func isFinal(ch chapterDTO, manga mangaDTO, total int) bool {
	status := mapStatus(manga.Status)
	if status != reconcile.StatusCompleted && status != reconcile.StatusCancelled {
		return false
	}
	final := strings.TrimSpace(manga.LastChapter)
	if isOneShot(ch, final) && total == 1 {
		return true
	}
	if final == "" || strings.TrimSpace(ch.Chapter) != final {
		return false
	}
	n, ok := utils.ParseInt(final)
	return !ok || n != 0
}

func isOneShot(ch chapterDTO, final string) bool {
	c := strings.TrimSpace(ch.Chapter)
	if c != "" && c != "0" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(ch.Title), "oneshot") || final == "" || final == "0"
}

// scanlators joins the distinct group names in order.
func scanlators(groups ...*string) string {
	seen := make(map[string]struct{}, len(groups))
	var names []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		name := strings.TrimSpace(*g)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return strings.Join(names, " & ")
}

func mapStatus(s int) reconcile.Status {
	switch s {
	case 1:
		return reconcile.StatusOngoing
	case 2:
		return reconcile.StatusCompleted
	case 3:
		return reconcile.StatusCancelled
	case 4:
		return reconcile.StatusHiatus
	default:
		return reconcile.StatusUnknown
	}
}

// cleanString unescapes HTML entities left in API strings.
func cleanString(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// ChapterURL returns the source locator of a chapter id.
func ChapterURL(id string) string {
	return "/chapter/" + id
}

// MangaID extracts the MangaDex id from a manga URL such as "/manga/1234".
func MangaID(url string) string {
	return reconcile.ChapterIDFromURL(url)
}
