package models

import (
	"time"

	"chapter-sync/core/reconcile"
)

// Manga represents the 'manga' table.
type Manga struct {
	ID              int64    `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string   `gorm:"column:title;size:512;not null"`
	Source          string   `gorm:"column:source;size:64;not null;index"`
	URL             string   `gorm:"column:url;size:512;not null"`
	Language        string   `gorm:"column:language;size:16"`
	Status          int      `gorm:"column:status;not null;default:0"`
	Favorite        bool     `gorm:"column:favorite;not null;default:false;index"`
	LastUpdate      int64    `gorm:"column:last_update;not null;default:0"` // unix millis
	ScanlatorFilter []string `gorm:"column:scanlator_filter;serializer:json"`
	MergedURL       string   `gorm:"column:merged_url;size:512"`
}

// TableName overrides the table name.
func (Manga) TableName() string {
	return "manga"
}

// Chapter represents the 'chapters' table.
type Chapter struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	MangaID         int64   `gorm:"column:manga_id;not null;index"`
	URL             string  `gorm:"column:url;size:512;not null"`
	SourceChapterID string  `gorm:"column:source_chapter_id;size:64"`
	Name            string  `gorm:"column:name;size:512;not null"`
	Scanlator       string  `gorm:"column:scanlator;size:255"`
	VolumeLabel     string  `gorm:"column:vol;size:32"`
	ChapterLabel    string  `gorm:"column:chapter_txt;size:32"`
	Title           string  `gorm:"column:chapter_title;size:512"`
	Language        string  `gorm:"column:language;size:16"`
	ChapterNumber   float64 `gorm:"column:chapter_number;not null;default:-1"`
	VolumeNumber    *int    `gorm:"column:volume_number"`
	UploadedAt      int64   `gorm:"column:date_upload;not null;default:0"` // unix millis
	FetchedAt       int64   `gorm:"column:date_fetch;not null;default:0"`  // unix millis
	Read            bool    `gorm:"column:read;not null;default:false"`
	LastPageRead    int     `gorm:"column:last_page_read;not null;default:0"`
	SourceOrder     int     `gorm:"column:source_order;not null;default:0"`
	Origin          int     `gorm:"column:origin;not null;default:0"`
}

// TableName overrides the table name.
func (Chapter) TableName() string {
	return "chapters"
}

// MangaColumns lists the columns the application reads and writes on 'manga'.
var MangaColumns = []string{
	"id", "title", "source", "url", "language", "status", "favorite",
	"last_update", "scanlator_filter", "merged_url",
}

// ChapterColumns lists the columns the application reads and writes on 'chapters'.
var ChapterColumns = []string{
	"id", "manga_id", "url", "source_chapter_id", "name", "scanlator", "vol", "chapter_txt",
	"chapter_title", "language", "chapter_number", "volume_number", "date_upload", "date_fetch",
	"read", "last_page_read", "source_order", "origin",
}

// Table names a library table and the columns the application uses on it.
type Table struct {
	Name    string
	Columns []string
}

// Tables lists every library table.
var Tables = []Table{
	{Name: Manga{}.TableName(), Columns: MangaColumns},
	{Name: Chapter{}.TableName(), Columns: ChapterColumns},
}

// ToMillis converts t to unix milliseconds. The zero time is 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis converts unix milliseconds to a UTC time. 0 is the zero time.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ToDomain converts the row to a reconcile.Manga.
func (m Manga) ToDomain() reconcile.Manga {
	return reconcile.Manga{
		ID:              m.ID,
		Title:           m.Title,
		Language:        m.Language,
		Source:          m.Source,
		URL:             m.URL,
		Status:          reconcile.Status(m.Status),
		Favorite:        m.Favorite,
		LastUpdate:      FromMillis(m.LastUpdate),
		ScanlatorFilter: m.ScanlatorFilter,
		MergedURL:       m.MergedURL,
	}
}

// MangaFromDomain converts a reconcile.Manga to a row.
func MangaFromDomain(m reconcile.Manga) Manga {
	return Manga{
		ID:              m.ID,
		Title:           m.Title,
		Source:          m.Source,
		URL:             m.URL,
		Language:        m.Language,
		Status:          int(m.Status),
		Favorite:        m.Favorite,
		LastUpdate:      ToMillis(m.LastUpdate),
		ScanlatorFilter: m.ScanlatorFilter,
		MergedURL:       m.MergedURL,
	}
}

// ToDomain converts the row to a reconcile.Chapter.
func (c Chapter) ToDomain() reconcile.Chapter {
	return reconcile.Chapter{
		ID:              c.ID,
		MangaID:         c.MangaID,
		URL:             c.URL,
		SourceChapterID: c.SourceChapterID,
		Name:            c.Name,
		Scanlator:       c.Scanlator,
		VolumeLabel:     c.VolumeLabel,
		ChapterLabel:    c.ChapterLabel,
		Title:           c.Title,
		Language:        c.Language,
		ChapterNumber:   c.ChapterNumber,
		VolumeNumber:    c.VolumeNumber,
		UploadedAt:      FromMillis(c.UploadedAt),
		FetchedAt:       FromMillis(c.FetchedAt),
		Read:            c.Read,
		LastPageRead:    c.LastPageRead,
		SourceOrder:     c.SourceOrder,
		Origin:          reconcile.Origin(c.Origin),
	}
}

// ChapterFromDomain converts a reconcile.Chapter to a row.
func ChapterFromDomain(c reconcile.Chapter) Chapter {
	return Chapter{
		ID:              c.ID,
		MangaID:         c.MangaID,
		URL:             c.URL,
		SourceChapterID: c.SourceChapterID,
		Name:            c.Name,
		Scanlator:       c.Scanlator,
		VolumeLabel:     c.VolumeLabel,
		ChapterLabel:    c.ChapterLabel,
		Title:           c.Title,
		Language:        c.Language,
		ChapterNumber:   c.ChapterNumber,
		VolumeNumber:    c.VolumeNumber,
		UploadedAt:      ToMillis(c.UploadedAt),
		FetchedAt:       ToMillis(c.FetchedAt),
		Read:            c.Read,
		LastPageRead:    c.LastPageRead,
		SourceOrder:     c.SourceOrder,
		Origin:          int(c.Origin),
	}
}

// MetadataColumns returns the columns written when a stored chapter takes new metadata.
// Read is only included when set, so a stored read flag is never cleared.
func MetadataColumns(c reconcile.Chapter) map[string]any {
	row := ChapterFromDomain(c)
	cols := map[string]any{
		"url":               row.URL,
		"source_chapter_id": row.SourceChapterID,
		"name":              row.Name,
		"scanlator":         row.Scanlator,
		"vol":               row.VolumeLabel,
		"chapter_txt":       row.ChapterLabel,
		"chapter_title":     row.Title,
		"language":          row.Language,
		"chapter_number":    row.ChapterNumber,
		"volume_number":     row.VolumeNumber,
		"date_upload":       row.UploadedAt,
		"source_order":      row.SourceOrder,
		"origin":            row.Origin,
	}
	if row.Read {
		cols["read"] = true
	}
	return cols
}
