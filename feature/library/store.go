package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chapter-sync/core/database"
	"chapter-sync/core/reconcile"
	"chapter-sync/feature/library/models"

	"gorm.io/gorm"
)

// ErrMangaNotFound is returned when a manga id is unknown to the library.
var ErrMangaNotFound = errors.New("manga not found")

const insertBatchSize = 100

// Store persists manga and chapters with GORM.
// It implements reconcile.Store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the library tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Manga{}, &models.Chapter{}); err != nil {
		return fmt.Errorf("failed to migrate library schema: %w", err)
	}
	return nil
}

// VerifySchema checks that the library tables have every column the application uses.
func VerifySchema(db *gorm.DB) error {
	for _, table := range models.Tables {
		missing, err := database.MissingColumns(db, table.Name, table.Columns)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v, run migrate", table.Name, missing)
		}
	}
	return nil
}

// Manga returns a manga by id.
func (s *Store) Manga(ctx context.Context, id int64) (reconcile.Manga, error) {
	var row models.Manga
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.Manga{}, fmt.Errorf("%w: %d", ErrMangaNotFound, id)
	}
	if err != nil {
		return reconcile.Manga{}, fmt.Errorf("failed to load manga %d: %w", id, err)
	}
	return row.ToDomain(), nil
}

// ListManga returns every manga ordered by title.
func (s *Store) ListManga(ctx context.Context) ([]reconcile.Manga, error) {
	return s.findManga(s.db.WithContext(ctx).Order("title"))
}

// FavoriteManga returns the manga in the library.
func (s *Store) FavoriteManga(ctx context.Context) ([]reconcile.Manga, error) {
	return s.findManga(s.db.WithContext(ctx).Where("favorite = ?", true).Order("title"))
}

func (s *Store) findManga(q *gorm.DB) ([]reconcile.Manga, error) {
	var rows []models.Manga
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list manga: %w", err)
	}
	out := make([]reconcile.Manga, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// AddManga inserts a manga and returns it with its id assigned.
func (s *Store) AddManga(ctx context.Context, manga reconcile.Manga) (reconcile.Manga, error) {
	row := models.MangaFromDomain(manga)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return reconcile.Manga{}, fmt.Errorf("failed to add manga: %w", err)
	}
	return row.ToDomain(), nil
}

// UpdateDetails sets the title and publication status of a manga.
func (s *Store) UpdateDetails(ctx context.Context, mangaID int64, title string, status reconcile.Status) error {
	err := s.db.WithContext(ctx).Model(&models.Manga{}).
		Where("id = ?", mangaID).
		Updates(map[string]any{"title": title, "status": int(status)}).Error
	if err != nil {
		return fmt.Errorf("failed to update manga %d: %w", mangaID, err)
	}
	return nil
}

// Chapters returns the stored chapters of a manga in source order.
func (s *Store) Chapters(ctx context.Context, mangaID int64) ([]reconcile.Chapter, error) {
	var rows []models.Chapter
	err := s.db.WithContext(ctx).
		Where("manga_id = ?", mangaID).
		Order("source_order").Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chapters of manga %d: %w", mangaID, err)
	}

	out := make([]reconcile.Chapter, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// Transaction runs fn in a database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx reconcile.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

// txStore applies reconcile mutations inside a transaction.
type txStore struct {
	db *gorm.DB
}

func (t *txStore) InsertChapters(ctx context.Context, chapters []reconcile.Chapter) ([]reconcile.Chapter, error) {
	if len(chapters) == 0 {
		return nil, nil
	}

	rows := make([]models.Chapter, len(chapters))
	for i, c := range chapters {
		rows[i] = models.ChapterFromDomain(c)
		rows[i].ID = 0
	}
	if err := t.db.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return nil, err
	}

	out := make([]reconcile.Chapter, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

func (t *txStore) UpdateChapters(ctx context.Context, chapters []reconcile.Chapter) error {
	for _, c := range chapters {
		err := t.db.WithContext(ctx).Model(&models.Chapter{}).
			Where("id = ?", c.ID).
			Updates(models.MetadataColumns(c)).Error
		if err != nil {
			return fmt.Errorf("chapter %d: %w", c.ID, err)
		}
	}
	return nil
}

func (t *txStore) DeleteChapters(ctx context.Context, chapters []reconcile.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	ids := make([]int64, len(chapters))
	for i, c := range chapters {
		ids[i] = c.ID
	}
	return t.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Chapter{}).Error
}

func (t *txStore) UpdateSourceOrder(ctx context.Context, chapters []reconcile.Chapter) error {
	for _, c := range chapters {
		err := t.db.WithContext(ctx).Model(&models.Chapter{}).
			Where("id = ?", c.ID).
			Update("source_order", c.SourceOrder).Error
		if err != nil {
			return fmt.Errorf("chapter %d: %w", c.ID, err)
		}
	}
	return nil
}

func (t *txStore) UpdateLastUpdate(ctx context.Context, mangaID int64, at time.Time) error {
	return t.db.WithContext(ctx).Model(&models.Manga{}).
		Where("id = ?", mangaID).
		Update("last_update", models.ToMillis(at)).Error
}
