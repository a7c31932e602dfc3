package library

import (
	"context"
	"errors"

	"chapter-sync/core/reconcile"
	"chapter-sync/feature/update"

	"go.uber.org/zap"
)

var (
	// ErrUpdatesDisabled is returned when refreshing a manga without a scheduler.
	ErrUpdatesDisabled = errors.New("library updates are disabled")
	// ErrNoChapters is returned when both posted chapter lists are empty.
	ErrNoChapters = errors.New("primary and merged chapter lists are both empty")
)

// Service handles library operations.
type Service struct {
	store      *Store
	reconciler *reconcile.Reconciler
	scheduler  *update.Scheduler
	locks      *update.MangaLocks
	logger     *zap.Logger
}

// NewService creates a new library service. scheduler may be nil.
// Reconcile passes share the scheduler's manga locks so they never overlap an update of the same manga.
func NewService(store *Store, reconciler *reconcile.Reconciler, scheduler *update.Scheduler, logger *zap.Logger) *Service {
	locks := update.NewMangaLocks()
	if scheduler != nil {
		locks = scheduler.Locks()
	}
	return &Service{
		store:      store,
		reconciler: reconciler,
		scheduler:  scheduler,
		locks:      locks,
		logger:     logger,
	}
}

// ListManga returns every manga of the library.
func (s *Service) ListManga(ctx context.Context) ([]reconcile.Manga, error) {
	return s.store.ListManga(ctx)
}

// GetManga returns one manga.
func (s *Service) GetManga(ctx context.Context, id int64) (reconcile.Manga, error) {
	return s.store.Manga(ctx, id)
}

// AddManga adds a manga to the library.
func (s *Service) AddManga(ctx context.Context, manga reconcile.Manga) (reconcile.Manga, error) {
	return s.store.AddManga(ctx, manga)
}

// ListChapters returns the stored chapters of a manga in source order.
func (s *Service) ListChapters(ctx context.Context, mangaID int64) ([]reconcile.Chapter, error) {
	if _, err := s.store.Manga(ctx, mangaID); err != nil {
		return nil, err
	}
	return s.store.Chapters(ctx, mangaID)
}

// Reconcile reconciles posted remote chapter lists with the stored chapters of a manga.
// With dryRun nothing is written and executed is 0. Two empty lists are rejected with ErrNoChapters.
func (s *Service) Reconcile(ctx context.Context, mangaID int64, primary, merged []reconcile.RemoteChapter, dryRun bool) (*reconcile.Result, int, error) {
	if len(primary)+len(merged) == 0 {
		return nil, 0, ErrNoChapters
	}

	unlock, err := s.locks.Lock(ctx, mangaID)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()

	manga, err := s.store.Manga(ctx, mangaID)
	if err != nil {
		return nil, 0, err
	}

	res, executed, err := reconcile.ReconcileAndApply(ctx, s.reconciler, s.store, manga, primary, merged, reconcile.ApplyOptions{DryRun: dryRun})
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("Manga reconciled",
		zap.Int64("manga_id", mangaID),
		zap.Bool("dry_run", dryRun),
		zap.Int("inserted", res.Summary.Inserted),
		zap.Int("updated", res.Summary.Updated),
		zap.Int("deleted", res.Summary.Deleted),
		zap.Int("executed", executed))
	return res, executed, nil
}

// Refresh fetches and reconciles one manga from its sources.
func (s *Service) Refresh(ctx context.Context, mangaID int64) (*update.Outcome, error) {
	if s.scheduler == nil {
		return nil, ErrUpdatesDisabled
	}
	manga, err := s.store.Manga(ctx, mangaID)
	if err != nil {
		return nil, err
	}
	return s.scheduler.UpdateManga(ctx, manga)
}
