package downloads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chapter-sync/core/reconcile"
	"chapter-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Download is a chapter waiting to be downloaded.
type Download struct {
	ID        string            `json:"id"`
	MangaID   int64             `json:"manga_id"`
	Chapter   reconcile.Chapter `json:"chapter"`
	Directory string            `json:"directory"`
	QueuedAt  time.Time         `json:"queued_at"`
}

// Manager tracks downloaded chapters in object storage and the pending download queue.
type Manager struct {
	client storage.Client
	bucket string
	layout Layout
	logger *zap.Logger

	mu    sync.Mutex
	queue []Download
	// queued holds the directories already in the queue.
	queued map[string]struct{}
}

// NewManager creates a download manager storing chapters in bucket.
func NewManager(client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Manager {
	return &Manager{
		client: client,
		bucket: bucket,
		layout: NewLayout(cfg.Prefix),
		logger: logger,
		queued: make(map[string]struct{}),
	}
}

// Layout returns the key layout used by the manager.
func (m *Manager) Layout() Layout {
	return m.layout
}

// IsDownloaded reports whether any object exists under one of the chapter directories.
func (m *Manager) IsDownloaded(ctx context.Context, manga reconcile.Manga, chapter reconcile.Chapter) (bool, error) {
	for _, dir := range m.layout.ChapterDirs(manga, chapter) {
		found, err := m.hasObjects(ctx, dir)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) hasObjects(ctx context.Context, prefix string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true, MaxKeys: 1}) {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		return true, nil
	}
	return false, nil
}

// DeleteChapters removes the downloaded objects of chapters and drops them from the queue.
// It returns the number of removed objects.
func (m *Manager) DeleteChapters(ctx context.Context, manga reconcile.Manga, chapters []reconcile.Chapter) (int, error) {
	var errs []error
	removed := 0

	for _, chapter := range chapters {
		for _, dir := range m.layout.ChapterDirs(manga, chapter) {
			m.dequeue(dir)

			n, err := storage.RemovePrefix(ctx, m.client, m.bucket, dir)
			removed += n
			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	if removed > 0 {
		m.logger.Info("Removed downloaded chapters",
			zap.Int64("manga_id", manga.ID),
			zap.Int("chapters", len(chapters)),
			zap.Int("objects", removed))
	}

	return removed, errors.Join(errs...)
}

// Enqueue queues chapters for download. Chapters already queued are skipped.
// It returns the number of chapters added.
func (m *Manager) Enqueue(manga reconcile.Manga, chapters []reconcile.Chapter) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, chapter := range chapters {
		dir := m.layout.ChapterDirs(manga, chapter)[0]
		if _, ok := m.queued[dir]; ok {
			continue
		}
		m.queued[dir] = struct{}{}
		m.queue = append(m.queue, Download{
			ID:        uuid.NewString(),
			MangaID:   manga.ID,
			Chapter:   chapter,
			Directory: dir,
			QueuedAt:  time.Now().UTC(),
		})
		added++
	}
	return added
}

// Pending returns a snapshot of the download queue in queue order.
func (m *Manager) Pending() []Download {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Download, len(m.queue))
	copy(out, m.queue)
	return out
}

func (m *Manager) dequeue(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.queued[dir]; !ok {
		return
	}
	delete(m.queued, dir)
	for i, d := range m.queue {
		if d.Directory == dir {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}
