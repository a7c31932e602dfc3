package checks

import (
	"context"
	"fmt"
	"strings"

	"chapter-sync/core/reconcile"
	"chapter-sync/core/storage"
	"chapter-sync/feature/downloads"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Library reads the stored manga and chapters.
type Library interface {
	ListManga(ctx context.Context) ([]reconcile.Manga, error)
	Chapters(ctx context.Context, mangaID int64) ([]reconcile.Chapter, error)
}

// DownloadsReport lists chapter directories no stored chapter owns.
type DownloadsReport struct {
	Manga       int      `json:"manga"`
	Directories int      `json:"directories"`
	Orphans     []string `json:"orphans"`
}

// CheckDownloads walks the chapter directories of every library manga and reports the ones
// matching neither the current nor the legacy directory name of a stored chapter.
func CheckDownloads(ctx context.Context, client storage.Client, bucket string, layout downloads.Layout, lib Library) (*DownloadsReport, error) {
	manga, err := lib.ListManga(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list manga: %w", err)
	}

	report := &DownloadsReport{Manga: len(manga), Orphans: []string{}}
	for _, m := range manga {
		chapters, err := lib.Chapters(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chapters of manga %d: %w", m.ID, err)
		}

		valid := make(map[string]struct{}, len(chapters)*2)
		for _, c := range chapters {
			for _, name := range downloads.ValidChapterDirNames(c) {
				valid[name] = struct{}{}
			}
		}

		prefix := layout.MangaDir(m)
		for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
			}
			// Loose files next to the chapter directories are not downloads
			if !strings.HasSuffix(obj.Key, "/") {
				continue
			}
			report.Directories++

			name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
			if _, ok := valid[name]; !ok {
				report.Orphans = append(report.Orphans, obj.Key)
			}
		}
	}

	return report, nil
}

// FixDownloads removes the orphaned chapter directories and returns the number of objects deleted.
func FixDownloads(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, orphans []string) (int, error) {
	removed := 0
	for _, dir := range orphans {
		n, err := storage.RemovePrefix(ctx, client, bucket, dir)
		removed += n
		if err != nil {
			logger.Error("Failed to remove orphaned directory", zap.String("directory", dir), zap.Error(err))
			return removed, err
		}
		logger.Info("Removed orphaned directory", zap.String("directory", dir), zap.Int("objects", n))
	}
	return removed, nil
}
