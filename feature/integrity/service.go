package integrity

import (
	"context"
	"errors"

	"chapter-sync/core/storage"
	"chapter-sync/feature/downloads"
	"chapter-sync/feature/integrity/checks"
	"chapter-sync/feature/library"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNoDatabase is returned by checks that need the library database.
	ErrNoDatabase = errors.New("library database is not available")
	// ErrNoStorage is returned by checks that need the download storage.
	ErrNoStorage = errors.New("download storage is not available")
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	layout downloads.Layout
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. client and db may be nil.
func NewService(client storage.Client, bucket string, layout downloads.Layout, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		layout: layout,
		logger: logger,
		db:     db,
	}
}

// CheckDownloads returns the chapter directories no stored chapter owns.
func (s *Service) CheckDownloads(ctx context.Context) (*checks.DownloadsReport, error) {
	if s.client == nil {
		return nil, ErrNoStorage
	}
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckDownloads(ctx, s.client, s.bucket, s.layout, library.NewStore(s.db))
}

// FixDownloads removes orphaned chapter directories.
func (s *Service) FixDownloads(ctx context.Context, orphans []string) (int, error) {
	return checks.FixDownloads(ctx, s.client, s.bucket, s.logger, orphans)
}

// CheckSchema validates the library schema.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckSchema(s.db)
}
