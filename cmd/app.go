package cmd

import (
	"context"
	"fmt"

	"chapter-sync/core/config"
	"chapter-sync/core/database"
	"chapter-sync/core/logger"
	"chapter-sync/core/reconcile"
	"chapter-sync/core/storage"
	"chapter-sync/feature/downloads"
	"chapter-sync/feature/library"
	"chapter-sync/feature/mangadex"
	"chapter-sync/feature/merged"
	"chapter-sync/feature/update"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application bundles the services shared by the commands.
type application struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB
	storage    storage.Client
	store      *library.Store
	reconciler *reconcile.Reconciler
	downloads  *downloads.Manager
	scheduler  *update.Scheduler
}

// bootstrap loads configuration and wires the library services.
// Without a reachable database the library stays nil; commands that need it use requireLibrary.
// Downloads are disabled when the storage bucket cannot be reached.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	a := &application{
		cfg:        cfg,
		logger:     logg,
		reconciler: reconcile.NewFromConfig(cfg.Reconcile),
	}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Library database connection failed", zap.Error(err))
	} else {
		a.db = conn
		a.store = library.NewStore(conn)
		logg.Info("Connected to library database", zap.String("driver", cfg.Database.Driver))
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		logg.Warn("Download storage unavailable, downloads disabled", zap.Error(err))
	} else {
		a.storage = client
		a.downloads = downloads.NewManager(client, cfg.Storage.Bucket, cfg.Downloads, logg)
	}

	if a.store != nil {
		opts := []update.Option{
			update.WithSources(mangadex.NewClient(cfg.MangaDex, logg)),
			update.WithMergedSource(merged.NewSource(cfg.Merged, logg)),
		}
		if a.downloads != nil {
			opts = append(opts, update.WithDownloads(a.downloads))
		}
		a.scheduler = update.NewScheduler(cfg.Update, a.store, a.reconciler, logg, opts...)
	}

	return a, nil
}

// requireLibrary fails unless the library database is connected and its schema is current.
func (a *application) requireLibrary() error {
	if a.db == nil {
		return fmt.Errorf("library database is not available")
	}
	return library.VerifySchema(a.db)
}
