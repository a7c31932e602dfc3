package library

import (
	"chapter-sync/core/reconcile"
	"chapter-sync/feature/update"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the library feature. scheduler may be nil.
func NewFeature(db *gorm.DB, reconciler *reconcile.Reconciler, scheduler *update.Scheduler, logger *zap.Logger) *Feature {
	svc := NewService(NewStore(db), reconciler, scheduler, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "library"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.store.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
