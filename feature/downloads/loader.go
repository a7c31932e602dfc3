package downloads

import "github.com/gofiber/fiber/v2"

// Feature implements the loader.Feature interface.
type Feature struct {
	manager *Manager
	handler *Handler
}

// NewFeature creates the downloads feature.
func NewFeature(manager *Manager) *Feature {
	return &Feature{manager: manager, handler: NewHandler(manager)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "downloads"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.manager != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
