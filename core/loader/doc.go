// Package loader provides the plugin-like feature loading system.
//
// Each feature implements Feature and is registered on a Manager, which loads the
// enabled ones onto the Fiber router in registration order.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
