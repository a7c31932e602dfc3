package downloads

import (
	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for the download queue.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new HTTP handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the download routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/downloads", h.HandlePending)
}

// HandlePending lists the chapters waiting to be downloaded.
// @Summary List Pending Downloads
// @Description Lists the chapters queued for download, oldest first.
// @Tags downloads
// @Produce json
// @Success 200 {array} downloads.Download "Pending downloads"
// @Router /downloads [get]
func (h *Handler) HandlePending(c *fiber.Ctx) error {
	return c.JSON(h.manager.Pending())
}
