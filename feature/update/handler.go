package update

import (
	"chapter-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for library update campaigns.
type Handler struct {
	scheduler *Scheduler
}

// NewHandler creates a new HTTP handler.
func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// RegisterRoutes registers the update routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/updates")
	group.Get("/", h.HandleStatus)
	group.Post("/", h.HandleStart)
	group.Delete("/", h.HandleCancel)
}

// HandleStatus returns the progress of the running campaign.
// @Summary Get Update Status
// @Description Returns whether a library update is running and how far it got.
// @Tags updates
// @Produce json
// @Success 200 {object} update.Status "Status"
// @Router /updates [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.scheduler.Status())
}

// HandleStart queues the library for update.
// @Summary Start Library Update
// @Description Queues every library manga for a chapter update. When a campaign is already running the manga join it.
// @Tags updates
// @Produce json
// @Success 202 {object} map[string]interface{} "Queued"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /updates [post]
func (h *Handler) HandleStart(c *fiber.Ctx) error {
	l := logger.WithRayID(h.scheduler.logger, c)

	added, err := h.scheduler.Start(c.Context())
	if err != nil {
		l.Error("Failed to start library update", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Library update queued", zap.Int("manga", added))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"queued": added,
		"status": h.scheduler.Status(),
	})
}

// HandleCancel cancels the running campaign.
// @Summary Cancel Library Update
// @Description Cancels the running library update. Manga not started yet are skipped.
// @Tags updates
// @Produce json
// @Success 202 {object} update.Status "Status"
// @Router /updates [delete]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	h.scheduler.Cancel()
	return c.Status(fiber.StatusAccepted).JSON(h.scheduler.Status())
}
