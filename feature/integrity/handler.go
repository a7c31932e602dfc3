package integrity

import (
	"errors"

	"chapter-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/downloads", h.HandleDownloadsCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the schema and downloads checks. Walking the downloads may take a long time.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]any)

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if dl, err := h.service.CheckDownloads(c.Context()); err != nil {
		report["downloads"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["downloads"] = dl
	}

	return c.JSON(report)
}

// HandleDownloadsCheck checks and optionally removes orphaned chapter directories.
// @Summary Check Downloads
// @Description Lists downloaded chapter directories that no stored chapter owns. Optionally removes them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Remove orphaned directories"
// @Success 200 {object} checks.DownloadsReport "Downloads Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database or storage unavailable"
// @Router /integrity/downloads [get]
func (h *Handler) HandleDownloadsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	report, err := h.service.CheckDownloads(c.Context())
	if err != nil {
		return h.fail(c, l, "Downloads check failed", err)
	}

	if len(report.Orphans) > 0 {
		l.Warn("Orphaned chapter directories detected", zap.Int("count", len(report.Orphans)))

		if fix {
			removed, err := h.service.FixDownloads(c.Context(), report.Orphans)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to remove orphaned directories",
					"details": err.Error(),
					"removed": removed,
				})
			}
			return c.JSON(fiber.Map{
				"status":  "fixed",
				"fixed":   report.Orphans,
				"removed": removed,
			})
		}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the library schema.
// @Summary Check Library Schema
// @Description Checks that the library tables carry every column the application uses.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database unavailable"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		return h.fail(c, l, "Schema check failed", err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	if errors.Is(err, ErrNoDatabase) || errors.Is(err, ErrNoStorage) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
