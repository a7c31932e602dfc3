package library

import (
	"errors"
	"strconv"

	"chapter-sync/core/logger"
	"chapter-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReconcileRequest carries freshly fetched chapter lists.
type ReconcileRequest struct {
	Primary []reconcile.RemoteChapter `json:"primary"`
	Merged  []reconcile.RemoteChapter `json:"merged"`
}

// ReconcileResponse is the outcome of a reconcile request.
type ReconcileResponse struct {
	DryRun      bool                `json:"dry_run"`
	Executed    int                 `json:"executed"`
	NewChapters []reconcile.Chapter `json:"new_chapters"`
	Result      *reconcile.Result   `json:"result"`
}

// Handler handles HTTP requests for the library.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/manga")
	group.Get("/", h.HandleListManga)
	group.Post("/", h.HandleAddManga)
	group.Get("/:id", h.HandleGetManga)
	group.Get("/:id/chapters", h.HandleListChapters)
	group.Post("/:id/reconcile", h.HandleReconcile)
	group.Post("/:id/refresh", h.HandleRefresh)
}

// HandleListManga lists the library.
// @Summary List Manga
// @Description Lists every manga of the library ordered by title.
// @Tags library
// @Produce json
// @Success 200 {array} reconcile.Manga "Manga"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manga [get]
func (h *Handler) HandleListManga(c *fiber.Ctx) error {
	manga, err := h.service.ListManga(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(manga)
}

// HandleAddManga adds a manga to the library.
// @Summary Add Manga
// @Description Adds a manga. Source and url locate it on its primary source.
// @Tags library
// @Accept json
// @Produce json
// @Param manga body reconcile.Manga true "Manga"
// @Success 201 {object} reconcile.Manga "Created"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manga [post]
func (h *Handler) HandleAddManga(c *fiber.Ctx) error {
	var manga reconcile.Manga
	if err := c.BodyParser(&manga); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	if manga.Title == "" || manga.Source == "" || manga.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, source and url are required"})
	}

	created, err := h.service.AddManga(c.Context(), manga)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetManga returns one manga.
// @Summary Get Manga
// @Tags library
// @Produce json
// @Param id path int true "Manga ID"
// @Success 200 {object} reconcile.Manga "Manga"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /manga/{id} [get]
func (h *Handler) HandleGetManga(c *fiber.Ctx) error {
	id, ok := mangaID(c)
	if !ok {
		return invalidID(c)
	}
	manga, err := h.service.GetManga(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(manga)
}

// HandleListChapters lists the stored chapters of a manga.
// @Summary List Chapters
// @Description Lists the stored chapters of a manga in source order.
// @Tags library
// @Produce json
// @Param id path int true "Manga ID"
// @Success 200 {array} reconcile.Chapter "Chapters"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /manga/{id}/chapters [get]
func (h *Handler) HandleListChapters(c *fiber.Ctx) error {
	id, ok := mangaID(c)
	if !ok {
		return invalidID(c)
	}
	chapters, err := h.service.ListChapters(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(chapters)
}

// HandleReconcile reconciles posted chapter lists with the stored chapters.
// @Summary Reconcile Chapters
// @Description Reconciles the posted primary and merged chapter lists with the stored chapters. Use dry_run to preview the plan. Two empty lists are rejected.
// @Tags library
// @Accept json
// @Produce json
// @Param id path int true "Manga ID"
// @Param dry_run query bool false "Preview without writing"
// @Param lists body library.ReconcileRequest true "Remote chapters"
// @Success 200 {object} library.ReconcileResponse "Reconcile result"
// @Failure 400 {object} map[string]string "Bad Request or empty chapter lists"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /manga/{id}/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	id, ok := mangaID(c)
	if !ok {
		return invalidID(c)
	}

	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}
	dryRun := c.QueryBool("dry_run", false)

	res, executed, err := h.service.Reconcile(c.Context(), id, req.Primary, req.Merged, dryRun)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(ReconcileResponse{
		DryRun:      dryRun,
		Executed:    executed,
		NewChapters: res.NewChapters(),
		Result:      res,
	})
}

// HandleRefresh fetches and reconciles one manga from its sources.
// @Summary Refresh Manga
// @Description Fetches the chapters of a manga from its sources and reconciles them.
// @Tags library
// @Produce json
// @Param id path int true "Manga ID"
// @Success 200 {object} map[string]interface{} "Refresh result"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Updates disabled"
// @Router /manga/{id}/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	id, ok := mangaID(c)
	if !ok {
		return invalidID(c)
	}

	outcome, err := h.service.Refresh(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	body := fiber.Map{
		"skipped":           outcome.Skipped,
		"new_chapters":      outcome.NewChapters,
		"queued_downloads":  outcome.QueuedDownloads,
		"removed_downloads": outcome.RemovedDownloads,
	}
	if outcome.Result != nil {
		body["summary"] = outcome.Result.Summary
	}
	return c.JSON(body)
}

func mangaID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid manga id"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrMangaNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoChapters):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUpdatesDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	logger.WithRayID(h.service.logger, c).Error("Library request failed",
		zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
