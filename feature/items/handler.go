package items

import (
	"errors"

	"quiz-manager/core/logger"
	"quiz-manager/core/reconcile"
	"quiz-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for variant items.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PlanRequest is the body of a plan request.
type PlanRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
}

// SaveRequest is the body of a save request.
type SaveRequest struct {
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
	Confirm   bool   `json:"confirm"`
	DryRun    bool   `json:"dry_run"`
}

// RestoreRequest is the body of a restore request. An empty key restores
// the newest backup.
type RestoreRequest struct {
	Key     string `json:"key"`
	Confirm bool   `json:"confirm"`
	DryRun  bool   `json:"dry_run"`
}

// RegisterRoutes registers the item routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/quizzes/:id/variants/:variantId/items")
	group.Get("/", h.HandleView)
	group.Post("/plan", h.HandlePlan)
	group.Put("/", h.HandleSave)
	group.Get("/backups", h.HandleBackups)
	group.Post("/restore", h.HandleRestore)
}

// HandleView returns the items of a variant.
// @Summary View Variant Items
// @Description Switches the quiz editor to the variant and returns its items and editable text.
// @Tags items
// @Produce json
// @Param id path string true "Quiz ID"
// @Param variantId path string true "Variant ID"
// @Success 200 {object} items.View
// @Failure 409 {object} map[string]string "Superseded by another variant switch"
// @Router /quizzes/{id}/variants/{variantId}/items [get]
func (h *Handler) HandleView(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), c.Params("id"), c.Params("variantId"))
	if err != nil {
		return h.fail(c, "Failed to load variant items", err)
	}
	return c.JSON(view)
}

// HandlePlan previews a save.
// @Summary Plan Item Changes
// @Description Computes the create and delete operations that would make the variant match the text. Nothing is applied.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param variantId path string true "Variant ID"
// @Param request body items.PlanRequest true "Edited text"
// @Success 200 {object} reconcile.Plan
// @Failure 400 {object} map[string]string "Invalid item names"
// @Router /quizzes/{id}/variants/{variantId}/items/plan [post]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	plan, err := h.service.Plan(c.UserContext(), c.Params("id"), c.Params("variantId"), req.Text, req.Delimiter)
	if err != nil {
		return h.fail(c, "Failed to plan item changes", err)
	}
	return c.JSON(plan)
}

// HandleSave applies the edited text.
// @Summary Save Variant Items
// @Description Reconciles the variant to the text. Plans that delete items require confirm=true and are backed up first. Failed operations are listed in the result.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param variantId path string true "Variant ID"
// @Param request body items.SaveRequest true "Edited text and options"
// @Success 200 {object} items.SaveResult
// @Failure 409 {object} map[string]interface{} "Confirmation required"
// @Router /quizzes/{id}/variants/{variantId}/items [put]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var req SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	opts := reconcile.ReconcileOptions{DryRun: req.DryRun, Confirmed: req.Confirm}
	res, err := h.service.Save(c.UserContext(), c.Params("id"), c.Params("variantId"), req.Text, req.Delimiter, opts)
	return h.respondSave(c, res, err)
}

// HandleRestore restores a variant from a backup.
// @Summary Restore Variant Items
// @Description Reconciles the variant back to a backup, the newest when no key is given.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param variantId path string true "Variant ID"
// @Param request body items.RestoreRequest true "Backup key and options"
// @Success 200 {object} items.SaveResult
// @Failure 404 {object} map[string]string "No backup"
// @Failure 409 {object} map[string]interface{} "Confirmation required"
// @Router /quizzes/{id}/variants/{variantId}/items/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	var req RestoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	opts := reconcile.ReconcileOptions{DryRun: req.DryRun, Confirmed: req.Confirm}
	res, err := h.service.Restore(c.UserContext(), c.Params("id"), c.Params("variantId"), req.Key, opts)
	return h.respondSave(c, res, err)
}

// HandleBackups lists the backups of a variant.
// @Summary List Variant Backups
// @Tags items
// @Produce json
// @Param id path string true "Quiz ID"
// @Param variantId path string true "Variant ID"
// @Success 200 {array} items.BackupInfo
// @Router /quizzes/{id}/variants/{variantId}/items/backups [get]
func (h *Handler) HandleBackups(c *fiber.Ctx) error {
	backups, err := h.service.Backups(c.UserContext(), c.Params("id"), c.Params("variantId"))
	if err != nil {
		return h.fail(c, "Failed to list backups", err)
	}
	return c.JSON(backups)
}

func (h *Handler) respondSave(c *fiber.Ctx, res *SaveResult, err error) error {
	if errors.Is(err, reconcile.ErrConfirmationRequired) && res != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
			"plan":  res.Plan,
		})
	}
	if err != nil {
		return h.fail(c, "Failed to save variant items", err)
	}
	if res.Result != nil && !res.Result.OK() {
		logger.WithRayID(h.service.logger, c).Warn("Save partially applied",
			zap.String("variant_id", res.Result.Target.VariantID),
			zap.Int("failed", len(res.Result.Failed)),
		)
	}
	return c.JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Warn(msg,
		zap.String("quiz_id", c.Params("id")),
		zap.String("variant_id", c.Params("variantId")),
		zap.Error(err),
	)
	return server.RespondError(c, err)
}
