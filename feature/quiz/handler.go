package quiz

import (
	"quiz-manager/core/logger"
	"quiz-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for quizzes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest is the body of a create request.
type CreateRequest struct {
	Title    string   `json:"title"`
	Variants []string `json:"variants"`
}

// UpdateRequest is the body of an update request.
type UpdateRequest struct {
	Title string `json:"title"`
}

// RegisterRoutes registers the quiz routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/quizzes")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList lists quizzes.
// @Summary List Quizzes
// @Description Lists the quizzes visible to the configured backend account.
// @Tags quizzes
// @Produce json
// @Success 200 {array} domain.Quiz
// @Failure 401 {object} map[string]string "Backend authentication failed"
// @Failure 502 {object} map[string]string "Backend unreachable"
// @Router /quizzes [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	quizzes, err := h.service.List(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list quizzes", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(quizzes)
}

// HandleGet returns a quiz aggregate.
// @Summary Get Quiz
// @Description Loads a quiz with its variants and items. Variants whose items failed to load are empty and listed in warnings.
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} quiz.Aggregate
// @Failure 404 {object} map[string]string "Quiz not found"
// @Failure 502 {object} map[string]string "Backend unreachable"
// @Router /quizzes/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	agg, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Failed to load quiz", zap.String("quiz_id", id), zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.JSON(agg)
}

// HandleCreate creates a quiz with its variants.
// @Summary Create Quiz
// @Description Creates a quiz owned by the backend account, then its variants in order.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body quiz.CreateRequest true "Title and variant names"
// @Success 201 {object} quiz.Aggregate
// @Failure 400 {object} map[string]interface{} "Invalid title or variant names"
// @Failure 502 {object} map[string]string "Backend unreachable"
// @Router /quizzes [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	agg, err := h.service.Create(c.UserContext(), req.Title, req.Variants)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Failed to create quiz", zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(agg)
}

// HandleUpdate renames a quiz.
// @Summary Rename Quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body quiz.UpdateRequest true "New title"
// @Success 200 {object} domain.Quiz
// @Failure 400 {object} map[string]interface{} "Missing title"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	q, err := h.service.Rename(c.UserContext(), c.Params("id"), req.Title)
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.JSON(q)
}

// HandleDelete deletes a quiz with its variants and items.
// @Summary Delete Quiz
// @Tags quizzes
// @Param id path string true "Quiz ID"
// @Success 204
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Failed to delete quiz", zap.String("quiz_id", id), zap.Error(err))
		return server.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
