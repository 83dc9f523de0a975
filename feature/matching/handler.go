package matching

import (
	"quiz-manager/core/logger"
	"quiz-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for matching sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StartRequest is the body of a start request.
type StartRequest struct {
	QuizID string `json:"quiz_id"`
}

// SelectRequest is the body of a select request.
type SelectRequest struct {
	ItemID string `json:"item_id"`
}

// AssignRequest is the body of an assign request. Target is a variant id or
// "unmatched".
type AssignRequest struct {
	Target string `json:"target"`
}

// ResetRequest is the body of a reset request.
type ResetRequest struct {
	Reload bool `json:"reload"`
}

// RegisterRoutes registers the matching routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/matching")
	group.Post("/sessions", h.HandleStart)
	group.Get("/sessions/:id", h.HandleGet)
	group.Delete("/sessions/:id", h.HandleClose)
	group.Post("/sessions/:id/select", h.HandleSelect)
	group.Post("/sessions/:id/assign", h.HandleAssign)
	group.Post("/sessions/:id/drop", h.HandleDrop)
	group.Post("/sessions/:id/tap", h.HandleTap)
	group.Post("/sessions/:id/reset", h.HandleReset)
	group.Post("/sessions/:id/validate", h.HandleValidate)
	group.Get("/quizzes/:quizId/attempts", h.HandleAttempts)
}

// HandleStart starts a session.
// @Summary Start Matching Session
// @Description Loads a quiz and starts a matching game with every item unmatched.
// @Tags matching
// @Accept json
// @Produce json
// @Param request body matching.StartRequest true "Quiz to play"
// @Success 201 {object} matching.SessionView
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /matching/sessions [post]
func (h *Handler) HandleStart(c *fiber.Ctx) error {
	var req StartRequest
	if err := c.BodyParser(&req); err != nil || req.QuizID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quiz_id is required"})
	}
	view, err := h.service.Start(c.UserContext(), req.QuizID)
	if err != nil {
		return h.fail(c, "Failed to start matching session", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleGet returns a session.
// @Summary Get Matching Session
// @Tags matching
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} matching.SessionView
// @Failure 404 {object} map[string]string "Unknown or expired session"
// @Router /matching/sessions/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	view, err := h.service.View(c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to get matching session", err)
	}
	return c.JSON(view)
}

// HandleClose ends a session.
// @Summary End Matching Session
// @Tags matching
// @Param id path string true "Session ID"
// @Success 204
// @Router /matching/sessions/{id} [delete]
func (h *Handler) HandleClose(c *fiber.Ctx) error {
	h.service.Close(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSelect toggles the selected item.
// @Summary Select Item
// @Tags matching
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body matching.SelectRequest true "Item"
// @Success 200 {object} matching.SessionView
// @Router /matching/sessions/{id}/select [post]
func (h *Handler) HandleSelect(c *fiber.Ctx) error {
	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return h.respond(c, "Failed to select item")(h.service.Select(c.Params("id"), req.ItemID))
}

// HandleAssign moves the selected item.
// @Summary Assign Selected Item
// @Tags matching
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body matching.AssignRequest true "Target variant or unmatched"
// @Success 200 {object} matching.SessionView
// @Router /matching/sessions/{id}/assign [post]
func (h *Handler) HandleAssign(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil || req.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target is required"})
	}
	return h.respond(c, "Failed to assign item")(h.service.Assign(c.Params("id"), req.Target))
}

// HandleDrop applies a drag-and-drop move.
// @Summary Drop Item
// @Tags matching
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body matching.DropEvent true "Dropped item and target"
// @Success 200 {object} matching.SessionView
// @Router /matching/sessions/{id}/drop [post]
func (h *Handler) HandleDrop(c *fiber.Ctx) error {
	var ev DropEvent
	if err := c.BodyParser(&ev); err != nil || ev.ItemID == "" || ev.Target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "item_id and target are required"})
	}
	return h.respond(c, "Failed to drop item")(h.service.Drop(c.Params("id"), ev))
}

// HandleTap applies a tap.
// @Summary Tap Item Or Target
// @Tags matching
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body matching.TapEvent true "Tap"
// @Success 200 {object} matching.SessionView
// @Router /matching/sessions/{id}/tap [post]
func (h *Handler) HandleTap(c *fiber.Ctx) error {
	var ev TapEvent
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return h.respond(c, "Failed to apply tap")(h.service.Tap(c.Params("id"), ev))
}

// HandleReset returns every item to the pool.
// @Summary Reset Matching Session
// @Tags matching
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body matching.ResetRequest false "Reload the quiz"
// @Success 200 {object} matching.SessionView
// @Router /matching/sessions/{id}/reset [post]
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	var req ResetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	return h.respond(c, "Failed to reset session")(h.service.Reset(c.UserContext(), c.Params("id"), req.Reload))
}

// HandleValidate scores the session.
// @Summary Validate Matching Session
// @Description Scores the current assignment. Unmatched items count as wrong.
// @Tags matching
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} matching.ValidationResult
// @Router /matching/sessions/{id}/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	res, err := h.service.Validate(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to validate session", err)
	}
	return c.JSON(fiber.Map{
		"correct": res.Correct,
		"total":   res.Total,
		"percent": res.Percent(),
		"perfect": res.Perfect,
		"items":   res.Items,
	})
}

// HandleAttempts lists recorded attempts of a quiz.
// @Summary List Quiz Attempts
// @Tags matching
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param limit query int false "Maximum number of attempts"
// @Success 200 {array} matching.Attempt
// @Router /matching/quizzes/{quizId}/attempts [get]
func (h *Handler) HandleAttempts(c *fiber.Ctx) error {
	attempts, err := h.service.Attempts(c.UserContext(), c.Params("quizId"), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, "Failed to list attempts", err)
	}
	return c.JSON(attempts)
}

func (h *Handler) respond(c *fiber.Ctx, msg string) func(*SessionView, error) error {
	return func(view *SessionView, err error) error {
		if err != nil {
			return h.fail(c, msg, err)
		}
		return c.JSON(view)
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Warn(msg,
		zap.String("session_id", c.Params("id")),
		zap.Error(err),
	)
	return server.RespondError(c, err)
}
