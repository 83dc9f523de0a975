package auth

import (
	"quiz-manager/core/domain"
	"quiz-manager/core/logger"
	"quiz-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the backend session.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/auth")
	group.Post("/login", h.HandleLogin)
	group.Post("/register", h.HandleRegister)
	group.Post("/logout", h.HandleLogout)
	group.Get("/whoami", h.HandleWhoAmI)
}

// HandleLogin signs in to the quiz backend.
// @Summary Login
// @Description Exchanges credentials for backend tokens. Tokens stay server side.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.Credentials true "Credentials"
// @Success 200 {object} auth.Session
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	sess, err := h.service.Login(c.UserContext(), creds)
	if err != nil {
		return h.fail(c, "Login failed", err)
	}
	return c.JSON(sess)
}

// HandleRegister creates a backend account.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.Registration true "Account"
// @Success 201 {object} api.RegisteredUser
// @Failure 400 {object} map[string]interface{} "Rejected fields"
// @Router /auth/register [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var reg domain.Registration
	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	user, err := h.service.Register(c.UserContext(), reg)
	if err != nil {
		return h.fail(c, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogout forgets the backend tokens.
// @Summary Logout
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *Handler) HandleLogout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext()); err != nil {
		return h.fail(c, "Logout failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleWhoAmI describes the backend session.
// @Summary Current Session
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Session
// @Failure 401 {object} map[string]string "Not logged in"
// @Router /auth/whoami [get]
func (h *Handler) HandleWhoAmI(c *fiber.Ctx) error {
	sess, err := h.service.WhoAmI(c.UserContext())
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.JSON(sess)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Warn(msg, zap.Error(err))
	return server.RespondError(c, err)
}
