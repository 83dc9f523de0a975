package integrity

import (
	"errors"

	"quiz-manager/core/logger"
	"quiz-manager/feature/integrity/checks"

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
	group.Get("/backend", h.HandleBackendCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Probes the quiz backend, the backup bucket and the attempt history schema.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.UserContext()
	report := make(map[string]any)

	report["backend"] = h.service.CheckBackend(ctx)

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["storage"] = statusOf(err)
	} else {
		report["storage"] = fiber.Map{"status": "ok", "missing": missing}
	}

	if dbReport, err := h.service.CheckDatabase(); err != nil {
		report["database"] = statusOf(err)
	} else {
		report["database"] = dbReport
	}

	return c.JSON(report)
}

// HandleBackendCheck probes the quiz API.
// @Summary Check Backend
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.BackendReport
// @Failure 502 {object} checks.BackendReport "Backend unreachable"
// @Router /integrity/backend [get]
func (h *Handler) HandleBackendCheck(c *fiber.Ctx) error {
	report := h.service.CheckBackend(c.UserContext())
	if !report.Reachable {
		logger.WithRayID(h.service.logger, c).Warn("Backend unreachable", zap.String("error", report.Error))
		return c.Status(fiber.StatusBadGateway).JSON(report)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the backup bucket layout.
// @Summary Check Storage
// @Description Checks that the backup bucket exists and holds the backup folder. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.UserContext())
	if errors.Is(err, checks.ErrNotConfigured) {
		return c.JSON(statusOf(err))
	}
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.UserContext(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleDatabaseCheck verifies the attempt history schema.
// @Summary Check Database
// @Description Validates that the attempt history table matches the expected columns and types.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckDatabase()
	if errors.Is(err, checks.ErrNotConfigured) {
		return c.JSON(statusOf(err))
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Database check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func statusOf(err error) fiber.Map {
	if errors.Is(err, checks.ErrNotConfigured) {
		return fiber.Map{"status": "disabled"}
	}
	return fiber.Map{"status": "error", "error": err.Error()}
}
