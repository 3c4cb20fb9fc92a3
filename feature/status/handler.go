package status

import (
	"errors"

	"kf2-manager/core/logger"
	"kf2-manager/feature/history"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Handler handles HTTP requests for the status routes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status", h.HandleStatus)
	app.Get("/workshop", h.HandleWorkshop)
	app.Get("/mapcycles", h.HandleMapCycles)
	app.Get("/history", h.HandleHistory)
}

// HandleStatus returns the supervisor snapshot.
// @Summary Supervisor status
// @Description Current state, running processes and cycle counters.
// @Tags status
// @Produce json
// @Success 200 {object} supervisor.Snapshot
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}

// HandleWorkshop returns the subscribed workshop items.
// @Summary Workshop subscriptions
// @Description Items listed in PCServer-KFEngine.ini, ascending.
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /workshop [get]
func (h *Handler) HandleWorkshop(c *fiber.Ctx) error {
	items, err := h.service.Workshop()
	if err != nil {
		return h.fail(c, "Failed to read workshop items", err)
	}
	if items == nil {
		items = []uint64{}
	}
	return c.JSON(fiber.Map{"count": len(items), "items": items})
}

// HandleMapCycles returns the configured map cycles.
// @Summary Map cycles
// @Description Map lists of every GameMapCycles line, in order.
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mapcycles [get]
func (h *Handler) HandleMapCycles(c *fiber.Ctx) error {
	cycles, err := h.service.MapCycles()
	if err != nil {
		return h.fail(c, "Failed to read map cycles", err)
	}
	if cycles == nil {
		cycles = [][]string{}
	}
	return c.JSON(fiber.Map{"cycles": cycles})
}

// HandleHistory returns recent supervisor cycles.
// @Summary Cycle history
// @Description Most recent supervisor cycles, newest first.
// @Tags status
// @Produce json
// @Param limit query int false "Maximum number of cycles" default(20)
// @Success 200 {array} history.Cycle
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 200"})
	}

	cycles, err := h.service.History(c.Context(), limit)
	if errors.Is(err, ErrHistoryDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return h.fail(c, "Failed to list history", err)
	}
	if cycles == nil {
		cycles = []history.Cycle{}
	}
	return c.JSON(cycles)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
