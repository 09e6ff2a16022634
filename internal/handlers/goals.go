package handlers

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/arnold/healthgoals-api/internal/middleware"
	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	deadlineLayout         = "2006-01-02"
	defaultDurationMonths  = 3
	maxBiomarkerNameLength = 120
)

type GoalHandler struct {
	goals *services.GoalService
	now   func() time.Time
}

func NewGoalHandler(goals *services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals, now: time.Now}
}

func (h *GoalHandler) GetGoals(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)

	goals, err := h.goals.List(sessionID)
	if err != nil {
		return goalError(c, err)
	}

	out := make([]models.GoalResponse, 0, len(goals))
	for _, goal := range goals {
		out = append(out, services.Describe(goal))
	}
	return c.JSON(out)
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := h.goals.Get(sessionID, goalID)
	if err != nil {
		return goalError(c, err)
	}
	return c.JSON(services.Describe(goal))
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input, msg := h.createGoalInput(req)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	goal, err := h.goals.Create(c.UserContext(), sessionID, input)
	if err != nil {
		return goalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.Describe(goal))
}

// createGoalInput validates the request and fills gaps from the biomarker
// catalog. It returns a user-facing message when the request is rejected.
func (h *GoalHandler) createGoalInput(req models.CreateGoalRequest) (services.CreateGoalInput, string) {
	name := strings.TrimSpace(req.BiomarkerName)
	if name == "" {
		return services.CreateGoalInput{}, "Biomarker name is required"
	}
	if len(name) > maxBiomarkerNameLength {
		return services.CreateGoalInput{}, "Biomarker name is too long"
	}
	if req.TargetValue == nil {
		return services.CreateGoalInput{}, "Target value is required"
	}
	if !isFinite(*req.TargetValue) {
		return services.CreateGoalInput{}, "Target value must be a number"
	}

	input := services.CreateGoalInput{
		BiomarkerName: name,
		TargetValue:   *req.TargetValue,
	}

	catalog, inCatalog := services.FindBiomarker(name)
	if inCatalog {
		input.BiomarkerName = catalog.Name
		input.InitialValue = catalog.Current
		input.Unit = catalog.Unit
	}

	if req.InitialValue != nil {
		if !isFinite(*req.InitialValue) {
			return services.CreateGoalInput{}, "Initial value must be a number"
		}
		input.InitialValue = *req.InitialValue
	} else if !inCatalog {
		return services.CreateGoalInput{}, "Initial value is required for this biomarker"
	}

	if req.Unit != nil {
		input.Unit = strings.TrimSpace(*req.Unit)
	}

	switch {
	case req.Deadline != "":
		deadline, err := time.Parse(deadlineLayout, req.Deadline)
		if err != nil {
			return services.CreateGoalInput{}, "Deadline must be a date (YYYY-MM-DD)"
		}
		input.Deadline = deadline
	default:
		months := req.DurationMonths
		if months == 0 {
			months = defaultDurationMonths
		}
		deadline, err := services.DeadlineFromDuration(h.now(), months)
		if err != nil {
			return services.CreateGoalInput{}, "Duration must be 1, 3, 6, 9 or 12 months"
		}
		input.Deadline = deadline
	}

	return input, ""
}

func (h *GoalHandler) UpdateMeasurement(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.UpdateMeasurementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Value == nil || !isFinite(*req.Value) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Value must be a number",
		})
	}

	goal, err := h.goals.UpdateMeasurement(c.UserContext(), sessionID, goalID, *req.Value)
	if err != nil {
		return goalError(c, err)
	}
	return c.JSON(services.Describe(goal))
}

func (h *GoalHandler) ToggleActionItem(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	actionID := strings.TrimSpace(c.Params("actionId"))
	if actionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action item ID",
		})
	}

	goal, err := h.goals.ToggleActionItem(c.UserContext(), sessionID, goalID, actionID)
	if err != nil {
		return goalError(c, err)
	}
	return c.JSON(services.Describe(goal))
}

func (h *GoalHandler) DeleteGoal(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	if err := h.goals.Delete(c.UserContext(), sessionID, goalID); err != nil {
		return goalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func goalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrGoalNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	case errors.Is(err, services.ErrActionItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Action item not found",
		})
	case errors.Is(err, services.ErrPersistGoalFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save goal",
		})
	default:
		slog.Error("goal request failed", "error", err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load goals",
		})
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
