package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func GetBiomarkers(c *fiber.Ctx) error {
	return c.JSON(services.BiomarkersNeedingAttention())
}

// GetActionPlan previews the plan a new goal for the biomarker would get.
func GetActionPlan(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid biomarker name",
		})
	}

	if b, ok := services.FindBiomarker(name); ok {
		name = b.Name
	}
	plan := services.GenerateActionPlan(name)
	return c.JSON(models.ActionPlanResponse{
		Biomarker:      name,
		ActionPlan:     plan,
		CategoryCounts: services.CategoryCounts(plan),
	})
}

func GetProgress(c *fiber.Ctx) error {
	values := make([]float64, 0, 3)
	for _, key := range []string{"initial", "current", "target"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil || !isFinite(v) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Query parameters initial, current and target must be numbers",
			})
		}
		values = append(values, v)
	}
	return c.JSON(services.ProgressReport(values[0], values[1], values[2]))
}
