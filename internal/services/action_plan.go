package services

import (
	"strconv"

	"github.com/arnold/healthgoals-api/internal/models"
)

type actionTemplate struct {
	category    models.ActionCategory
	title       string
	description string
}

var actionPlans = map[string][]actionTemplate{
	"Glucose": {
		{models.CategoryDiet, "Reduce Sugar Intake", "Limit added sugars to 25g/day"},
		{models.CategoryDiet, "Increase Fiber", "Aim for 30g of fiber daily"},
		{models.CategoryExercise, "Cardio Exercise", "30 minutes moderate cardio, 3x weekly"},
		{models.CategoryLifestyle, "Monitor Blood Sugar", "Check levels before meals daily"},
	},
	"LDL Cholesterol": {
		{models.CategoryDiet, "Reduce Saturated Fat", "Limit to less than 7% of daily calories"},
		{models.CategoryDiet, "Increase Omega-3", "Fatty fish 2-3x per week"},
		{models.CategoryExercise, "Aerobic Activity", "150 minutes per week"},
		{models.CategorySupplements, "Consider Plant Sterols", "2g daily with meals"},
	},
	"Vitamin D": {
		{models.CategorySupplements, "Vitamin D3", "Take 2,000 IU daily"},
		{models.CategoryLifestyle, "Sun Exposure", "15-20 minutes daily, arms/legs exposed"},
		{models.CategoryDiet, "Vitamin D Foods", "Fatty fish, egg yolks, fortified foods"},
	},
	"HbA1c": {
		{models.CategoryDiet, "Carb Control", "Monitor carbohydrate portions"},
		{models.CategoryExercise, "Strength Training", "2x weekly for insulin sensitivity"},
		{models.CategoryLifestyle, "Sleep Quality", "7-8 hours nightly"},
		{models.CategoryLifestyle, "Stress Management", "Daily relaxation practice"},
	},
}

// GenerateActionPlan returns a fresh action plan for the biomarker. Unknown
// names get an empty, non-nil plan.
func GenerateActionPlan(biomarkerName string) []models.ActionItem {
	templates := actionPlans[biomarkerName]
	plan := make([]models.ActionItem, 0, len(templates))
	for i, tmpl := range templates {
		plan = append(plan, models.ActionItem{
			ID:          strconv.Itoa(i + 1),
			Position:    i,
			Category:    tmpl.category,
			Title:       tmpl.title,
			Description: tmpl.description,
		})
	}
	return plan
}

// CategoryCounts counts action items per category. Categories without items
// are left out.
func CategoryCounts(plan []models.ActionItem) map[string]int {
	counts := make(map[string]int)
	for _, item := range plan {
		counts[string(item.Category)]++
	}
	return counts
}
