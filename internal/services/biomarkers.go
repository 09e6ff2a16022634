package services

import (
	"errors"
	"strings"
	"time"

	"github.com/arnold/healthgoals-api/internal/models"
)

var ErrInvalidDuration = errors.New("duration must be 1, 3, 6, 9 or 12 months")

// AllowedDurations are the goal lengths, in months, offered at creation.
var AllowedDurations = []int{1, 3, 6, 9, 12}

var biomarkersNeedingAttention = []models.Biomarker{
	{ID: "1", Name: "Glucose", Current: 118, Unit: "mg/dL", OptimalRange: "70-99", Status: models.BiomarkerHigh},
	{ID: "2", Name: "LDL Cholesterol", Current: 115, Unit: "mg/dL", OptimalRange: "< 100", Status: models.BiomarkerBorderline},
	{ID: "3", Name: "Vitamin D", Current: 28, Unit: "ng/mL", OptimalRange: "30-100", Status: models.BiomarkerBorderline},
	{ID: "4", Name: "HbA1c", Current: 6.2, Unit: "%", OptimalRange: "< 5.7", Status: models.BiomarkerBorderline},
}

// BiomarkersNeedingAttention returns the latest lab results that are outside
// their optimal range.
func BiomarkersNeedingAttention() []models.Biomarker {
	out := make([]models.Biomarker, len(biomarkersNeedingAttention))
	copy(out, biomarkersNeedingAttention)
	return out
}

// FindBiomarker matches by name, ignoring case and surrounding space.
func FindBiomarker(name string) (models.Biomarker, bool) {
	name = strings.TrimSpace(name)
	for _, b := range biomarkersNeedingAttention {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return models.Biomarker{}, false
}

// DeadlineFromDuration adds months to now and truncates to a calendar date.
func DeadlineFromDuration(now time.Time, months int) (time.Time, error) {
	allowed := false
	for _, d := range AllowedDurations {
		if d == months {
			allowed = true
			break
		}
	}
	if !allowed {
		return time.Time{}, ErrInvalidDuration
	}

	deadline := now.UTC().AddDate(0, months, 0)
	return time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC), nil
}
