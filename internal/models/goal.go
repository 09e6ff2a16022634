package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal tracks one biomarker moving from InitialValue toward TargetValue.
// InitialValue and TargetValue are written once at creation; Progress is
// derived from the three values and only recomputed by the goal store.
type Goal struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID     uuid.UUID      `json:"-" gorm:"type:uuid;index;not null"`
	Position      int            `json:"position" gorm:"not null"`
	BiomarkerName string         `json:"biomarkerName" gorm:"not null"`
	InitialValue  float64        `json:"initialValue" gorm:"not null"`
	CurrentValue  float64        `json:"currentValue" gorm:"not null"`
	TargetValue   float64        `json:"targetValue" gorm:"not null"`
	Unit          string         `json:"unit"`
	Deadline      time.Time      `json:"deadline"`
	Progress      int            `json:"progressPercent" gorm:"not null;default:0"`
	ActionPlan    []ActionItem   `json:"actionPlan" gorm:"foreignKey:GoalID"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Clone returns a copy that shares no memory with g.
func (g Goal) Clone() Goal {
	out := g
	out.ActionPlan = make([]ActionItem, len(g.ActionPlan))
	copy(out.ActionPlan, g.ActionPlan)
	return out
}

// CompletedActions counts the action items marked done.
func (g Goal) CompletedActions() int {
	n := 0
	for _, item := range g.ActionPlan {
		if item.Completed {
			n++
		}
	}
	return n
}

// Goal DTOs
type CreateGoalRequest struct {
	BiomarkerName  string   `json:"biomarkerName" validate:"required"`
	InitialValue   *float64 `json:"initialValue"`
	TargetValue    *float64 `json:"targetValue" validate:"required"`
	Unit           *string  `json:"unit"`
	Deadline       string   `json:"deadline"`       // YYYY-MM-DD
	DurationMonths int      `json:"durationMonths"` // 1, 3, 6, 9 or 12
}

type UpdateMeasurementRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

type GoalResponse struct {
	Goal
	Phase            string         `json:"phase"`
	CompletedActions int            `json:"completedActions"`
	TotalActions     int            `json:"totalActions"`
	CategoryCounts   map[string]int `json:"categoryCounts"`
}
