package models

import (
	"github.com/google/uuid"
)

type ActionCategory string

const (
	CategoryDiet        ActionCategory = "diet"
	CategoryExercise    ActionCategory = "exercise"
	CategoryLifestyle   ActionCategory = "lifestyle"
	CategorySupplements ActionCategory = "supplements"
)

// ActionCategories lists every category in display order.
var ActionCategories = []ActionCategory{
	CategoryDiet,
	CategoryExercise,
	CategoryLifestyle,
	CategorySupplements,
}

// ActionItem is one recommended behavior in a goal's action plan. ID is only
// unique within the parent goal, so the pair (GoalID, ID) is the key.
type ActionItem struct {
	GoalID      uuid.UUID      `json:"-" gorm:"type:uuid;primaryKey"`
	ID          string         `json:"id" gorm:"primaryKey"`
	Position    int            `json:"-" gorm:"not null"`
	Category    ActionCategory `json:"category" gorm:"not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed" gorm:"default:false"`
}
