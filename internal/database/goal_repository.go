package database

import (
	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// ListBySession returns the session's goals in display order with their
// action plans.
func (r *GoalRepository) ListBySession(sessionID uuid.UUID) ([]models.Goal, error) {
	goals := make([]models.Goal, 0)
	err := r.db.
		Where("session_id = ?", sessionID).
		Preload("ActionPlan", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// Save upserts the goal row and its action items in one transaction.
func (r *GoalRepository) Save(goal *models.Goal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(goal).Error; err != nil {
			return err
		}
		if len(goal.ActionPlan) == 0 {
			return nil
		}
		for i := range goal.ActionPlan {
			goal.ActionPlan[i].GoalID = goal.ID
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "goal_id"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "category", "title", "description", "completed"}),
		}).Create(&goal.ActionPlan).Error
	})
}

func (r *GoalRepository) Delete(sessionID, goalID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND session_id = ?", goalID, sessionID).Delete(&models.Goal{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("goal_id = ?", goalID).Delete(&models.ActionItem{}).Error
	})
}
