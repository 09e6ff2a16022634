package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

var (
	ErrGoalNotFound       = fmt.Errorf("goal %w", ErrNotFound)
	ErrActionItemNotFound = fmt.Errorf("action item %w", ErrNotFound)
)

// GoalStore owns an ordered goal collection. All mutation goes through its
// methods so Progress always matches ComputeProgress for the stored values.
// Goals handed out are copies.
type GoalStore struct {
	mu      sync.RWMutex
	goals   []*models.Goal
	nextPos int
	newID   func() uuid.UUID
	now     func() time.Time
}

func NewGoalStore() *GoalStore {
	return &GoalStore{
		newID: uuid.New,
		now:   time.Now,
	}
}

// Restore replaces the collection with previously persisted goals, keeping
// their order and ids. Progress is recomputed rather than trusted.
func (s *GoalStore) Restore(goals []models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = make([]*models.Goal, 0, len(goals))
	s.nextPos = 0
	for _, g := range goals {
		restored := g.Clone()
		restored.Progress = ComputeProgress(restored.InitialValue, restored.CurrentValue, restored.TargetValue)
		if restored.ActionPlan == nil {
			restored.ActionPlan = []models.ActionItem{}
		}
		s.goals = append(s.goals, &restored)
		if restored.Position >= s.nextPos {
			s.nextPos = restored.Position + 1
		}
	}
}

func (s *GoalStore) CreateGoal(biomarkerName string, initialValue, targetValue float64, unit string, deadline time.Time) models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	goal := &models.Goal{
		ID:            s.newID(),
		Position:      s.nextPos,
		BiomarkerName: biomarkerName,
		InitialValue:  initialValue,
		CurrentValue:  initialValue,
		TargetValue:   targetValue,
		Unit:          unit,
		Deadline:      deadline,
		Progress:      0,
		ActionPlan:    GenerateActionPlan(biomarkerName),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range goal.ActionPlan {
		goal.ActionPlan[i].GoalID = goal.ID
	}

	s.nextPos++
	s.goals = append(s.goals, goal)
	return goal.Clone()
}

// UpdateMeasurement records a new biomarker value and recomputes progress.
func (s *GoalStore) UpdateMeasurement(goalID uuid.UUID, value float64) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := s.find(goalID)
	if goal == nil {
		return models.Goal{}, ErrGoalNotFound
	}

	goal.CurrentValue = value
	goal.Progress = ComputeProgress(goal.InitialValue, goal.CurrentValue, goal.TargetValue)
	goal.UpdatedAt = s.now()
	return goal.Clone(), nil
}

// ToggleActionItem flips one action item. Progress is tracked separately and
// does not change.
func (s *GoalStore) ToggleActionItem(goalID uuid.UUID, actionItemID string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := s.find(goalID)
	if goal == nil {
		return models.Goal{}, ErrGoalNotFound
	}

	for i := range goal.ActionPlan {
		if goal.ActionPlan[i].ID == actionItemID {
			goal.ActionPlan[i].Completed = !goal.ActionPlan[i].Completed
			goal.UpdatedAt = s.now()
			return goal.Clone(), nil
		}
	}
	return models.Goal{}, ErrActionItemNotFound
}

// DeleteGoal removes the goal and reports whether it was present. Unknown
// ids are ignored.
func (s *GoalStore) DeleteGoal(goalID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, ok := s.remove(goalID)
	return ok
}

func (s *GoalStore) remove(goalID uuid.UUID) (models.Goal, int, bool) {
	for i, g := range s.goals {
		if g.ID == goalID {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return *g, i, true
		}
	}
	return models.Goal{}, -1, false
}

// replace puts a snapshot back in place of the goal with the same id.
func (s *GoalStore) replace(snapshot models.Goal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal := s.find(snapshot.ID)
	if goal == nil {
		return false
	}
	*goal = snapshot.Clone()
	return true
}

// reinsert restores a removed goal at its former index.
func (s *GoalStore) reinsert(index int, goal models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index > len(s.goals) {
		index = len(s.goals)
	}
	restored := goal.Clone()
	s.goals = append(s.goals, nil)
	copy(s.goals[index+1:], s.goals[index:])
	s.goals[index] = &restored
}

// take removes the goal like DeleteGoal and returns what reinsert needs to
// undo it.
func (s *GoalStore) take(goalID uuid.UUID) (models.Goal, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(goalID)
}

func (s *GoalStore) Goal(goalID uuid.UUID) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal := s.find(goalID)
	if goal == nil {
		return models.Goal{}, ErrGoalNotFound
	}
	return goal.Clone(), nil
}

// Goals returns the collection in insertion order.
func (s *GoalStore) Goals() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g.Clone())
	}
	return out
}

func (s *GoalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals)
}

func (s *GoalStore) find(goalID uuid.UUID) *models.Goal {
	for _, g := range s.goals {
		if g.ID == goalID {
			return g
		}
	}
	return nil
}
