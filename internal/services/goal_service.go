package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arnold/healthgoals-api/internal/models"
	"github.com/google/uuid"
)

var (
	ErrLoadGoalsFailed   = errors.New("load goals failed")
	ErrPersistGoalFailed = errors.New("persist goal failed")
)

// Goal event types published to live subscribers.
const (
	EventGoalCreated   = "goal_created"
	EventGoalUpdated   = "goal_updated"
	EventGoalCompleted = "goal_completed"
	EventGoalDeleted   = "goal_deleted"
)

type GoalEvent struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	GoalID    string       `json:"goalId"`
	Data      *models.Goal `json:"data,omitempty"`
}

type GoalRepository interface {
	ListBySession(sessionID uuid.UUID) ([]models.Goal, error)
	Save(goal *models.Goal) error
	Delete(sessionID, goalID uuid.UUID) error
}

type Notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, title, body string, data map[string]string)
}

type Broadcaster interface {
	Broadcast(sessionID uuid.UUID, event GoalEvent)
}

type CreateGoalInput struct {
	BiomarkerName string
	InitialValue  float64
	TargetValue   float64
	Unit          string
	Deadline      time.Time
}

// GoalService keeps one GoalStore per session. A mutation and its write to
// the repository form one unit: when the write fails the store is rolled back
// and the caller gets ErrPersistGoalFailed.
type GoalService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionGoals
	repo     GoalRepository
	notifier Notifier
	events   Broadcaster
	seedDemo bool
	now      func() time.Time
}

// sessionGoals serializes the mutations of one session so a store change,
// its persistence and any rollback are never interleaved.
type sessionGoals struct {
	mu       sync.Mutex
	store    *GoalStore
	lastUsed time.Time
}

func NewGoalService(repo GoalRepository, notifier Notifier, events Broadcaster, seedDemo bool) *GoalService {
	return &GoalService{
		sessions: make(map[uuid.UUID]*sessionGoals),
		repo:     repo,
		notifier: notifier,
		events:   events,
		seedDemo: seedDemo,
		now:      time.Now,
	}
}

func (s *GoalService) sessionFor(sessionID uuid.UUID) (*sessionGoals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sg, ok := s.sessions[sessionID]; ok {
		sg.lastUsed = s.now()
		return sg, nil
	}

	store := NewGoalStore()
	if s.repo != nil {
		goals, err := s.repo.ListBySession(sessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadGoalsFailed, err)
		}
		store.Restore(goals)
	}
	sg := &sessionGoals{store: store, lastUsed: s.now()}
	s.sessions[sessionID] = sg
	return sg, nil
}

// EvictIdle drops the in-memory goals of sessions unused for longer than
// idle and returns how many were dropped. Persisted goals are reloaded on the
// next request for the session.
func (s *GoalService) EvictIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	evicted := 0
	for id, sg := range s.sessions {
		if sg.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartEviction runs EvictIdle every interval until ctx is done.
func (s *GoalService) StartEviction(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.EvictIdle(idle); n > 0 {
					slog.Debug("evicted idle goal sessions", "count", n)
				}
			}
		}
	}()
}

// Sessions reports how many sessions currently hold goals in memory.
func (s *GoalService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SessionStarted seeds the demo goals into a brand new session when enabled.
func (s *GoalService) SessionStarted(ctx context.Context, sessionID uuid.UUID) error {
	if !s.seedDemo {
		return nil
	}
	for _, seed := range demoGoals() {
		goal, err := s.Create(ctx, sessionID, seed.input)
		if err != nil {
			return err
		}
		if seed.measurement != nil {
			if _, err := s.UpdateMeasurement(ctx, sessionID, goal.ID, *seed.measurement); err != nil {
				return err
			}
		}
		for _, itemID := range seed.completed {
			if _, err := s.ToggleActionItem(ctx, sessionID, goal.ID, itemID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *GoalService) List(sessionID uuid.UUID) ([]models.Goal, error) {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return nil, err
	}
	return sg.store.Goals(), nil
}

func (s *GoalService) Get(sessionID, goalID uuid.UUID) (models.Goal, error) {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return models.Goal{}, err
	}
	return sg.store.Goal(goalID)
}

func (s *GoalService) Create(ctx context.Context, sessionID uuid.UUID, in CreateGoalInput) (models.Goal, error) {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return models.Goal{}, err
	}
	sg.mu.Lock()
	defer sg.mu.Unlock()

	goal := sg.store.CreateGoal(in.BiomarkerName, in.InitialValue, in.TargetValue, in.Unit, in.Deadline)
	goal.SessionID = sessionID
	if err := s.persist(&goal); err != nil {
		sg.store.DeleteGoal(goal.ID)
		return models.Goal{}, err
	}

	s.publish(sessionID, EventGoalCreated, goal)
	return goal, nil
}

func (s *GoalService) UpdateMeasurement(ctx context.Context, sessionID, goalID uuid.UUID, value float64) (models.Goal, error) {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return models.Goal{}, err
	}
	sg.mu.Lock()
	defer sg.mu.Unlock()

	before, err := sg.store.Goal(goalID)
	if err != nil {
		return models.Goal{}, err
	}

	goal, err := sg.store.UpdateMeasurement(goalID, value)
	if err != nil {
		return models.Goal{}, err
	}
	goal.SessionID = sessionID
	if err := s.persist(&goal); err != nil {
		sg.store.replace(before)
		return models.Goal{}, err
	}

	s.publish(sessionID, EventGoalUpdated, goal)
	if before.Progress < 100 && goal.Progress == 100 {
		s.publish(sessionID, EventGoalCompleted, goal)
		if s.notifier != nil {
			s.notifier.Notify(ctx, sessionID,
				"Target reached",
				fmt.Sprintf("%s is at %g %s, right on target.", goal.BiomarkerName, goal.CurrentValue, goal.Unit),
				map[string]string{"goalId": goal.ID.String(), "type": EventGoalCompleted},
			)
		}
	}
	return goal, nil
}

func (s *GoalService) ToggleActionItem(ctx context.Context, sessionID, goalID uuid.UUID, actionItemID string) (models.Goal, error) {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return models.Goal{}, err
	}
	sg.mu.Lock()
	defer sg.mu.Unlock()

	before, err := sg.store.Goal(goalID)
	if err != nil {
		return models.Goal{}, err
	}

	goal, err := sg.store.ToggleActionItem(goalID, actionItemID)
	if err != nil {
		return models.Goal{}, err
	}
	goal.SessionID = sessionID
	if err := s.persist(&goal); err != nil {
		sg.store.replace(before)
		return models.Goal{}, err
	}

	s.publish(sessionID, EventGoalUpdated, goal)
	return goal, nil
}

// Delete removes the goal if present. Deleting an unknown id succeeds.
func (s *GoalService) Delete(ctx context.Context, sessionID, goalID uuid.UUID) error {
	sg, err := s.sessionFor(sessionID)
	if err != nil {
		return err
	}
	sg.mu.Lock()
	defer sg.mu.Unlock()

	removed, index, existed := sg.store.take(goalID)
	if !existed {
		return nil
	}

	if s.repo != nil {
		if err := s.repo.Delete(sessionID, goalID); err != nil {
			sg.store.reinsert(index, removed)
			slog.Error("failed to delete goal", "error", err, "session_id", sessionID, "goal_id", goalID)
			return fmt.Errorf("%w: %v", ErrPersistGoalFailed, err)
		}
	}

	if s.events != nil {
		s.events.Broadcast(sessionID, GoalEvent{
			Type:      EventGoalDeleted,
			SessionID: sessionID.String(),
			GoalID:    goalID.String(),
		})
	}
	return nil
}

func (s *GoalService) persist(goal *models.Goal) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(goal); err != nil {
		slog.Error("failed to persist goal", "error", err, "session_id", goal.SessionID, "goal_id", goal.ID)
		return fmt.Errorf("%w: %v", ErrPersistGoalFailed, err)
	}
	return nil
}

func (s *GoalService) publish(sessionID uuid.UUID, eventType string, goal models.Goal) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(sessionID, GoalEvent{
		Type:      eventType,
		SessionID: sessionID.String(),
		GoalID:    goal.ID.String(),
		Data:      &goal,
	})
}

// Describe attaches the read-time summary shown next to a goal.
func Describe(goal models.Goal) models.GoalResponse {
	return models.GoalResponse{
		Goal:             goal,
		Phase:            string(ClassifyPhase(goal)),
		CompletedActions: goal.CompletedActions(),
		TotalActions:     len(goal.ActionPlan),
		CategoryCounts:   CategoryCounts(goal.ActionPlan),
	}
}

type demoGoal struct {
	input       CreateGoalInput
	measurement *float64
	completed   []string
}

func demoGoals() []demoGoal {
	ldlMeasurement := 108.0
	return []demoGoal{
		{
			input: CreateGoalInput{
				BiomarkerName: "Glucose",
				InitialValue:  118,
				TargetValue:   95,
				Unit:          "mg/dL",
				Deadline:      time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			},
			completed: []string{"1"},
		},
		{
			input: CreateGoalInput{
				BiomarkerName: "LDL Cholesterol",
				InitialValue:  115,
				TargetValue:   95,
				Unit:          "mg/dL",
				Deadline:      time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC),
			},
			measurement: &ldlMeasurement,
			completed:   []string{"1"},
		},
	}
}
