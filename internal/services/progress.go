package services

import (
	"math"

	"github.com/arnold/healthgoals-api/internal/models"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseImproving  Phase = "improving"
	PhaseRegressing Phase = "regressing"
)

// ComputeProgress maps a measurement onto 0-100 along the path from initial
// to target. A goal whose initial value already equals its target reports 0.
// Movement away from the target floors at 0 and overshooting caps at 100.
func ComputeProgress(initialValue, currentValue, targetValue float64) int {
	totalChange := math.Abs(initialValue - targetValue)
	if totalChange == 0 {
		return 0
	}

	moved := currentValue - initialValue
	if targetValue < initialValue {
		moved = -moved
	}

	progress := math.Round(moved / totalChange * 100)
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return int(progress)
}

// ClassifyPhase reports where a goal stands without storing anything.
func ClassifyPhase(goal models.Goal) Phase {
	return classifyValues(goal.InitialValue, goal.CurrentValue, goal.TargetValue, goal.Progress)
}

func classifyValues(initialValue, currentValue, targetValue float64, progress int) Phase {
	if progress == 0 && currentValue == initialValue {
		return PhaseNotStarted
	}
	if math.Abs(currentValue-targetValue) < math.Abs(initialValue-targetValue) {
		return PhaseImproving
	}
	return PhaseRegressing
}

// ProgressReport is the calculator result exposed by the API and CLI.
func ProgressReport(initialValue, currentValue, targetValue float64) models.ProgressResponse {
	progress := ComputeProgress(initialValue, currentValue, targetValue)
	return models.ProgressResponse{
		InitialValue: initialValue,
		CurrentValue: currentValue,
		TargetValue:  targetValue,
		Progress:     progress,
		Phase:        string(classifyValues(initialValue, currentValue, targetValue, progress)),
	}
}
