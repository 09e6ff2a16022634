package handlers

import (
	"testing"
	"time"

	"github.com/arnold/healthgoals-api/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCreateGoalInput(t *testing.T) {
	now := time.Date(2026, time.January, 31, 15, 4, 0, 0, time.UTC)
	h := &GoalHandler{now: func() time.Time { return now }}

	tests := []struct {
		name         string
		req          models.CreateGoalRequest
		wantErr      bool
		wantName     string
		wantInitial  float64
		wantUnit     string
		wantDeadline string
	}{
		{
			name:         "explicit values",
			req:          models.CreateGoalRequest{BiomarkerName: " Glucose ", InitialValue: ptr(120.0), TargetValue: ptr(95.0), Unit: ptr("mg/dL"), Deadline: "2026-03-15"},
			wantName:     "Glucose",
			wantInitial:  120,
			wantUnit:     "mg/dL",
			wantDeadline: "2026-03-15",
		},
		{
			name:         "catalog fills initial and unit",
			req:          models.CreateGoalRequest{BiomarkerName: "hba1c", TargetValue: ptr(5.6)},
			wantName:     "HbA1c",
			wantInitial:  6.2,
			wantUnit:     "%",
			wantDeadline: "2026-05-01",
		},
		{
			name:         "duration",
			req:          models.CreateGoalRequest{BiomarkerName: "LDL Cholesterol", TargetValue: ptr(95.0), DurationMonths: 12},
			wantName:     "LDL Cholesterol",
			wantInitial:  115,
			wantUnit:     "mg/dL",
			wantDeadline: "2027-01-31",
		},
		{
			name:         "custom biomarker",
			req:          models.CreateGoalRequest{BiomarkerName: "Ferritin", InitialValue: ptr(20.0), TargetValue: ptr(50.0), Deadline: "2026-06-01"},
			wantName:     "Ferritin",
			wantInitial:  20,
			wantDeadline: "2026-06-01",
		},
		{name: "blank name", req: models.CreateGoalRequest{BiomarkerName: "  ", TargetValue: ptr(1.0)}, wantErr: true},
		{name: "no target", req: models.CreateGoalRequest{BiomarkerName: "Glucose"}, wantErr: true},
		{name: "custom without initial", req: models.CreateGoalRequest{BiomarkerName: "Ferritin", TargetValue: ptr(50.0)}, wantErr: true},
		{name: "bad duration", req: models.CreateGoalRequest{BiomarkerName: "Glucose", TargetValue: ptr(95.0), DurationMonths: 4}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, msg := h.createGoalInput(tt.req)
			if tt.wantErr {
				if msg == "" {
					t.Fatalf("expected rejection, got %+v", input)
				}
				return
			}
			if msg != "" {
				t.Fatalf("unexpected rejection: %s", msg)
			}
			if input.BiomarkerName != tt.wantName || input.InitialValue != tt.wantInitial || input.Unit != tt.wantUnit {
				t.Fatalf("unexpected input: %+v", input)
			}
			if got := input.Deadline.Format(deadlineLayout); got != tt.wantDeadline {
				t.Fatalf("expected deadline %s, got %s", tt.wantDeadline, got)
			}
		})
	}
}
