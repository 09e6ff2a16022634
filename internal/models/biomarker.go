package models

type BiomarkerStatus string

const (
	BiomarkerHigh       BiomarkerStatus = "high"
	BiomarkerBorderline BiomarkerStatus = "borderline"
	BiomarkerOptimal    BiomarkerStatus = "optimal"
)

// Biomarker is a lab result offered as the starting point of a goal.
type Biomarker struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Current      float64         `json:"current"`
	Unit         string          `json:"unit"`
	OptimalRange string          `json:"optimalRange"`
	Status       BiomarkerStatus `json:"status"`
}

type ActionPlanResponse struct {
	Biomarker      string         `json:"biomarker"`
	ActionPlan     []ActionItem   `json:"actionPlan"`
	CategoryCounts map[string]int `json:"categoryCounts"`
}

type ProgressResponse struct {
	InitialValue float64 `json:"initialValue"`
	CurrentValue float64 `json:"currentValue"`
	TargetValue  float64 `json:"targetValue"`
	Progress     int     `json:"progressPercent"`
	Phase        string  `json:"phase"`
}
