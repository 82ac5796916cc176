package models

import "time"

// Summary is the tabular projection of an indicator; nil means the metric is undefined.
type Summary struct {
	LatestValue  *float64 `json:"latestValue"`
	YoY          *float64 `json:"yoy"`
	Sequential   *float64 `json:"mom"`
	Acceleration *float64 `json:"accel"`
}

// IndicatorView is what the dashboard receives for one indicator.
type IndicatorView struct {
	IndicatorDefinition
	LatestDate       string  `json:"latestDate"`
	Phase            Phase   `json:"phase"`
	PhaseDescription string  `json:"phaseDescription"`
	Summary          Summary `json:"summary"`
	Tail             []Point `json:"values"`
	Error            string  `json:"error,omitempty"`

	Processed ProcessedIndicator `json:"-"`
}

// Board is one full computation over the configured indicators.
type Board struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Strategy    string          `json:"strategy"`
	Indicators  []IndicatorView `json:"indicators"`
}

// Snapshot is a persisted copy of a board.
type Snapshot struct {
	ID      string
	TakenAt time.Time
	Rows    []SnapshotRow
}

// SnapshotRow is one indicator of a snapshot. Non-finite metrics are stored as NaN/Inf.
type SnapshotRow struct {
	SnapshotID   string    `json:"snapshot_id"`
	TakenAt      time.Time `json:"taken_at"`
	IndicatorID  string    `json:"indicator_id"`
	Kind         string    `json:"kind"`
	LatestDate   time.Time `json:"latest_date"`
	LatestValue  float64   `json:"latest_value"`
	YoY          float64   `json:"yoy"`
	Sequential   float64   `json:"mom"`
	Acceleration float64   `json:"accel"`
	Phase        string    `json:"phase"`
}
