package models

import "time"

// Kind is the cyclical category of an indicator.
type Kind string

const (
	KindLeading         Kind = "Leading"
	KindCoincident      Kind = "Coincident"
	KindMarket          Kind = "Market"
	KindCounterCyclical Kind = "Counter-cyclical"
	KindProCyclical     Kind = "Pro-cyclical"
	KindNeutral         Kind = "Neutral"
)

// Frequency is the publication frequency hint of a series.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyAnnual    Frequency = "Annual"
)

// IndicatorDefinition is static configuration for one tracked series.
type IndicatorDefinition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Frequency Frequency `json:"frequency"`
	SourceURL string    `json:"sourceUrl"`
}

// Observation is one provider data point. A nil Value means the provider had no data for Date.
type Observation struct {
	Date  time.Time
	Value *float64
}

// Valid reports whether the observation carries a number.
func (o Observation) Valid() bool { return o.Value != nil }

// Point is a cleaned (date, value) pair used for charting.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Phase is the business-cycle position derived from the signs of YoY change and its acceleration.
type Phase string

const (
	Phase1       Phase = "Phase1"
	Phase2       Phase = "Phase2"
	Phase3       Phase = "Phase3"
	Phase4       Phase = "Phase4"
	PhaseNeutral Phase = "Neutral"
	PhaseError   Phase = "Error"
)

// Description returns the human label of the phase.
func (p Phase) Description() string {
	switch p {
	case Phase1:
		return "accelerating expansion"
	case Phase2:
		return "decelerating expansion"
	case Phase3:
		return "accelerating contraction"
	case Phase4:
		return "decelerating contraction / early recovery"
	case PhaseNeutral:
		return "neutral"
	default:
		return "error"
	}
}

// ProcessedIndicator is a definition plus everything derived from its latest observations.
// Undefined metrics are NaN.
type ProcessedIndicator struct {
	IndicatorDefinition

	LatestValue        float64
	LatestDate         string
	LatestTime         time.Time
	YearOverYearChange float64
	SequentialChange   float64
	YoYAcceleration    float64
	Phase              Phase
	// Values is oldest-first.
	Values []Point
	Error  string
}

// Failed reports whether the indicator could not be classified.
func (p ProcessedIndicator) Failed() bool { return p.Phase == PhaseError }
