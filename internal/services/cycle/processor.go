package cycle

import (
	"fmt"
	"math"

	"FinCycle/internal/domain/models"
	"FinCycle/pkg/util"
)

const (
	// MinObservations is the number of valid observations needed for a 12-period YoY change.
	// Acceleration also needs index 13, so with exactly 13 it is NaN and the phase falls to Error.
	MinObservations = 13

	yoyLag = 12

	InsufficientDataLabel = "Insufficient data"
)

// Process derives the cycle metrics of one indicator from newest-first observations.
// It never panics; every failure is reported through Phase Error and Error.
func Process(def models.IndicatorDefinition, observations []models.Observation) models.ProcessedIndicator {
	valid := validObservations(observations)

	if len(valid) < MinObservations {
		return models.ProcessedIndicator{
			IndicatorDefinition: def,
			LatestValue:         math.NaN(),
			LatestDate:          InsufficientDataLabel,
			YearOverYearChange:  math.NaN(),
			SequentialChange:    math.NaN(),
			YoYAcceleration:     math.NaN(),
			Phase:               models.PhaseError,
			Values:              []models.Point{},
			Error: fmt.Sprintf("insufficient data: need at least %d valid observations, got %d",
				MinObservations, len(valid)),
		}
	}

	latest := valid[0]
	yoy := PercentChange(latest.Value, at(valid, yoyLag))
	mom := PercentChange(latest.Value, at(valid, 1))
	prevYoY := PercentChange(at(valid, 1), at(valid, yoyLag+1))

	accel := math.NaN()
	if !math.IsNaN(yoy) && !math.IsNaN(prevYoY) {
		accel = yoy - prevYoY
	}

	return models.ProcessedIndicator{
		IndicatorDefinition: def,
		LatestValue:         latest.Value,
		LatestDate:          util.FormatDisplayDate(latest.Date),
		LatestTime:          latest.Date,
		YearOverYearChange:  yoy,
		SequentialChange:    mom,
		YoYAcceleration:     accel,
		Phase:               Classify(yoy, accel),
		Values:              chronological(valid),
	}
}

// Classify maps the signs of YoY change and acceleration to a phase.
// NaN in either input yields Error; a zero in either yields Neutral.
func Classify(yoy, accel float64) models.Phase {
	if math.IsNaN(yoy) || math.IsNaN(accel) {
		return models.PhaseError
	}
	switch {
	case yoy > 0 && accel > 0:
		return models.Phase1
	case yoy > 0 && accel < 0:
		return models.Phase2
	case yoy < 0 && accel < 0:
		return models.Phase3
	case yoy < 0 && accel > 0:
		return models.Phase4
	default:
		return models.PhaseNeutral
	}
}

// PercentChange is (current - reference) / |reference| * 100.
// A zero reference gives ±Inf (or NaN when current is also zero); NaN inputs give NaN.
func PercentChange(current, reference float64) float64 {
	if math.IsNaN(current) || math.IsNaN(reference) {
		return math.NaN()
	}
	return (current - reference) / math.Abs(reference) * 100
}

// validObservations drops missing values, keeping provider (newest-first) order.
func validObservations(observations []models.Observation) []models.Point {
	out := make([]models.Point, 0, len(observations))
	for _, o := range observations {
		if !o.Valid() {
			continue
		}
		out = append(out, models.Point{Date: o.Date, Value: *o.Value})
	}
	return out
}

// at returns the value at index i or NaN when the series is too short.
func at(points []models.Point, i int) float64 {
	if i < 0 || i >= len(points) {
		return math.NaN()
	}
	return points[i].Value
}

func chronological(newestFirst []models.Point) []models.Point {
	out := make([]models.Point, len(newestFirst))
	for i, p := range newestFirst {
		out[len(newestFirst)-1-i] = p
	}
	return out
}
