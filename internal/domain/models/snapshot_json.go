package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// snapshotRowJSON is the wire form of SnapshotRow. Metrics are strings so NaN and ±Inf survive.
type snapshotRowJSON struct {
	SnapshotID   string    `json:"snapshot_id"`
	TakenAt      time.Time `json:"taken_at"`
	IndicatorID  string    `json:"indicator_id"`
	Kind         string    `json:"kind"`
	LatestDate   time.Time `json:"latest_date"`
	LatestValue  string    `json:"latest_value"`
	YoY          string    `json:"yoy"`
	Sequential   string    `json:"mom"`
	Acceleration string    `json:"accel"`
	Phase        string    `json:"phase"`
}

func (r SnapshotRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotRowJSON{
		SnapshotID:   r.SnapshotID,
		TakenAt:      r.TakenAt,
		IndicatorID:  r.IndicatorID,
		Kind:         r.Kind,
		LatestDate:   r.LatestDate,
		LatestValue:  formatMetric(r.LatestValue),
		YoY:          formatMetric(r.YoY),
		Sequential:   formatMetric(r.Sequential),
		Acceleration: formatMetric(r.Acceleration),
		Phase:        r.Phase,
	})
}

func (r *SnapshotRow) UnmarshalJSON(b []byte) error {
	var w snapshotRowJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := SnapshotRow{
		SnapshotID:  w.SnapshotID,
		TakenAt:     w.TakenAt,
		IndicatorID: w.IndicatorID,
		Kind:        w.Kind,
		LatestDate:  w.LatestDate,
		Phase:       w.Phase,
	}
	var err error
	if out.LatestValue, err = parseMetric("latest_value", w.LatestValue); err != nil {
		return err
	}
	if out.YoY, err = parseMetric("yoy", w.YoY); err != nil {
		return err
	}
	if out.Sequential, err = parseMetric("mom", w.Sequential); err != nil {
		return err
	}
	if out.Acceleration, err = parseMetric("accel", w.Acceleration); err != nil {
		return err
	}
	*r = out
	return nil
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseMetric accepts what formatMetric writes ("NaN", "+Inf", "-Inf" included). Empty means NaN.
func parseMetric(field, s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("snapshot row %s: %w", field, err)
	}
	return v, nil
}
