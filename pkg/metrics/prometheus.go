package metrics

import (
	"math"

	"FinCycle/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var phases = []models.Phase{
	models.Phase1, models.Phase2, models.Phase3, models.Phase4, models.PhaseNeutral, models.PhaseError,
}

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	metric        *prometheus.GaugeVec
	phase         *prometheus.GaugeVec
	snapshotRows  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincycle_fetch_duration_seconds",
				Help:    "Duration of observation fetches per series",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"series"},
		),
		fetchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincycle_fetch_errors_total",
				Help: "Failed observation fetches per series",
			},
			[]string{"series"},
		),
		metric: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fincycle_indicator_value",
				Help: "Latest derived metrics per indicator (latest, yoy, mom, accel)",
			},
			[]string{"indicator", "metric"},
		),
		phase: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fincycle_indicator_phase",
				Help: "1 for the current cycle phase of an indicator, 0 otherwise",
			},
			[]string{"indicator", "phase"},
		),
		snapshotRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincycle_snapshot_rows_total",
				Help: "Snapshot rows written per backend",
			},
			[]string{"backend"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincycle_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincycle_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records one observation fetch.
func (r *Recorder) RecordFetch(seriesID string, seconds float64, err error) {
	r.fetchDuration.WithLabelValues(seriesID).Observe(seconds)
	if err != nil {
		r.fetchErrors.WithLabelValues(seriesID).Inc()
	}
}

// RecordIndicator exports the derived metrics and the phase of p. Undefined metrics are not updated.
func (r *Recorder) RecordIndicator(p models.ProcessedIndicator) {
	for name, v := range map[string]float64{
		"latest": p.LatestValue,
		"yoy":    p.YearOverYearChange,
		"mom":    p.SequentialChange,
		"accel":  p.YoYAcceleration,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r.metric.WithLabelValues(p.ID, name).Set(v)
	}
	for _, ph := range phases {
		val := 0.0
		if ph == p.Phase {
			val = 1
		}
		r.phase.WithLabelValues(p.ID, string(ph)).Set(val)
	}
}

// RecordSnapshot counts snapshot rows written to backend.
func (r *Recorder) RecordSnapshot(backend string, rows int) {
	r.snapshotRows.WithLabelValues(backend).Add(float64(rows))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
