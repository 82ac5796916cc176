package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinCycle/internal/domain/models"
)

// fakeSource serves canned observations per series with optional delays and failures.
type fakeSource struct {
	mu       sync.Mutex
	series   map[string][]models.Observation
	delays   map[string]time.Duration
	failures map[string]error
	invalid  error
	calls    []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		series:   map[string][]models.Observation{},
		delays:   map[string]time.Duration{},
		failures: map[string]error{},
	}
}

func (s *fakeSource) Validate() error { return s.invalid }

func (s *fakeSource) Observations(ctx context.Context, id string) ([]models.Observation, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	delay, err, obs := s.delays[id], s.failures[id], s.series[id]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if obs == nil {
		return nil, fmt.Errorf("unknown series %s", id)
	}
	return obs, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// growing returns n monthly newest-first observations, value start+i for the i-th oldest.
func growing(n int, start float64) []models.Observation {
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Observation, n)
	for i := range out {
		v := start + float64(n-1-i)
		out[i] = models.Observation{Date: end.AddDate(0, -i, 0), Value: &v}
	}
	return out
}

func defs(ids ...string) []models.IndicatorDefinition {
	out := make([]models.IndicatorDefinition, len(ids))
	for i, id := range ids {
		out[i] = models.IndicatorDefinition{ID: id, Name: id, Kind: models.KindLeading, Frequency: models.FrequencyMonthly}
	}
	return out
}

type recordingMetrics struct {
	mu        sync.Mutex
	fetches   map[string]error
	errors    []string
	snapshots map[string]int
	indicator []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{fetches: map[string]error{}, snapshots: map[string]int{}}
}

func (m *recordingMetrics) RecordFetch(id string, _ float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[id] = err
}

func (m *recordingMetrics) RecordIndicator(p models.ProcessedIndicator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indicator = append(m.indicator, p.ID)
}

func (m *recordingMetrics) RecordSnapshot(backend string, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[backend] += rows
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *recordingMetrics) RecordLatency(string, float64) {}

type memoryStorage struct {
	mu     sync.Mutex
	rows   []models.SnapshotRow
	err    error
	closed bool
}

func (s *memoryStorage) StoreBatch(_ context.Context, rows []models.SnapshotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *memoryStorage) History(_ context.Context, id string, limit int) ([]models.SnapshotRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SnapshotRow
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if s.rows[i].IndicatorID == id {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}

func (s *memoryStorage) Health(context.Context) error { return nil }

func (s *memoryStorage) Close() error {
	s.closed = true
	return nil
}

type memoryPublisher struct {
	rows []models.SnapshotRow
}

func (p *memoryPublisher) PublishBatch(_ context.Context, rows []models.SnapshotRow) error {
	p.rows = append(p.rows, rows...)
	return nil
}

func (p *memoryPublisher) Close() error { return nil }

type stubCommentator struct {
	got  []models.IndicatorView
	text string
	err  error
}

func (c *stubCommentator) Summarize(_ context.Context, views []models.IndicatorView) (string, error) {
	c.got = views
	return c.text, c.err
}

var errRateLimited = errors.New("rate limited")
