package repository

import (
	"context"

	"FinCycle/internal/domain/models"
)

// ObservationSource returns raw observations for a series, newest first.
type ObservationSource interface {
	// Validate reports missing credentials without touching the network.
	Validate() error
	Observations(ctx context.Context, seriesID string) ([]models.Observation, error)
}

// SnapshotStorage persists board snapshots and serves their history.
type SnapshotStorage interface {
	StoreBatch(ctx context.Context, rows []models.SnapshotRow) error
	History(ctx context.Context, indicatorID string, limit int) ([]models.SnapshotRow, error)
	Health(ctx context.Context) error
	Close() error
}

// SnapshotPublisher ships snapshot rows to a message bus.
type SnapshotPublisher interface {
	PublishBatch(ctx context.Context, rows []models.SnapshotRow) error
	Close() error
}

type Metrics interface {
	RecordFetch(seriesID string, seconds float64, err error)
	RecordIndicator(p models.ProcessedIndicator)
	RecordSnapshot(backend string, rows int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
