package usecase

import (
	"context"
	"fmt"
	"time"

	"FinCycle/internal/domain/models"
	drepo "FinCycle/internal/domain/repository"
)

const (
	BackendNone       = "none"
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
)

// SnapshotProcessor routes board snapshots to the configured backend.
type SnapshotProcessor struct {
	pub     drepo.SnapshotPublisher
	store   drepo.SnapshotStorage
	metrics drepo.Metrics
	backend string
}

// NewSnapshotProcessor creates a SnapshotProcessor. pub and store may be nil when unused by backend.
func NewSnapshotProcessor(
	pub drepo.SnapshotPublisher,
	store drepo.SnapshotStorage,
	metrics drepo.Metrics,
	backend string,
) *SnapshotProcessor {
	if backend == "" {
		backend = BackendNone
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SnapshotProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

func (p *SnapshotProcessor) Backend() string { return p.backend }

// Process stores or publishes every row of the snapshot.
func (p *SnapshotProcessor) Process(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil || len(snap.Rows) == 0 || p.backend == BackendNone {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		if p.pub == nil {
			err = fmt.Errorf("kafka publisher not configured")
			break
		}
		err = p.pub.PublishBatch(ctx, snap.Rows)
	case BackendClickHouse:
		if p.store == nil {
			err = fmt.Errorf("clickhouse storage not configured")
			break
		}
		err = p.store.StoreBatch(ctx, snap.Rows)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("snapshot")
		return fmt.Errorf("process snapshot %s: %w", snap.ID, err)
	}

	p.metrics.RecordSnapshot(p.backend, len(snap.Rows))
	p.metrics.RecordLatency("snapshot", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
