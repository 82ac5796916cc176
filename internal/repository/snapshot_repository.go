package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/internal/domain/repository"
	pkgkafka "FinCycle/pkg/kafka"
)

// ClickHouseSnapshotStorage implements SnapshotStorage for ClickHouse.
type ClickHouseSnapshotStorage struct {
	db    *sql.DB
	table string
}

var _ repository.SnapshotStorage = (*ClickHouseSnapshotStorage)(nil)

// NewClickHouseSnapshotStorage creates storage over table, given as "database.table".
func NewClickHouseSnapshotStorage(db *sql.DB, table string) *ClickHouseSnapshotStorage {
	return &ClickHouseSnapshotStorage{db: db, table: table}
}

const snapshotColumns = "snapshot_id, taken_at, indicator_id, kind, latest_date, latest_value, yoy, mom, accel, phase"

// StoreBatch inserts rows in one ClickHouse batch (one transaction on database/sql).
func (s *ClickHouseSnapshotStorage) StoreBatch(ctx context.Context, rows []models.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s)", s.table, snapshotColumns))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if r.IndicatorID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rowArgs(r)...); err != nil {
			return fmt.Errorf("append %s: %w", r.IndicatorID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// History returns the last limit rows of one indicator, newest first.
func (s *ClickHouseSnapshotStorage) History(ctx context.Context, indicatorID string, limit int) ([]models.SnapshotRow, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE indicator_id = ? ORDER BY taken_at DESC LIMIT ?", snapshotColumns, s.table)
	rs, err := s.db.QueryContext(ctx, q, indicatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rs.Close()

	out := make([]models.SnapshotRow, 0, limit)
	for rs.Next() {
		var r models.SnapshotRow
		if err := rs.Scan(
			&r.SnapshotID, &r.TakenAt, &r.IndicatorID, &r.Kind, &r.LatestDate,
			&r.LatestValue, &r.YoY, &r.Sequential, &r.Acceleration, &r.Phase,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if r.LatestDate.Equal(epoch) {
			r.LatestDate = time.Time{}
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

func (s *ClickHouseSnapshotStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the pool belongs to the ClickHouse client.
func (s *ClickHouseSnapshotStorage) Close() error { return nil }

// epoch stands in for a missing latest date, which Date32 cannot hold as Go's zero time.
var epoch = time.Unix(0, 0).UTC()

func rowArgs(r models.SnapshotRow) []interface{} {
	latest := r.LatestDate
	if latest.IsZero() {
		latest = epoch
	}
	return []interface{}{
		r.SnapshotID,
		r.TakenAt.UTC(),
		r.IndicatorID,
		r.Kind,
		latest,
		r.LatestValue,
		r.YoY,
		r.Sequential,
		r.Acceleration,
		r.Phase,
	}
}

// batchPublisher is the part of pkg/kafka.Producer the publisher needs.
type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaSnapshotPublisher publishes one message per snapshot row, keyed by indicator id.
type KafkaSnapshotPublisher struct {
	producer batchPublisher
	topic    string
}

var _ repository.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)

func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) PublishBatch(ctx context.Context, rows []models.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(r.IndicatorID), Value: r})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}
