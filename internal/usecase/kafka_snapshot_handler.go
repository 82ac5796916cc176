package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FinCycle/internal/domain/models"
	domrepo "FinCycle/internal/domain/repository"
	pkgkafka "FinCycle/pkg/kafka"
)

// KafkaSnapshotHandler consumes snapshot rows from Kafka and writes them to storage.
type KafkaSnapshotHandler struct {
	topic   string
	storage domrepo.SnapshotStorage
	metrics domrepo.Metrics
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotHandler)(nil)

func NewKafkaSnapshotHandler(topic string, storage domrepo.SnapshotStorage, metrics domrepo.Metrics) *KafkaSnapshotHandler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &KafkaSnapshotHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaSnapshotHandler) Topic() string { return h.topic }

// Handle stores one snapshot row message.
func (h *KafkaSnapshotHandler) Handle(ctx context.Context, b []byte) error {
	var row models.SnapshotRow
	if err := json.Unmarshal(b, &row); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode snapshot row: %w", err)
	}
	if row.IndicatorID == "" {
		h.metrics.RecordError("consumer_invalid")
		return fmt.Errorf("snapshot row without indicator_id")
	}
	if !row.TakenAt.IsZero() {
		h.metrics.RecordLatency("snapshot_ingest_lag", time.Since(row.TakenAt).Seconds())
	}

	start := time.Now()
	err := h.storage.StoreBatch(ctx, []models.SnapshotRow{row})
	h.metrics.RecordLatency("ch_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordSnapshot(BackendClickHouse, 1)
	return nil
}
