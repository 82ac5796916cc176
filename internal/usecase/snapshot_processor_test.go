package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"FinCycle/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{ID: "s1", Rows: []models.SnapshotRow{{IndicatorID: "A"}, {IndicatorID: "B"}}}
}

func TestSnapshotProcessorRoutes(t *testing.T) {
	storage := &memoryStorage{}
	pub := &memoryPublisher{}

	require.NoError(t, NewSnapshotProcessor(pub, storage, nil, BackendKafka).Process(context.Background(), testSnapshot()))
	assert.Len(t, pub.rows, 2)
	assert.Empty(t, storage.rows)

	require.NoError(t, NewSnapshotProcessor(pub, storage, nil, BackendClickHouse).Process(context.Background(), testSnapshot()))
	assert.Len(t, storage.rows, 2)

	require.NoError(t, NewSnapshotProcessor(nil, nil, nil, "").Process(context.Background(), testSnapshot()))
}

func TestSnapshotProcessorErrors(t *testing.T) {
	err := NewSnapshotProcessor(nil, nil, nil, BackendKafka).Process(context.Background(), testSnapshot())
	assert.ErrorContains(t, err, "publisher not configured")

	err = NewSnapshotProcessor(nil, nil, nil, "s3").Process(context.Background(), testSnapshot())
	assert.ErrorContains(t, err, "unknown backend")

	storage := &memoryStorage{err: errors.New("down")}
	err = NewSnapshotProcessor(nil, storage, nil, BackendClickHouse).Process(context.Background(), testSnapshot())
	assert.ErrorContains(t, err, "s1")
}

func TestSnapshotProcessorClose(t *testing.T) {
	storage := &memoryStorage{}
	NewSnapshotProcessor(&memoryPublisher{}, storage, nil, BackendClickHouse).Close()
	assert.True(t, storage.closed)
}

func TestKafkaSnapshotHandler(t *testing.T) {
	storage := &memoryStorage{}
	metrics := newRecordingMetrics()
	h := NewKafkaSnapshotHandler("indicator_snapshots", storage, metrics)
	assert.Equal(t, "indicator_snapshots", h.Topic())

	row := models.SnapshotRow{
		SnapshotID:   "s1",
		TakenAt:      time.Now().Add(-time.Second).UTC(),
		IndicatorID:  "ICSA",
		LatestValue:  220000,
		YoY:          math.NaN(),
		Acceleration: math.Inf(1),
		Phase:        string(models.PhaseError),
	}
	b, err := json.Marshal(row)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), b))
	require.Len(t, storage.rows, 1)
	assert.Equal(t, "ICSA", storage.rows[0].IndicatorID)
	assert.True(t, math.IsNaN(storage.rows[0].YoY))
	assert.True(t, math.IsInf(storage.rows[0].Acceleration, 1))
	assert.Equal(t, 1, metrics.snapshots[BackendClickHouse])
}

func TestKafkaSnapshotHandlerRejectsBadMessages(t *testing.T) {
	storage := &memoryStorage{}
	metrics := newRecordingMetrics()
	h := NewKafkaSnapshotHandler("t", storage, metrics)

	assert.Error(t, h.Handle(context.Background(), []byte("{")))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"snapshot_id":"x"}`)))
	assert.Empty(t, storage.rows)
	assert.Equal(t, []string{"consumer_unmarshal", "consumer_invalid"}, metrics.errors)
}
