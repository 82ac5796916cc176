package usecase

import (
	"context"
	"errors"
	"time"

	"FinCycle/internal/domain/models"
	drepo "FinCycle/internal/domain/repository"
	domsvc "FinCycle/internal/domain/service"
	applogger "FinCycle/pkg/logger"
	"FinCycle/pkg/util"

	"github.com/google/uuid"
)

const (
	DefaultTailSize = 120
	summaryPlaces   = 2
)

// IndicatorBoard turns aggregated indicators into dashboard views.
type IndicatorBoard struct {
	agg         *IndicatorAggregator
	defs        []models.IndicatorDefinition
	tail        int
	snapshots   *SnapshotProcessor
	storage     drepo.SnapshotStorage
	commentator domsvc.Commentator
	metrics     drepo.Metrics
	log         *applogger.Logger
	now         func() time.Time
}

// NewIndicatorBoard wires a board. snapshots, storage and commentator may be nil.
func NewIndicatorBoard(
	agg *IndicatorAggregator,
	defs []models.IndicatorDefinition,
	tail int,
	snapshots *SnapshotProcessor,
	storage drepo.SnapshotStorage,
	commentator domsvc.Commentator,
	metrics drepo.Metrics,
	log *applogger.Logger,
) *IndicatorBoard {
	if tail <= 0 {
		tail = DefaultTailSize
	}
	if log == nil {
		log = applogger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &IndicatorBoard{
		agg:         agg,
		defs:        defs,
		tail:        tail,
		snapshots:   snapshots,
		storage:     storage,
		commentator: commentator,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

func (b *IndicatorBoard) Definitions() []models.IndicatorDefinition { return b.defs }

// Board computes every configured indicator. tail <= 0 uses the configured tail size.
func (b *IndicatorBoard) Board(ctx context.Context, tail int) (*models.Board, error) {
	start := b.now()
	processed, err := b.agg.Aggregate(ctx, b.defs)
	if err != nil {
		b.metrics.RecordError("aggregate")
		return nil, err
	}
	b.metrics.RecordLatency("board", time.Since(start).Seconds())

	board := &models.Board{
		GeneratedAt: b.now().UTC(),
		Strategy:    string(b.agg.Strategy()),
		Indicators:  make([]models.IndicatorView, len(processed)),
	}
	for i, p := range processed {
		b.metrics.RecordIndicator(p)
		board.Indicators[i] = NewIndicatorView(p, b.tailSize(tail))
	}

	b.snapshot(ctx, board)
	return board, nil
}

// Indicator computes a single configured indicator.
func (b *IndicatorBoard) Indicator(ctx context.Context, id string, tail int) (*models.IndicatorView, error) {
	def, ok := b.definition(id)
	if !ok {
		return nil, models.ErrIndicatorNotFound
	}
	processed, err := b.agg.Aggregate(ctx, []models.IndicatorDefinition{def})
	if err != nil {
		b.metrics.RecordError("aggregate")
		return nil, err
	}
	b.metrics.RecordIndicator(processed[0])
	v := NewIndicatorView(processed[0], b.tailSize(tail))
	return &v, nil
}

// History returns stored snapshot rows of one indicator, newest first.
func (b *IndicatorBoard) History(ctx context.Context, id string, limit int) ([]models.SnapshotRow, error) {
	if _, ok := b.definition(id); !ok {
		return nil, models.ErrIndicatorNotFound
	}
	if b.storage == nil {
		return nil, &models.ConfigError{Field: "clickhouse.host", Message: "snapshot history is not configured"}
	}
	return b.storage.History(ctx, id, limit)
}

// Commentary asks the commentator to summarize the current board.
func (b *IndicatorBoard) Commentary(ctx context.Context) (string, error) {
	if b.commentator == nil {
		return "", models.ErrCommentaryDisabled
	}
	board, err := b.Board(ctx, 0)
	if err != nil {
		return "", err
	}
	text, err := b.commentator.Summarize(ctx, board.Indicators)
	if err != nil {
		if !errors.Is(err, models.ErrCommentaryDisabled) {
			b.metrics.RecordError("commentary")
		}
		return "", err
	}
	return text, nil
}

func (b *IndicatorBoard) snapshot(ctx context.Context, board *models.Board) {
	if b.snapshots == nil || b.snapshots.Backend() == BackendNone {
		return
	}
	snap := NewSnapshot(uuid.NewString(), board)
	if err := b.snapshots.Process(ctx, snap); err != nil {
		b.log.Warn("snapshot failed",
			applogger.String("snapshot_id", snap.ID),
			applogger.String("backend", b.snapshots.Backend()),
			applogger.Error(err),
		)
	}
}

func (b *IndicatorBoard) definition(id string) (models.IndicatorDefinition, bool) {
	for _, d := range b.defs {
		if d.ID == id {
			return d, true
		}
	}
	return models.IndicatorDefinition{}, false
}

func (b *IndicatorBoard) tailSize(requested int) int {
	if requested <= 0 {
		return b.tail
	}
	return requested
}

// NewIndicatorView annotates a processed indicator with its last tail values and a rounded summary.
func NewIndicatorView(p models.ProcessedIndicator, tail int) models.IndicatorView {
	values := p.Values
	if tail > 0 && len(values) > tail {
		values = values[len(values)-tail:]
	}
	if values == nil {
		values = []models.Point{}
	}
	return models.IndicatorView{
		IndicatorDefinition: p.IndicatorDefinition,
		LatestDate:          p.LatestDate,
		Phase:               p.Phase,
		PhaseDescription:    p.Phase.Description(),
		Summary: models.Summary{
			LatestValue:  util.RoundPtr(p.LatestValue, summaryPlaces),
			YoY:          util.RoundPtr(p.YearOverYearChange, summaryPlaces),
			Sequential:   util.RoundPtr(p.SequentialChange, summaryPlaces),
			Acceleration: util.RoundPtr(p.YoYAcceleration, summaryPlaces),
		},
		Tail:      values,
		Error:     p.Error,
		Processed: p,
	}
}

// NewSnapshot flattens a board into snapshot rows.
func NewSnapshot(id string, board *models.Board) *models.Snapshot {
	snap := &models.Snapshot{ID: id, TakenAt: board.GeneratedAt, Rows: make([]models.SnapshotRow, 0, len(board.Indicators))}
	for _, v := range board.Indicators {
		p := v.Processed
		snap.Rows = append(snap.Rows, models.SnapshotRow{
			SnapshotID:   id,
			TakenAt:      board.GeneratedAt,
			IndicatorID:  p.ID,
			Kind:         string(p.Kind),
			LatestDate:   p.LatestTime,
			LatestValue:  p.LatestValue,
			YoY:          p.YearOverYearChange,
			Sequential:   p.SequentialChange,
			Acceleration: p.YoYAcceleration,
			Phase:        string(p.Phase),
		})
	}
	return snap
}
