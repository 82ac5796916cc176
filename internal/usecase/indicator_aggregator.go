package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"FinCycle/internal/domain/models"
	drepo "FinCycle/internal/domain/repository"
	"FinCycle/internal/services/cycle"

	"golang.org/x/sync/errgroup"
)

// JoinStrategy decides how concurrent indicator fetches are joined.
type JoinStrategy string

const (
	// JoinAll fails the whole batch on the first fetch error.
	JoinAll JoinStrategy = "all"
	// JoinSettled waits for every fetch and turns failures into Phase Error records.
	JoinSettled JoinStrategy = "settled"
)

// ParseJoinStrategy maps a config value to a strategy. Empty means JoinAll.
func ParseJoinStrategy(s string) (JoinStrategy, error) {
	switch JoinStrategy(s) {
	case "", JoinAll:
		return JoinAll, nil
	case JoinSettled:
		return JoinSettled, nil
	default:
		return "", fmt.Errorf("unknown join strategy %q", s)
	}
}

type AggregatorConfig struct {
	Strategy JoinStrategy
	// Timeout bounds one Aggregate call; zero means the caller's context only.
	Timeout time.Duration
}

// IndicatorAggregator fetches and processes indicators concurrently.
type IndicatorAggregator struct {
	source  drepo.ObservationSource
	metrics drepo.Metrics
	cfg     AggregatorConfig
}

func NewIndicatorAggregator(source drepo.ObservationSource, metrics drepo.Metrics, cfg AggregatorConfig) *IndicatorAggregator {
	if cfg.Strategy == "" {
		cfg.Strategy = JoinAll
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &IndicatorAggregator{source: source, metrics: metrics, cfg: cfg}
}

func (a *IndicatorAggregator) Strategy() JoinStrategy { return a.cfg.Strategy }

// Aggregate returns one ProcessedIndicator per definition, in input order.
func (a *IndicatorAggregator) Aggregate(ctx context.Context, defs []models.IndicatorDefinition) ([]models.ProcessedIndicator, error) {
	if err := a.source.Validate(); err != nil {
		var ce *models.ConfigError
		if !errors.As(err, &ce) {
			err = &models.ConfigError{Field: "source", Message: err.Error()}
		}
		return nil, err
	}
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	switch a.cfg.Strategy {
	case JoinSettled:
		return a.joinSettled(ctx, defs), nil
	default:
		return a.joinAll(ctx, defs)
	}
}

func (a *IndicatorAggregator) joinAll(ctx context.Context, defs []models.IndicatorDefinition) ([]models.ProcessedIndicator, error) {
	out := make([]models.ProcessedIndicator, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		g.Go(func() error {
			p, err := a.fetch(gctx, def)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *IndicatorAggregator) joinSettled(ctx context.Context, defs []models.IndicatorDefinition) []models.ProcessedIndicator {
	out := make([]models.ProcessedIndicator, len(defs))
	var wg sync.WaitGroup
	for i, def := range defs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := a.fetch(ctx, def)
			if err != nil {
				p = failed(def, err)
			}
			out[i] = p
		}()
	}
	wg.Wait()
	return out
}

func (a *IndicatorAggregator) fetch(ctx context.Context, def models.IndicatorDefinition) (models.ProcessedIndicator, error) {
	start := time.Now()
	obs, err := a.source.Observations(ctx, def.ID)
	a.metrics.RecordFetch(def.ID, time.Since(start).Seconds(), err)
	if err != nil {
		return models.ProcessedIndicator{}, &models.UpstreamError{SeriesID: def.ID, Err: err}
	}
	return cycle.Process(def, obs), nil
}

func failed(def models.IndicatorDefinition, err error) models.ProcessedIndicator {
	nan := math.NaN()
	return models.ProcessedIndicator{
		IndicatorDefinition: def,
		LatestValue:         nan,
		LatestDate:          "Unavailable",
		YearOverYearChange:  nan,
		SequentialChange:    nan,
		YoYAcceleration:     nan,
		Phase:               models.PhaseError,
		Values:              []models.Point{},
		Error:               err.Error(),
	}
}
