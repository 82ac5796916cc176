package di

import (
	"context"
	"fmt"
	"time"

	"FinCycle/internal/domain/models"
	"FinCycle/internal/domain/repository"
	domsvc "FinCycle/internal/domain/service"
	"FinCycle/internal/handler/api"
	"FinCycle/internal/handler/ws"
	internalrepo "FinCycle/internal/repository"
	"FinCycle/internal/service/cache"
	"FinCycle/internal/service/fred"
	"FinCycle/internal/service/ratelimit"
	"FinCycle/internal/services/commentary"
	"FinCycle/internal/usecase"
	pkgch "FinCycle/pkg/clickhouse"
	"FinCycle/pkg/config"
	xhttp "FinCycle/pkg/http"
	pkgkafka "FinCycle/pkg/kafka"
	applogger "FinCycle/pkg/logger"
	"FinCycle/pkg/metrics"
	"FinCycle/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideDefinitions converts the configured indicator table into domain definitions.
func ProvideDefinitions(cfg *config.Config) []models.IndicatorDefinition {
	defs := make([]models.IndicatorDefinition, 0, len(cfg.Indicators))
	for _, ind := range cfg.Indicators {
		defs = append(defs, models.IndicatorDefinition{
			ID:        ind.ID,
			Name:      ind.Name,
			Kind:      models.Kind(ind.Kind),
			Frequency: models.Frequency(ind.Frequency),
			SourceURL: ind.SourceURL,
		})
	}
	return defs
}

// ProvideObservationSource creates the FRED client. A missing API key is only logged:
// requests then fail with a configuration error instead of the process refusing to start.
func ProvideObservationSource(cfg *config.Config, l *applogger.Logger) repository.ObservationSource {
	hc := xhttp.NewClient(xhttp.WithTimeout(cfg.FRED.Timeout))
	c := fred.New(cfg.FRED, hc)
	if err := c.Validate(); err != nil {
		l.Warn("fred client not configured", applogger.Error(err))
	}
	return c
}

// ProvideAggregator creates the concurrent indicator aggregator.
func ProvideAggregator(source repository.ObservationSource, m repository.Metrics, cfg *config.Config) (*usecase.IndicatorAggregator, error) {
	strategy, err := usecase.ParseJoinStrategy(cfg.Aggregator.Strategy)
	if err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}
	return usecase.NewIndicatorAggregator(source, m, usecase.AggregatorConfig{
		Strategy: strategy,
		Timeout:  cfg.Aggregator.Timeout,
	}), nil
}

// ProvideClickHouseClient connects to ClickHouse and creates the snapshot table.
// It returns nil when no host is configured.
func ProvideClickHouseClient(ctx context.Context, cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.InitSchema(sctx, pkgch.SnapshotSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideSnapshotStorage returns ClickHouse snapshot storage, or nil without a client.
func ProvideSnapshotStorage(chClient *pkgch.Client, cfg *config.Config) repository.SnapshotStorage {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseSnapshotStorage(chClient.DB(), cfg.ClickHouse.Database+"."+pkgch.SnapshotTable)
}

// ProvideKafkaProducer creates a Kafka producer when snapshots go through Kafka.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != usecase.BackendKafka {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSnapshotPublisher wraps the producer, or returns nil without one.
func ProvideSnapshotPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SnapshotPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSnapshotProcessor routes snapshots to the configured backend.
func ProvideSnapshotProcessor(
	pub repository.SnapshotPublisher,
	store repository.SnapshotStorage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideCommentator creates the generative commentator, or nil when no API key is set.
func ProvideCommentator(ctx context.Context, cfg *config.Config) (domsvc.Commentator, error) {
	c, err := commentary.NewGenAICommentator(ctx, cfg.Commentary)
	if err != nil {
		return nil, fmt.Errorf("commentator: %w", err)
	}
	if !c.Enabled() {
		return nil, nil
	}
	return c, nil
}

// ProvideBoard creates the dashboard use case.
func ProvideBoard(
	agg *usecase.IndicatorAggregator,
	defs []models.IndicatorDefinition,
	snapshots *usecase.SnapshotProcessor,
	store repository.SnapshotStorage,
	commentator domsvc.Commentator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.IndicatorBoard {
	return usecase.NewIndicatorBoard(agg, defs, cfg.Aggregator.TailSize, snapshots, store, commentator, m, l)
}

// ProvideCache picks the response cache backend; nil disables caching.
func ProvideCache(cfg *config.Config) cache.BytesCache {
	return cache.New(cfg.Cache)
}

// ProvideRateLimiter creates the per-client limiter for the API group.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideIndicatorsHandler creates the REST handler.
func ProvideIndicatorsHandler(
	l *applogger.Logger,
	board *usecase.IndicatorBoard,
	c cache.BytesCache,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *api.IndicatorsEchoHandler {
	return api.NewIndicatorsEchoHandler(l, board, c, cfg.Cache.TTL, limiter)
}

// ProvideIndicatorStream creates the websocket push handler.
func ProvideIndicatorStream(l *applogger.Logger, board *usecase.IndicatorBoard, cfg *config.Config) *ws.IndicatorStream {
	return ws.NewIndicatorStream(l, board, cfg.Stream.Interval, cfg.Stream.PingInterval)
}

// ProvideHTTPServer builds the echo server with every handler registered.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	h *api.IndicatorsEchoHandler,
	stream *ws.IndicatorStream,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	}
	return xhttp.NewServer(l, []xhttp.Handler{h, stream}, opts...)
}

// ProvideKafkaConsumer creates the snapshot ingestion consumer when enabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSnapshotHandler stores consumed snapshot rows.
func ProvideKafkaSnapshotHandler(store repository.SnapshotStorage, m repository.Metrics, cfg *config.Config) *usecase.KafkaSnapshotHandler {
	return usecase.NewKafkaSnapshotHandler(cfg.Kafka.Topic, store, m)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	snapshots *usecase.SnapshotProcessor,
	chClient *pkgch.Client,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSnapshotHandler,
	c cache.BytesCache,
) *server.App {
	app := server.New(cfg, l, srv, snapshots, chClient)
	if consumer != nil {
		app.SetConsumer(consumer, kh)
	}
	if rc, ok := c.(*cache.RedisCache); ok {
		app.AddCloser(rc)
	}
	return app
}

// ProvideCLIBoard creates a board that neither snapshots nor serves history.
func ProvideCLIBoard(
	agg *usecase.IndicatorAggregator,
	defs []models.IndicatorDefinition,
	commentator domsvc.Commentator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.IndicatorBoard {
	return usecase.NewIndicatorBoard(agg, defs, cfg.Aggregator.TailSize, nil, nil, commentator, m, l)
}
