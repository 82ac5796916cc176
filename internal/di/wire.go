//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"FinCycle/internal/usecase"
	"FinCycle/pkg/config"
	"FinCycle/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideDefinitions,
	ProvideObservationSource,
	ProvideAggregator,
	ProvideCommentator,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(ctx context.Context, cfg *config.Config) (*server.App, error) {
	wire.Build(
		coreSet,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideSnapshotStorage,
		ProvideSnapshotPublisher,

		// Use cases
		ProvideSnapshotProcessor,
		ProvideBoard,
		ProvideKafkaSnapshotHandler,

		// Transport
		ProvideCache,
		ProvideRateLimiter,
		ProvideIndicatorsHandler,
		ProvideIndicatorStream,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeBoard wires a board without persistence, for one-shot CLI use.
func InitializeBoard(ctx context.Context, cfg *config.Config) (*usecase.IndicatorBoard, error) {
	wire.Build(
		coreSet,
		ProvideCLIBoard,
	)
	return &usecase.IndicatorBoard{}, nil
}
