//go:build wireinject
// +build wireinject

package di

import (
	"MarketTemp/pkg/config"
	"MarketTemp/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	// Observability
	ProvideLogger,
	ProvidePrometheusRegistry,
	ProvideMetrics,

	// Infrastructure clients
	ProvideRedisClient,
	ProvideRateLimiter,

	// Providers
	ProvideSourceOptions,
	ProvideFinnhubFactory,
	ProvideSourceRegistry,

	// Use cases
	ProvideResolver,
	ProvideAggregator,
	ProvideEngine,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		coreSet,
		ProvideMarketHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeServices wires the components without the HTTP server.
func InitializeServices(cfg *config.Config) (*Services, func(), error) {
	wire.Build(
		coreSet,
		ProvideServices,
	)
	return nil, nil, nil
}
