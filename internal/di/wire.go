//go:build wireinject
// +build wireinject

package di

import (
	"WhalePulse/pkg/config"
	"WhalePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideRateLimiter,
		ProvideQuoteCache,
		ProvideFlowCache,

		// Provider clients
		ProvidePrimaryProvider,
		ProvideFallbackProvider,
		ProvideFundingProvider,
		ProvideChainExplorer,

		// Use cases
		ProvidePriceSource,
		ProvideWhaleAnalyzer,
		ProvideAggregator,
		ProvideSignalGenerator,
		ProvideScanner,

		// HTTP surface
		ProvideSignalHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
