package di

import (
	"fmt"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	"WhalePulse/internal/handler/api"
	"WhalePulse/internal/service/binance"
	svcache "WhalePulse/internal/service/cache"
	"WhalePulse/internal/service/cmc"
	"WhalePulse/internal/service/coingecko"
	"WhalePulse/internal/service/etherscan"
	"WhalePulse/internal/service/ratelimit"
	"WhalePulse/internal/service/signal"
	"WhalePulse/internal/service/tokens"
	"WhalePulse/internal/usecase"
	pkgcache "WhalePulse/pkg/cache"
	"WhalePulse/pkg/config"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
	"WhalePulse/pkg/metrics"
	"WhalePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRateLimiter creates the outbound rate limiter shared by the
// CoinMarketCap and Etherscan clients.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.RequestsPerSecond)
}

// ProvideQuoteCache creates the in-process quote store.
func ProvideQuoteCache() *svcache.TTLCache {
	return svcache.NewTTLCache()
}

// ProvideFlowCache creates the whale-flow result cache: in-memory by default,
// Redis-backed with a memory layer in front when Redis is configured.
func ProvideFlowCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvidePrimaryProvider creates the CoinMarketCap quote client.
func ProvidePrimaryProvider(cfg *config.Config, limiter *ratelimit.Limiter, l *applogger.Logger, m repository.Metrics) *cmc.Client {
	return cmc.New(
		cfg.Providers.CMC.APIKey,
		cfg.Providers.CMC.BaseURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.CMC.Timeout)),
		limiter,
		l,
		m,
	)
}

// ProvideFallbackProvider creates the CoinGecko quote client.
func ProvideFallbackProvider(cfg *config.Config, m repository.Metrics) *coingecko.Client {
	return coingecko.New(
		cfg.Providers.CoinGecko.BaseURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.CoinGecko.Timeout)),
		m,
	)
}

// ProvideFundingProvider creates the Binance funding-rate client.
func ProvideFundingProvider(cfg *config.Config, l *applogger.Logger, m repository.Metrics) *binance.Client {
	return binance.New(
		cfg.Providers.Binance.BaseURL,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Binance.Timeout)),
		l,
		m,
	)
}

// ProvideChainExplorer creates the Etherscan client, sharing the rate
// limiter with the primary quote provider.
func ProvideChainExplorer(cfg *config.Config, limiter *ratelimit.Limiter, l *applogger.Logger, m repository.Metrics) *etherscan.Client {
	return etherscan.New(
		cfg.Providers.Etherscan.APIKey,
		cfg.Providers.Etherscan.BaseURL,
		cfg.Whale.BlocksPerHour,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Etherscan.Timeout)),
		limiter,
		l,
		m,
	)
}

// ProvidePriceSource creates the quote provider chain, primary first.
func ProvidePriceSource(primary *cmc.Client, fallback *coingecko.Client, quotes *svcache.TTLCache, l *applogger.Logger, m repository.Metrics) *usecase.PriceSource {
	return usecase.NewPriceSource(
		[]repository.QuoteProvider{primary, fallback},
		quotes,
		l,
		m,
	)
}

// ProvideWhaleAnalyzer creates the whale-flow analyzer.
func ProvideWhaleAnalyzer(explorer *etherscan.Client, prices *usecase.PriceSource, flows pkgcache.Service, cfg *config.Config, l *applogger.Logger, m repository.Metrics) *usecase.WhaleFlowAnalyzer {
	return usecase.NewWhaleFlowAnalyzer(explorer, prices, flows, usecase.AnalyzerConfig{
		ThresholdUSD:    cfg.Whale.ThresholdUSD,
		DefaultPriceUSD: cfg.Whale.DefaultPriceUSD,
		WindowHours:     cfg.Whale.WindowHours,
		CacheTTL:        cfg.Whale.CacheTTL,
	}, l, m)
}

// ProvideAggregator creates the snapshot aggregator.
func ProvideAggregator(prices *usecase.PriceSource, primary *cmc.Client, fallback *coingecko.Client, funding *binance.Client, analyzer *usecase.WhaleFlowAnalyzer, l *applogger.Logger) *usecase.Aggregator {
	return usecase.NewAggregator(prices, primary, fallback, funding, analyzer, l)
}

// ProvideSignalGenerator creates the signal rule engine.
func ProvideSignalGenerator(cfg *config.Config, explorer *etherscan.Client, l *applogger.Logger) *signal.Generator {
	return signal.NewGenerator(models.Regime(cfg.Signals.Regime), explorer.Enabled(), l)
}

// ProvideScanner creates the symbol-universe scanner.
func ProvideScanner(agg *usecase.Aggregator, gen *signal.Generator, cfg *config.Config, l *applogger.Logger, m repository.Metrics) *usecase.Scanner {
	symbols := cfg.Scan.Symbols
	if len(symbols) == 0 {
		symbols = tokens.ScanUniverse
	}
	return usecase.NewScanner(agg, gen, symbols, cfg.Scan.Workers, l, m)
}

// ProvideSignalHandler creates the HTTP handler.
func ProvideSignalHandler(scanner *usecase.Scanner, agg *usecase.Aggregator, l *applogger.Logger) *api.SignalHandler {
	return api.NewSignalHandler(scanner, agg, l)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, handler *api.SignalHandler, agg *usecase.Aggregator, flows pkgcache.Service, l *applogger.Logger) *server.App {
	return server.New(cfg, handler, agg, flows, l)
}
