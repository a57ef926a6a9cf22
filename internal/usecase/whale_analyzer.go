package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	"WhalePulse/internal/service/tokens"
	pkgcache "WhalePulse/pkg/cache"
	applogger "WhalePulse/pkg/logger"
)

// WhaleFlowAnalyzer classifies large on-chain token transfers into buy and
// sell pressure against a set of known exchange wallets. Results are cached
// per (symbol, window); concurrent callers for the same key share one
// in-flight computation so a parallel scan never issues duplicate explorer
// calls.
//
// The analyzer degrades to a zero-valued FlowResult on any upstream trouble:
// unresolvable symbol, explorer failure, or an empty transfer batch. Zero
// results from degradation are not cached, so the next caller retries.
type WhaleFlowAnalyzer struct {
	explorer        repository.ChainExplorer
	prices          *PriceSource
	flows           pkgcache.Service
	thresholdUSD    float64
	defaultPriceUSD float64
	windowHours     int
	cacheTTL        time.Duration
	logger          *applogger.Logger
	metrics         repository.Metrics

	mu       sync.Mutex
	inFlight map[string]*flowCall
}

type flowCall struct {
	done   chan struct{}
	result *models.FlowResult
}

type AnalyzerConfig struct {
	ThresholdUSD    float64
	DefaultPriceUSD float64
	WindowHours     int
	CacheTTL        time.Duration
}

func NewWhaleFlowAnalyzer(explorer repository.ChainExplorer, prices *PriceSource, flows pkgcache.Service, cfg AnalyzerConfig, l *applogger.Logger, m repository.Metrics) *WhaleFlowAnalyzer {
	if cfg.ThresholdUSD <= 0 {
		cfg.ThresholdUSD = 500_000
	}
	if cfg.DefaultPriceUSD <= 0 {
		cfg.DefaultPriceUSD = 2000
	}
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = 24
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 300 * time.Second
	}
	return &WhaleFlowAnalyzer{
		explorer:        explorer,
		prices:          prices,
		flows:           flows,
		thresholdUSD:    cfg.ThresholdUSD,
		defaultPriceUSD: cfg.DefaultPriceUSD,
		windowHours:     cfg.WindowHours,
		cacheTTL:        cfg.CacheTTL,
		logger:          l,
		metrics:         m,
		inFlight:        make(map[string]*flowCall),
	}
}

// Enabled mirrors the explorer: without a credential the whole whale pipeline
// is off.
func (a *WhaleFlowAnalyzer) Enabled() bool {
	return a.explorer != nil && a.explorer.Enabled()
}

func flowKey(symbol string, hours int) string {
	return fmt.Sprintf("whale:%s:%d", strings.ToUpper(symbol), hours)
}

// AnalyzeFlows returns whale buy/sell pressure for symbol over the default
// trailing window. It never fails: degraded paths return a zero result.
func (a *WhaleFlowAnalyzer) AnalyzeFlows(ctx context.Context, symbol string) *models.FlowResult {
	upper := strings.ToUpper(symbol)
	if _, ok := tokens.ContractAddress(upper); !ok {
		return zeroFlow()
	}

	key := flowKey(upper, a.windowHours)
	if cached := a.cachedFlow(ctx, key); cached != nil {
		return cached
	}

	// Single-flight: first caller for a key computes, the rest wait.
	a.mu.Lock()
	if call, ok := a.inFlight[key]; ok {
		a.mu.Unlock()
		select {
		case <-call.done:
			return call.result
		case <-ctx.Done():
			return zeroFlow()
		}
	}
	call := &flowCall{done: make(chan struct{})}
	a.inFlight[key] = call
	a.mu.Unlock()

	call.result = a.computeFlows(ctx, upper, key)
	close(call.done)

	a.mu.Lock()
	delete(a.inFlight, key)
	a.mu.Unlock()

	return call.result
}

func (a *WhaleFlowAnalyzer) cachedFlow(ctx context.Context, key string) *models.FlowResult {
	var cached models.FlowResult
	err := a.flows.Get(ctx, key, &cached)
	if err == nil {
		return &cached
	}
	if !errors.Is(err, pkgcache.ErrCacheMiss) && a.logger != nil {
		a.logger.Warn("whale cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	return nil
}

func (a *WhaleFlowAnalyzer) computeFlows(ctx context.Context, symbol, key string) *models.FlowResult {
	// Re-check under leadership: a previous flight may have filled the cache
	// between our miss and winning the key.
	if cached := a.cachedFlow(ctx, key); cached != nil {
		return cached
	}

	contract, _ := tokens.ContractAddress(symbol)

	transfers, err := a.explorer.TokenTransfers(ctx, contract, a.windowHours)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("token transfer fetch failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		if a.metrics != nil {
			a.metrics.RecordError("whale_fetch")
		}
		return zeroFlow()
	}
	if len(transfers) == 0 {
		return zeroFlow()
	}

	price, ok := a.prices.CachedPrice(symbol)
	if !ok {
		price = a.defaultPriceUSD
	}

	result := a.classify(symbol, transfers, price)

	if err := a.flows.Set(ctx, key, result, a.cacheTTL); err != nil && a.logger != nil {
		a.logger.Warn("whale cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return result
}

func (a *WhaleFlowAnalyzer) classify(symbol string, transfers []models.Transfer, price float64) *models.FlowResult {
	var netFlow, buyPressure, sellPressure float64
	whales := make(map[string]struct{})

	for _, tx := range transfers {
		amount, err := tx.NormalizedValue()
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("skipping malformed transfer", applogger.String("symbol", symbol), applogger.Error(err))
			}
			continue
		}

		usd := amount * price
		if usd <= a.thresholdUSD {
			continue
		}

		from := strings.ToLower(tx.From)
		to := strings.ToLower(tx.To)
		whales[from] = struct{}{}
		whales[to] = struct{}{}

		// Transfers into an exchange wallet read as sells, out as buys.
		if tokens.IsExchangeWallet(to) {
			sellPressure += usd
			netFlow -= usd
		} else if tokens.IsExchangeWallet(from) {
			buyPressure += usd
			netFlow += usd
		}
	}

	result := &models.FlowResult{
		NetFlowUSD:      netFlow,
		BuyPressureUSD:  buyPressure,
		SellPressureUSD: sellPressure,
		WhaleCount:      len(whales),
		ComputedAt:      time.Now(),
	}

	if a.logger != nil {
		a.logger.Debug("whale flows computed",
			applogger.String("symbol", symbol),
			applogger.Float64("net_flow", netFlow),
			applogger.Int("whale_count", result.WhaleCount),
		)
	}
	return result
}

func zeroFlow() *models.FlowResult {
	return &models.FlowResult{ComputedAt: time.Now()}
}
