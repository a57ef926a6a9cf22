package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	"WhalePulse/internal/service/tokens"
	applogger "WhalePulse/pkg/logger"
)

// ErrNoPriceData is returned when no quote source resolves a price for a
// symbol. It maps to NotFound at the HTTP boundary.
var ErrNoPriceData = errors.New("no price data from any source")

// Aggregator assembles per-symbol market snapshots out of independent feeds:
// the quote chain (required), the funding feed (optional) and the whale
// analyzer (optional). Only a missing price fails the snapshot; everything
// else degrades quietly.
type Aggregator struct {
	prices   *PriceSource
	primary  repository.QuoteProvider
	fallback repository.QuoteProvider
	funding  repository.FundingProvider
	analyzer *WhaleFlowAnalyzer
	logger   *applogger.Logger
}

func NewAggregator(prices *PriceSource, primary, fallback repository.QuoteProvider, funding repository.FundingProvider, analyzer *WhaleFlowAnalyzer, l *applogger.Logger) *Aggregator {
	return &Aggregator{
		prices:   prices,
		primary:  primary,
		fallback: fallback,
		funding:  funding,
		analyzer: analyzer,
		logger:   l,
	}
}

// Snapshot builds a full snapshot for one symbol.
func (a *Aggregator) Snapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	upper := strings.ToUpper(symbol)

	quote, source, err := a.prices.FetchQuote(ctx, upper)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, ErrNoPriceData
	}

	snap := &models.Snapshot{
		Symbol:       upper,
		Price:        quote.Price,
		Change24hPct: quote.Change24hPct,
		Source:       source,
		Timestamp:    time.Now(),
	}

	if a.funding != nil {
		rate, err := a.funding.FundingRate(ctx, upper)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("funding fetch failed", applogger.String("symbol", upper), applogger.Error(err))
			}
		} else {
			snap.FundingPct = rate
		}
	}

	if a.analyzer != nil && a.analyzer.Enabled() {
		if _, tracked := tokens.ContractAddress(upper); tracked {
			snap.Flow = a.analyzer.AnalyzeFlows(ctx, upper)
		}
	}

	return snap, nil
}

// WhaleTrackingEnabled reports whether the whale pipeline is live.
func (a *Aggregator) WhaleTrackingEnabled() bool {
	return a.analyzer != nil && a.analyzer.Enabled()
}

// Debug probes each upstream provider with a BTC sample fetch and reports
// its health.
func (a *Aggregator) Debug(ctx context.Context) *models.DebugResponse {
	resp := &models.DebugResponse{
		Primary:  probeProvider(ctx, a.primary),
		Fallback: probeProvider(ctx, a.fallback),
		Explorer: "disabled",
	}
	if a.WhaleTrackingEnabled() {
		resp.Explorer = "enabled"
	}
	return resp
}

func probeProvider(ctx context.Context, p repository.QuoteProvider) models.ProviderStatus {
	if p == nil || !p.Configured() {
		return models.ProviderStatus{Status: "unconfigured"}
	}

	quote, err := p.FetchQuote(ctx, "BTC")
	if err != nil {
		return models.ProviderStatus{Status: "error", Error: err.Error()}
	}
	if quote == nil {
		return models.ProviderStatus{Status: "no data"}
	}
	return models.ProviderStatus{Status: "ok", BTCPrice: &quote.Price}
}
