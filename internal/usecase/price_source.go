package usecase

import (
	"context"
	"strings"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	svcache "WhalePulse/internal/service/cache"
	applogger "WhalePulse/pkg/logger"
)

// PriceSource resolves a quote by walking a fixed-priority provider chain.
// Unconfigured providers are skipped, failing providers are logged and
// skipped, and the first hit wins. Resolved prices are kept in the shared
// quote cache so the whale analyzer can convert raw transfer amounts to USD
// without extra provider calls.
type PriceSource struct {
	providers []repository.QuoteProvider
	quotes    *svcache.TTLCache
	logger    *applogger.Logger
	metrics   repository.Metrics
}

func NewPriceSource(providers []repository.QuoteProvider, quotes *svcache.TTLCache, l *applogger.Logger, m repository.Metrics) *PriceSource {
	return &PriceSource{providers: providers, quotes: quotes, logger: l, metrics: m}
}

func priceKey(symbol string) string {
	return "price:" + strings.ToUpper(symbol)
}

// FetchQuote returns the first quote the chain produces together with the
// providing source's name. A (nil, "", nil) return means every source came
// up empty; that is degradation, not an error.
func (s *PriceSource) FetchQuote(ctx context.Context, symbol string) (*models.Quote, string, error) {
	for _, p := range s.providers {
		if !p.Configured() {
			continue
		}

		quote, err := p.FetchQuote(ctx, symbol)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("quote provider failed",
					applogger.String("provider", p.Name()),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			if s.metrics != nil {
				s.metrics.RecordError("quote_fetch")
			}
			continue
		}
		if quote == nil {
			continue
		}

		s.quotes.Set(priceKey(symbol), quote.Price, 0)
		if s.metrics != nil {
			s.metrics.RecordLastPrice(strings.ToUpper(symbol), quote.Price)
		}
		return quote, p.Name(), nil
	}
	return nil, "", nil
}

// CachedPrice returns the most recently resolved USD price for symbol.
func (s *PriceSource) CachedPrice(symbol string) (float64, bool) {
	v, ok := s.quotes.Get(priceKey(symbol))
	if !ok {
		return 0, false
	}
	price, ok := v.(float64)
	return price, ok
}
