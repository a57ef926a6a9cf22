package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/domain/repository"
	svcache "WhalePulse/internal/service/cache"
	"WhalePulse/internal/service/signal"
)

// mapProvider serves canned quotes per symbol and tracks peak concurrency.
type mapProvider struct {
	quotes map[string]*models.Quote

	mu      sync.Mutex
	active  int
	peak    int
	fetches atomic.Int64
}

func (p *mapProvider) Name() string     { return "CMC" }
func (p *mapProvider) Configured() bool { return true }

func (p *mapProvider) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	p.mu.Lock()
	p.active++
	if p.active > p.peak {
		p.peak = p.active
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	}()

	p.fetches.Add(1)
	return p.quotes[symbol], nil
}

func newScanner(provider repository.QuoteProvider, symbols []string, workers int) *Scanner {
	prices := NewPriceSource([]repository.QuoteProvider{provider}, svcache.NewTTLCache(), nil, nil)
	agg := NewAggregator(prices, provider, nil, nil, nil, nil)
	gen := signal.NewGenerator(models.RegimeDistribution, false, nil)
	return NewScanner(agg, gen, symbols, workers, nil, nil)
}

func TestScanSortsByScoreDescending(t *testing.T) {
	provider := &mapProvider{quotes: map[string]*models.Quote{
		"ETH":  {Price: 2400, Change24hPct: 3},  // MILD MOMENTUM, 52
		"SOL":  {Price: 150, Change24hPct: 14}, // BREAKOUT, 80
		"LINK": {Price: 18, Change24hPct: 0.5}, // NO EDGE, 0
	}}
	sc := newScanner(provider, []string{"ETH", "SOL", "LINK"}, 4)

	resp := sc.Scan(context.Background(), models.TimeframeDay, 20)
	require.Len(t, resp.Signals, 3)
	assert.Equal(t, "SOL", resp.Signals[0].Symbol)
	assert.Equal(t, 80, resp.Signals[0].Signal.Score)
	assert.Equal(t, "ETH", resp.Signals[1].Symbol)
	assert.Equal(t, "LINK", resp.Signals[2].Symbol)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, models.TimeframeDay, resp.Timeframe)
	assert.Equal(t, models.RegimeDistribution, resp.Phase)
}

func TestScanAccumulatesFailures(t *testing.T) {
	provider := &mapProvider{quotes: map[string]*models.Quote{
		"ETH": {Price: 2400, Change24hPct: 3},
		// SOL and LINK resolve no price.
	}}
	sc := newScanner(provider, []string{"ETH", "SOL", "LINK"}, 4)

	resp := sc.Scan(context.Background(), models.TimeframeDay, 20)
	require.Len(t, resp.Signals, 1)
	assert.Equal(t, []string{"LINK", "SOL"}, resp.Errors)
}

func TestScanHonorsLimit(t *testing.T) {
	provider := &mapProvider{quotes: map[string]*models.Quote{
		"ETH": {Price: 2400}, "SOL": {Price: 150}, "LINK": {Price: 18},
	}}
	sc := newScanner(provider, []string{"ETH", "SOL", "LINK"}, 4)

	resp := sc.Scan(context.Background(), models.TimeframeDay, 2)
	assert.Len(t, resp.Signals, 2)
	assert.Equal(t, int64(2), provider.fetches.Load())
}

func TestScanBoundsConcurrency(t *testing.T) {
	quotes := make(map[string]*models.Quote)
	symbols := make([]string, 0, 20)
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
		"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T"} {
		quotes[s] = &models.Quote{Price: 1}
		symbols = append(symbols, s)
	}
	provider := &mapProvider{quotes: quotes}
	sc := newScanner(provider, symbols, 3)

	resp := sc.Scan(context.Background(), models.TimeframeDay, 0)
	assert.Len(t, resp.Signals, 20)
	assert.LessOrEqual(t, provider.peak, 3)
}

func TestCoinScoresEveryTimeframe(t *testing.T) {
	provider := &mapProvider{quotes: map[string]*models.Quote{
		"ETH": {Price: 2400, Change24hPct: 14},
	}}
	sc := newScanner(provider, []string{"ETH"}, 4)

	resp, err := sc.Coin(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, "ETH", resp.Symbol)
	assert.Len(t, resp.Signals, 3)
	assert.Equal(t, "BREAKOUT", resp.Signals[models.TimeframeDay].Label)
	assert.Equal(t, "NO EDGE", resp.Signals[models.TimeframeScalp].Label)
	assert.Equal(t, "SWING MOMENTUM", resp.Signals[models.TimeframeSwing].Label)
}

func TestCoinNoPriceIsNotFound(t *testing.T) {
	provider := &mapProvider{quotes: map[string]*models.Quote{}}
	sc := newScanner(provider, []string{"ETH"}, 4)

	_, err := sc.Coin(context.Background(), "ETH")
	assert.ErrorIs(t, err, ErrNoPriceData)
}
