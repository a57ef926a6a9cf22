package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WhalePulse/internal/domain/models"
	svcache "WhalePulse/internal/service/cache"
	pkgcache "WhalePulse/pkg/cache"
)

const (
	binanceWallet = "0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be"
	coldWallet    = "0x1111111111111111111111111111111111111111"
	otherWallet   = "0x2222222222222222222222222222222222222222"
)

type stubExplorer struct {
	enabled   bool
	transfers []models.Transfer
	err       error
	calls     atomic.Int64
	delay     time.Duration
}

func (e *stubExplorer) Enabled() bool { return e.enabled }

func (e *stubExplorer) TokenTransfers(ctx context.Context, contract string, windowHours int) ([]models.Transfer, error) {
	e.calls.Add(1)
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	return e.transfers, e.err
}

func newAnalyzer(explorer *stubExplorer, ethPrice float64) *WhaleFlowAnalyzer {
	prices := NewPriceSource(nil, svcache.NewTTLCache(), nil, nil)
	if ethPrice > 0 {
		prices.quotes.Set(priceKey("ETH"), ethPrice, 0)
	}
	return NewWhaleFlowAnalyzer(explorer, prices, pkgcache.NewMemoryCache(), AnalyzerConfig{}, nil, nil)
}

// 300 ETH at the default $2000 price is $600k, over the $500k threshold.
func transfer(from, to, value string) models.Transfer {
	return models.Transfer{From: from, To: to, RawValue: value, Decimals: "18"}
}

func TestAnalyzeFlowsClassification(t *testing.T) {
	explorer := &stubExplorer{enabled: true, transfers: []models.Transfer{
		transfer(coldWallet, binanceWallet, "300000000000000000000"), // 300 ETH to exchange: sell
		transfer(binanceWallet, otherWallet, "400000000000000000000"), // 400 ETH from exchange: buy
		transfer(coldWallet, otherWallet, "350000000000000000000"),    // whale-to-whale, no pressure
		transfer(coldWallet, binanceWallet, "1000000000000000000"),    // 1 ETH, under threshold
	}}
	a := newAnalyzer(explorer, 0)

	flow := a.AnalyzeFlows(context.Background(), "ETH")
	assert.Equal(t, 600_000.0, flow.SellPressureUSD)
	assert.Equal(t, 800_000.0, flow.BuyPressureUSD)
	assert.Equal(t, 200_000.0, flow.NetFlowUSD)
	assert.Equal(t, flow.BuyPressureUSD-flow.SellPressureUSD, flow.NetFlowUSD)
	// Distinct endpoints of qualifying transfers: cold, binance, other.
	assert.Equal(t, 3, flow.WhaleCount)
}

func TestAnalyzeFlowsUsesCachedPrice(t *testing.T) {
	explorer := &stubExplorer{enabled: true, transfers: []models.Transfer{
		// 200 ETH: under threshold at $2000, over it at $3000.
		transfer(coldWallet, binanceWallet, "200000000000000000000"),
	}}

	flow := newAnalyzer(explorer, 0).AnalyzeFlows(context.Background(), "ETH")
	assert.Zero(t, flow.WhaleCount)

	flow = newAnalyzer(&stubExplorer{enabled: true, transfers: explorer.transfers}, 3000).AnalyzeFlows(context.Background(), "ETH")
	assert.Equal(t, 2, flow.WhaleCount)
	assert.Equal(t, 600_000.0, flow.SellPressureUSD)
}

func TestAnalyzeFlowsSkipsMalformedRecords(t *testing.T) {
	explorer := &stubExplorer{enabled: true, transfers: []models.Transfer{
		{From: coldWallet, To: binanceWallet, RawValue: "garbage", Decimals: "18"},
		transfer(coldWallet, binanceWallet, "300000000000000000000"),
	}}
	a := newAnalyzer(explorer, 0)

	flow := a.AnalyzeFlows(context.Background(), "ETH")
	assert.Equal(t, 600_000.0, flow.SellPressureUSD)
	assert.Equal(t, 2, flow.WhaleCount)
}

func TestAnalyzeFlowsUnknownSymbolIsZero(t *testing.T) {
	explorer := &stubExplorer{enabled: true}
	a := newAnalyzer(explorer, 0)

	flow := a.AnalyzeFlows(context.Background(), "SOL")
	assert.Zero(t, flow.WhaleCount)
	assert.Zero(t, flow.NetFlowUSD)
	assert.Zero(t, explorer.calls.Load())
}

func TestAnalyzeFlowsExplorerErrorIsZeroAndUncached(t *testing.T) {
	explorer := &stubExplorer{enabled: true, err: errors.New("rate capped")}
	a := newAnalyzer(explorer, 0)

	flow := a.AnalyzeFlows(context.Background(), "ETH")
	assert.Zero(t, flow.WhaleCount)

	// Degraded results are not cached; the next call retries upstream.
	a.AnalyzeFlows(context.Background(), "ETH")
	assert.Equal(t, int64(2), explorer.calls.Load())
}

func TestAnalyzeFlowsCachesResults(t *testing.T) {
	explorer := &stubExplorer{enabled: true, transfers: []models.Transfer{
		transfer(coldWallet, binanceWallet, "300000000000000000000"),
	}}
	a := newAnalyzer(explorer, 0)

	first := a.AnalyzeFlows(context.Background(), "ETH")
	second := a.AnalyzeFlows(context.Background(), "ETH")
	assert.Equal(t, int64(1), explorer.calls.Load())
	assert.Equal(t, first.NetFlowUSD, second.NetFlowUSD)
	assert.Equal(t, first.WhaleCount, second.WhaleCount)
}

func TestAnalyzeFlowsSingleFlight(t *testing.T) {
	explorer := &stubExplorer{
		enabled: true,
		delay:   50 * time.Millisecond,
		transfers: []models.Transfer{
			transfer(coldWallet, binanceWallet, "300000000000000000000"),
		},
	}
	a := newAnalyzer(explorer, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flow := a.AnalyzeFlows(context.Background(), "ETH")
			assert.Equal(t, 2, flow.WhaleCount)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), explorer.calls.Load())
}
