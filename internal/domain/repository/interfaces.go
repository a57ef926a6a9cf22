package repository

import (
	"context"

	"WhalePulse/internal/domain/models"
)

// QuoteProvider serves spot quotes for one symbol. A nil quote with a nil
// error means the provider has no data for that symbol (absent), not a fault.
type QuoteProvider interface {
	Name() string
	Configured() bool
	FetchQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// FundingProvider fetches the latest perpetual-futures funding rate, in
// percent. A nil rate means the feed had nothing for the symbol.
type FundingProvider interface {
	FundingRate(ctx context.Context, symbol string) (*float64, error)
}

// ChainExplorer fetches token-transfer events for a contract address over a
// rolling block window, newest first. Implementations are best-effort: a
// provider rejection yields an empty slice, a transport failure an error the
// caller degrades to empty.
type ChainExplorer interface {
	Enabled() bool
	TokenTransfers(ctx context.Context, contract string, windowHours int) ([]models.Transfer, error)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordProviderRequest(provider, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
