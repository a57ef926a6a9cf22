package models

import "time"

// ScoredSnapshot pairs a snapshot with its generated signal.
type ScoredSnapshot struct {
	Snapshot
	Signal Signal `json:"signal"`
}

// ScanResponse is the result of one fan-out scan, sorted by score descending.
// Errors lists symbols for which no price data resolved.
type ScanResponse struct {
	Timeframe   Timeframe        `json:"timeframe"`
	Phase       Regime           `json:"phase"`
	Signals     []ScoredSnapshot `json:"signals"`
	Errors      []string         `json:"errors"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// CoinResponse carries one symbol's snapshot and its signal per timeframe.
type CoinResponse struct {
	Symbol     string               `json:"symbol"`
	PriceData  Snapshot             `json:"price_data"`
	Signals    map[Timeframe]Signal `json:"signals"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}

// ProviderStatus reports reachability of one upstream provider.
type ProviderStatus struct {
	Status   string   `json:"status"`
	BTCPrice *float64 `json:"btc_price,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// DebugResponse summarizes the state of all upstream providers.
type DebugResponse struct {
	Primary  ProviderStatus `json:"cmc"`
	Fallback ProviderStatus `json:"coingecko"`
	Explorer string         `json:"etherscan"`
}
