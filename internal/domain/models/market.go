package models

import (
	"math"
	"strconv"
	"time"
)

// Quote source names as reported in snapshots.
const (
	SourceCMC       = "CMC"
	SourceCoinGecko = "CoinGecko"
)

// Quote is a spot price observation for a symbol, in USD.
type Quote struct {
	Price        float64 `json:"price"`
	Change24hPct float64 `json:"change24h"`
}

// Transfer is a token transfer event as reported by the chain explorer.
// Value and decimals stay raw strings; individual records may be malformed
// and are parsed lazily so one bad record never aborts a batch.
type Transfer struct {
	From     string `json:"from"`
	To       string `json:"to"`
	RawValue string `json:"value"`
	Decimals string `json:"tokenDecimal"`
}

// NormalizedValue converts the raw integer value into token units
// (rawValue / 10^decimals). Missing decimals default to 18.
func (t Transfer) NormalizedValue() (float64, error) {
	v, err := strconv.ParseFloat(t.RawValue, 64)
	if err != nil {
		return 0, err
	}
	dec := 18
	if t.Decimals != "" {
		dec, err = strconv.Atoi(t.Decimals)
		if err != nil {
			return 0, err
		}
	}
	return v / math.Pow10(dec), nil
}

// FlowResult aggregates whale capital flow for a symbol over a block window.
// Invariant: NetFlowUSD == BuyPressureUSD - SellPressureUSD.
type FlowResult struct {
	NetFlowUSD      float64   `json:"net_flow"`
	BuyPressureUSD  float64   `json:"buy_pressure"`
	SellPressureUSD float64   `json:"sell_pressure"`
	WhaleCount      int       `json:"whale_count"`
	ComputedAt      time.Time `json:"timestamp"`
}

// Snapshot is the per-symbol aggregation of all upstream feeds.
// Funding and Flow are optional: each comes from an independent failure
// domain and its absence is not an error.
type Snapshot struct {
	Symbol       string      `json:"symbol"`
	Price        float64     `json:"price"`
	Change24hPct float64     `json:"change24h"`
	FundingPct   *float64    `json:"funding"`
	Flow         *FlowResult `json:"whale_flows,omitempty"`
	Source       string      `json:"source"`
	Timestamp    time.Time   `json:"timestamp"`
}
