package models

// Direction of a trading signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionFlat  Direction = "FLAT"
)

// Risk classification of a signal.
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// Regime is the coarse market-phase flag biasing signal direction.
type Regime string

const (
	RegimeAccumulation Regime = "accumulation"
	RegimeDistribution Regime = "distribution"
)

// Signal is the pure rule-engine output for one snapshot and timeframe.
// WhaleFlowUSD and WhaleCount are set only on whale-enhanced signals.
type Signal struct {
	Direction    Direction `json:"direction"`
	Label        string    `json:"label"`
	Score        int       `json:"score"`
	Risk         Risk      `json:"risk"`
	Target       string    `json:"target"`
	WhaleProb    int       `json:"whaleProb"`
	WhaleFlowUSD *float64  `json:"whale_flow,omitempty"`
	WhaleCount   *int      `json:"whale_count,omitempty"`
}
