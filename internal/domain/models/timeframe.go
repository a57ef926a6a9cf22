package models

// Timeframe selects which rule table the signal engine evaluates.
type Timeframe string

const (
	TimeframeScalp Timeframe = "scalp"
	TimeframeDay   Timeframe = "day"
	TimeframeSwing Timeframe = "swing"
)

// Timeframes returns all supported timeframes in evaluation order.
func Timeframes() []Timeframe {
	return []Timeframe{TimeframeScalp, TimeframeDay, TimeframeSwing}
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TimeframeScalp, TimeframeDay, TimeframeSwing:
		return true
	default:
		return false
	}
}

// IsValidRegime returns true if r is a known market regime.
func IsValidRegime(r Regime) bool {
	return r == RegimeAccumulation || r == RegimeDistribution
}
