package signal

import (
	"strings"
	"sync"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/service/tokens"
	applogger "WhalePulse/pkg/logger"
)

// Generator turns market snapshots into trade signals via a fixed decision
// table per timeframe, then boosts the score with whale-flow data when
// available. Generation is deterministic for a given snapshot, timeframe and
// regime; the regime flag is the only mutable state.
type Generator struct {
	mu                   sync.RWMutex
	regime               models.Regime
	whaleTrackingEnabled bool
	logger               *applogger.Logger
}

func NewGenerator(regime models.Regime, whaleTrackingEnabled bool, l *applogger.Logger) *Generator {
	if regime == "" {
		regime = models.RegimeDistribution
	}
	return &Generator{regime: regime, whaleTrackingEnabled: whaleTrackingEnabled, logger: l}
}

// Regime returns the current market regime flag.
func (g *Generator) Regime() models.Regime {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.regime
}

// SetRegime swaps the market regime flag used by the day and swing tables.
func (g *Generator) SetRegime(r models.Regime) {
	g.mu.Lock()
	g.regime = r
	g.mu.Unlock()
}

// Generate produces a signal for the snapshot on the given timeframe.
func (g *Generator) Generate(snap *models.Snapshot, tf models.Timeframe) models.Signal {
	base := g.baseSignal(snap, tf)

	if _, tracked := tokens.ContractAddress(snap.Symbol); tracked && g.whaleTrackingEnabled {
		if snap.Flow != nil && snap.Flow.WhaleCount > 0 {
			return g.enhance(base, snap.Flow)
		}
	}
	return base
}

func (g *Generator) baseSignal(snap *models.Snapshot, tf models.Timeframe) models.Signal {
	noEdge := models.Signal{
		Direction: models.DirectionFlat,
		Label:     "NO EDGE",
		Score:     0,
		Risk:      models.RiskMedium,
		Target:    "",
		WhaleProb: 60,
	}

	switch tf {
	case models.TimeframeScalp:
		if snap.FundingPct == nil {
			return noEdge
		}
		return scalpSignal(*snap.FundingPct, noEdge)
	case models.TimeframeDay:
		return g.daySignal(snap.Change24hPct, noEdge)
	case models.TimeframeSwing:
		return g.swingSignal(snap.Symbol, snap.Change24hPct, noEdge)
	}
	return noEdge
}

// scalpSignal bets on funding-rate mean reversion: crowded longs (positive
// funding) get faded short, and vice versa.
func scalpSignal(funding float64, noEdge models.Signal) models.Signal {
	dir := models.DirectionLong
	move := "up"
	if funding > 0 {
		dir = models.DirectionShort
		move = "down"
	}

	abs := funding
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs > 0.05:
		return models.Signal{Direction: dir, Label: "EXTREME SQUEEZE", Score: 90, Risk: models.RiskHigh, Target: "2-3% " + move, WhaleProb: 85}
	case abs > 0.025:
		return models.Signal{Direction: dir, Label: "FUNDING PRESSURE", Score: 70, Risk: models.RiskMedium, Target: "1.5-2% " + move, WhaleProb: 70}
	case abs > 0.005:
		return models.Signal{Direction: dir, Label: "LIGHT FUNDING BIAS", Score: 55, Risk: models.RiskLow, Target: "0.5-1.5% move", WhaleProb: 60}
	}
	return noEdge
}

func (g *Generator) daySignal(change float64, noEdge models.Signal) models.Signal {
	abs := change
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs > 12:
		if change > 0 {
			return models.Signal{Direction: models.DirectionLong, Label: "BREAKOUT", Score: 80, Risk: models.RiskHigh, Target: "4-6% up", WhaleProb: 80}
		}
		return models.Signal{Direction: models.DirectionShort, Label: "CAPITULATION", Score: 80, Risk: models.RiskHigh, Target: "4-6% down", WhaleProb: 80}
	case abs > 6:
		// Mid-size moves only count when they align with the regime.
		regime := g.Regime()
		if change > 0 && regime == models.RegimeAccumulation {
			return models.Signal{Direction: models.DirectionLong, Label: "BTC BETA PLAY", Score: 65, Risk: models.RiskMedium, Target: "3-4% up", WhaleProb: 65}
		}
		if change < 0 && regime == models.RegimeDistribution {
			return models.Signal{Direction: models.DirectionShort, Label: "DISTRIBUTION SELL", Score: 65, Risk: models.RiskMedium, Target: "3-4% down", WhaleProb: 65}
		}
		return noEdge
	case abs > 2:
		if change > 0 {
			return models.Signal{Direction: models.DirectionLong, Label: "MILD MOMENTUM", Score: 52, Risk: models.RiskLow, Target: "1-3% up", WhaleProb: 60}
		}
		return models.Signal{Direction: models.DirectionShort, Label: "MILD MOMENTUM", Score: 52, Risk: models.RiskLow, Target: "1-3% down", WhaleProb: 60}
	}
	return noEdge
}

func (g *Generator) swingSignal(symbol string, change float64, noEdge models.Signal) models.Signal {
	regime := g.Regime()

	if strings.ToUpper(symbol) == "BTC" {
		dir := models.DirectionShort
		move := "down"
		if regime == models.RegimeAccumulation {
			dir = models.DirectionLong
			move = "up"
		}
		return models.Signal{
			Direction: dir,
			Label:     strings.ToUpper(string(regime)) + " PHASE",
			Score:     90,
			Risk:      models.RiskLow,
			Target:    "20-40% " + move,
			WhaleProb: 95,
		}
	}

	if regime == models.RegimeAccumulation && change > 5 && change < 15 {
		return models.Signal{Direction: models.DirectionLong, Label: "POSITION BUILD", Score: 75, Risk: models.RiskMedium, Target: "15-30% up", WhaleProb: 75}
	}

	abs := change
	if abs < 0 {
		abs = -abs
	}
	if abs > 3 {
		if change > 0 {
			return models.Signal{Direction: models.DirectionLong, Label: "SWING MOMENTUM", Score: 55, Risk: models.RiskMedium, Target: "5-15% up", WhaleProb: 65}
		}
		return models.Signal{Direction: models.DirectionShort, Label: "SWING MOMENTUM", Score: 55, Risk: models.RiskMedium, Target: "5-15% down", WhaleProb: 65}
	}
	return noEdge
}

// enhance boosts the base score with whale-flow confirmation. Flow only
// counts when it points the same way as the signal; the boosted score is
// truncated and capped at 95.
func (g *Generator) enhance(base models.Signal, flow *models.FlowResult) models.Signal {
	var flowBoost float64
	switch {
	case base.Direction == models.DirectionLong && flow.NetFlowUSD > 100_000:
		flowBoost = flow.NetFlowUSD / 100_000
	case base.Direction == models.DirectionShort && flow.NetFlowUSD < -100_000:
		flowBoost = -flow.NetFlowUSD / 100_000
	}
	if flowBoost > 20 {
		flowBoost = 20
	}

	whaleBoost := float64(flow.WhaleCount * 2)
	if whaleBoost > 10 {
		whaleBoost = 10
	}

	score := float64(base.Score) + flowBoost + whaleBoost
	if score > 95 {
		score = 95
	}

	enhanced := base
	enhanced.Score = int(score)
	net := flow.NetFlowUSD
	count := flow.WhaleCount
	enhanced.WhaleFlowUSD = &net
	enhanced.WhaleCount = &count

	if g.logger != nil {
		g.logger.Debug("whale enhanced signal",
			applogger.String("direction", string(base.Direction)),
			applogger.Int("base_score", base.Score),
			applogger.Int("enhanced_score", enhanced.Score),
		)
	}
	return enhanced
}
