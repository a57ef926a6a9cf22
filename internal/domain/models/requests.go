package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency and reuse.

// ScanRequest drives the fan-out scan over the symbol universe.
// Threshold is bound and validated but not applied as a filter: the upstream
// behavior returns all signals regardless of score.
// TODO: decide whether threshold should filter signals or be removed from the API.
type ScanRequest struct {
	Timeframe string `param:"timeframe" json:"timeframe" validate:"required,oneof=scalp day swing"`
	Threshold int    `query:"threshold" json:"threshold" default:"40" validate:"gte=0,lte=100"`
	Limit     int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}

// CoinRequest asks for one symbol's snapshot plus signals on every timeframe.
type CoinRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
}
