package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"WhalePulse/internal/domain/models"
	"WhalePulse/internal/usecase"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
)

// SignalHandler exposes the scan, coin and provider-debug endpoints.
type SignalHandler struct {
	scanner    *usecase.Scanner
	aggregator *usecase.Aggregator
	logger     *applogger.Logger
}

func NewSignalHandler(scanner *usecase.Scanner, aggregator *usecase.Aggregator, l *applogger.Logger) *SignalHandler {
	return &SignalHandler{scanner: scanner, aggregator: aggregator, logger: l}
}

func (h *SignalHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals/:timeframe", h.ScanSignals)
	g.GET("/coin/:symbol", h.GetCoin)
	g.GET("/debug", h.DebugProviders)
}

// ScanSignals runs a fan-out scan over the tracked universe for one
// timeframe and returns the scored snapshots, highest score first.
func (h *SignalHandler) ScanSignals(c echo.Context) error {
	req := new(models.ScanRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	resp := h.scanner.Scan(c.Request().Context(), models.Timeframe(req.Timeframe), req.Limit)
	return xhttp.SuccessResponse(c, resp)
}

// GetCoin returns one symbol's snapshot and its signal on every timeframe.
func (h *SignalHandler) GetCoin(c echo.Context) error {
	req := new(models.CoinRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	resp, err := h.scanner.Coin(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrNoPriceData) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no price data for %s", req.Symbol))
		}
		if h.logger != nil {
			h.logger.Error("coin analysis failed", applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, resp)
}

// DebugProviders probes every upstream provider and reports its health.
func (h *SignalHandler) DebugProviders(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.aggregator.Debug(c.Request().Context()))
}
