package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	drepo "WhalePulse/internal/domain/repository"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
)

// Client fetches perpetual-futures funding rates from the public Binance
// futures premiumIndex endpoint. No credential, no shared rate limiter: its
// failure domain is independent of the quote/explorer providers.
type Client struct {
	baseURL string
	http    *xhttp.Client
	logger  *applogger.Logger
	metrics drepo.Metrics
}

func New(baseURL string, httpClient *xhttp.Client, l *applogger.Logger, m drepo.Metrics) *Client {
	return &Client{baseURL: baseURL, http: httpClient, logger: l, metrics: m}
}

type premiumIndex struct {
	LastFundingRate string `json:"lastFundingRate"`
}

// FundingRate returns the last funding rate for <symbol>USDT as a percentage,
// or nil when the feed has nothing usable.
func (c *Client) FundingRate(ctx context.Context, symbol string) (*float64, error) {
	pair := strings.ToUpper(symbol) + "USDT"

	var resp premiumIndex
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/fapi/v1/premiumIndex",
		QueryParams: map[string]string{"symbol": pair},
	}, &resp)
	if err != nil {
		c.record("error")
		return nil, fmt.Errorf("binance funding %s: %w", pair, err)
	}

	if resp.LastFundingRate == "" {
		c.record("miss")
		return nil, nil
	}

	raw, err := strconv.ParseFloat(resp.LastFundingRate, 64)
	if err != nil {
		c.record("miss")
		return nil, fmt.Errorf("binance funding %s: parse %q: %w", pair, resp.LastFundingRate, err)
	}

	rate := raw * 100 // convert to percent
	if c.logger != nil {
		c.logger.Debug("funding rate", applogger.String("symbol", symbol), applogger.Float64("pct", rate))
	}
	c.record("ok")
	return &rate, nil
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest("binance", outcome)
	}
}
