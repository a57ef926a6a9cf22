package coingecko

import (
	"context"
	"fmt"
	"strings"

	"WhalePulse/internal/domain/models"
	drepo "WhalePulse/internal/domain/repository"
	xhttp "WhalePulse/pkg/http"
)

// Client is the fallback quote provider, backed by the CoinGecko simple/price
// endpoint. It needs no credential and runs in its own quota domain, so it
// bypasses the shared rate limiter. The lowercase symbol doubles as the
// CoinGecko coin id, which resolves for the major assets this scanner covers.
type Client struct {
	baseURL string
	http    *xhttp.Client
	metrics drepo.Metrics
}

func New(baseURL string, httpClient *xhttp.Client, m drepo.Metrics) *Client {
	return &Client{baseURL: baseURL, http: httpClient, metrics: m}
}

func (c *Client) Name() string { return models.SourceCoinGecko }

func (c *Client) Configured() bool { return true }

type simplePrice struct {
	USD          *float64 `json:"usd"`
	USD24hChange float64  `json:"usd_24h_change"`
}

func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	id := strings.ToLower(symbol)

	var resp map[string]simplePrice
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/simple/price",
		QueryParams: map[string]string{
			"ids":                 id,
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
		},
	}, &resp)
	if err != nil {
		c.record("error")
		return nil, fmt.Errorf("coingecko simple/price: %w", err)
	}

	entry, ok := resp[id]
	if !ok || entry.USD == nil {
		c.record("miss")
		return nil, nil
	}

	c.record("ok")
	return &models.Quote{Price: *entry.USD, Change24hPct: entry.USD24hChange}, nil
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest("coingecko", outcome)
	}
}
