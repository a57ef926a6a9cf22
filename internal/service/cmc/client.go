package cmc

import (
	"context"
	"fmt"
	"strings"

	"WhalePulse/internal/domain/models"
	drepo "WhalePulse/internal/domain/repository"
	"WhalePulse/internal/service/ratelimit"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
)

// Client is the primary quote provider, backed by the CoinMarketCap
// quotes/latest endpoint. It shares the outbound rate limiter with the chain
// explorer (same paid-tier quota domain).
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	logger  *applogger.Logger
	metrics drepo.Metrics
}

func New(apiKey, baseURL string, httpClient *xhttp.Client, limiter *ratelimit.Limiter, l *applogger.Logger, m drepo.Metrics) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		logger:  l,
		metrics: m,
	}
}

func (c *Client) Name() string { return models.SourceCMC }

// Configured reports whether an API key is present. Without one the provider
// is silently disabled and every fetch reports absent.
func (c *Client) Configured() bool { return c.apiKey != "" }

type usdQuote struct {
	Price            *float64 `json:"price"`
	PercentChange24h float64  `json:"percent_change_24h"`
}

type quoteEntry struct {
	Quote map[string]usdQuote `json:"quote"`
}

type quotesLatestResponse struct {
	Data map[string][]quoteEntry `json:"data"`
}

func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if !c.Configured() {
		return nil, nil
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	upper := strings.ToUpper(symbol)
	var resp quotesLatestResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/cryptocurrency/quotes/latest",
		Headers: map[string]string{
			"X-CMC_PRO_API_KEY": c.apiKey,
			"Accept":            "application/json",
		},
		QueryParams: map[string]string{
			"symbol":  upper,
			"convert": "USD",
		},
	}, &resp)
	if err != nil {
		c.record("error")
		return nil, fmt.Errorf("cmc quotes: %w", err)
	}

	entries := resp.Data[upper]
	if len(entries) == 0 {
		c.record("miss")
		return nil, nil
	}

	usd, ok := entries[0].Quote["USD"]
	if !ok || usd.Price == nil {
		if c.logger != nil {
			c.logger.Warn("cmc null price", applogger.String("symbol", upper))
		}
		c.record("miss")
		return nil, nil
	}

	c.record("ok")
	return &models.Quote{Price: *usd.Price, Change24hPct: usd.PercentChange24h}, nil
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest("cmc", outcome)
	}
}
