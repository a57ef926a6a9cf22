package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"WhalePulse/internal/domain/models"
	drepo "WhalePulse/internal/domain/repository"
	"WhalePulse/internal/service/ratelimit"
	xhttp "WhalePulse/pkg/http"
	applogger "WhalePulse/pkg/logger"
)

// Client fetches token-transfer events from the Etherscan API. Every outbound
// call goes through the shared rate limiter. The client is best-effort: a
// provider rejection ("status":"0") yields an empty result, not an error.
type Client struct {
	apiKey        string
	baseURL       string
	blocksPerHour int
	http          *xhttp.Client
	limiter       *ratelimit.Limiter
	logger        *applogger.Logger
	metrics       drepo.Metrics
}

func New(apiKey, baseURL string, blocksPerHour int, httpClient *xhttp.Client, limiter *ratelimit.Limiter, l *applogger.Logger, m drepo.Metrics) *Client {
	if blocksPerHour <= 0 {
		blocksPerHour = 300
	}
	return &Client{
		apiKey:        apiKey,
		baseURL:       baseURL,
		blocksPerHour: blocksPerHour,
		http:          httpClient,
		limiter:       limiter,
		logger:        l,
		metrics:       m,
	}
}

// Enabled reports whether the explorer has a credential. Disabled explorers
// never issue requests.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// envelope is the Etherscan response wrapper. Proxy-module endpoints omit
// status entirely; account-module endpoints set status "1" on success.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	q := map[string]string{"apikey": c.apiKey}
	for k, v := range params {
		q[k] = v
	}

	var resp envelope
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: q,
	}, &resp)
	if err != nil {
		c.record("error")
		return nil, fmt.Errorf("etherscan %s/%s: %w", params["module"], params["action"], err)
	}

	if resp.Status == "0" {
		// Provider-level rejection (rate cap, bad params, no records).
		if c.logger != nil {
			c.logger.Warn("etherscan rejected",
				applogger.String("action", params["action"]),
				applogger.String("message", resp.Message),
			)
		}
		c.record("rejected")
		return nil, nil
	}

	c.record("ok")
	return resp.Result, nil
}

func (c *Client) blockNumber(ctx context.Context) (int64, error) {
	raw, err := c.call(ctx, map[string]string{
		"module": "proxy",
		"action": "eth_blockNumber",
	})
	if err != nil || raw == nil {
		return 0, err
	}

	var hexNum string
	if err := json.Unmarshal(raw, &hexNum); err != nil {
		return 0, fmt.Errorf("etherscan block number: %w", err)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(hexNum, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("etherscan block number %q: %w", hexNum, err)
	}
	return n, nil
}

// TokenTransfers returns transfer events for the contract over the trailing
// windowHours, newest first. The start block is estimated from a fixed
// average block-time constant. The result may be empty, never nil on success.
func (c *Client) TokenTransfers(ctx context.Context, contract string, windowHours int) ([]models.Transfer, error) {
	endBlock, err := c.blockNumber(ctx)
	if err != nil {
		return nil, err
	}
	if endBlock == 0 {
		return []models.Transfer{}, nil
	}

	startBlock := endBlock - int64(c.blocksPerHour)*int64(windowHours)
	if startBlock < 0 {
		startBlock = 0
	}

	raw, err := c.call(ctx, map[string]string{
		"module":          "account",
		"action":          "tokentx",
		"contractaddress": contract,
		"startblock":      strconv.FormatInt(startBlock, 10),
		"endblock":        strconv.FormatInt(endBlock, 10),
		"sort":            "desc",
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.Transfer{}, nil
	}

	var transfers []models.Transfer
	if err := json.Unmarshal(raw, &transfers); err != nil {
		return nil, fmt.Errorf("etherscan tokentx: %w", err)
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return transfers, nil
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest("etherscan", outcome)
	}
}
