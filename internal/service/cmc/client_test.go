package cmc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WhalePulse/internal/service/ratelimit"
	xhttp "WhalePulse/pkg/http"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(apiKey, srv.URL,
		xhttp.NewClient(xhttp.WithTimeout(5*time.Second)),
		ratelimit.New(100),
		nil, nil,
	)
}

func TestFetchQuote(t *testing.T) {
	var gotKey, gotSymbol string
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-CMC_PRO_API_KEY")
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"data":{"BTC":[{"quote":{"USD":{"price":43250.5,"percent_change_24h":2.4}}}]}}`))
	})

	quote, err := c.FetchQuote(context.Background(), "btc")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, 43250.5, quote.Price)
	assert.Equal(t, 2.4, quote.Change24hPct)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "BTC", gotSymbol)
}

func TestFetchQuoteUnconfigured(t *testing.T) {
	c := New("", "http://unused", nil, nil, nil, nil)

	quote, err := c.FetchQuote(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Nil(t, quote)
	assert.False(t, c.Configured())
}

func TestFetchQuoteUnknownSymbol(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})

	quote, err := c.FetchQuote(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestFetchQuoteNullPrice(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"BTC":[{"quote":{"USD":{"price":null,"percent_change_24h":0}}}]}}`))
	})

	quote, err := c.FetchQuote(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestFetchQuoteServerError(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchQuote(context.Background(), "BTC")
	assert.Error(t, err)
}
