package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "WhalePulse/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, xhttp.NewClient(xhttp.WithTimeout(5*time.Second)), nil, nil)
}

func TestFundingRate(t *testing.T) {
	var gotSymbol string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"symbol":"ETHUSDT","lastFundingRate":"0.00031000","markPrice":"2400.10"}`))
	})

	rate, err := c.FundingRate(context.Background(), "eth")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.InDelta(t, 0.031, *rate, 1e-9) // raw rate scaled to percent
	assert.Equal(t, "ETHUSDT", gotSymbol)
}

func TestFundingRateEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"XYZUSDT"}`))
	})

	rate, err := c.FundingRate(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Nil(t, rate)
}

func TestFundingRateMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lastFundingRate":"not-a-number"}`))
	})

	rate, err := c.FundingRate(context.Background(), "ETH")
	assert.Error(t, err)
	assert.Nil(t, rate)
}

func TestFundingRateServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.FundingRate(context.Background(), "ETH")
	assert.Error(t, err)
}
