package etherscan

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

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", srv.URL, 300,
		xhttp.NewClient(xhttp.WithTimeout(5*time.Second)),
		ratelimit.New(100),
		nil, nil,
	)
	return c, srv
}

func TestTokenTransfers(t *testing.T) {
	var tokentxQuery map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("action") {
		case "eth_blockNumber":
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x112a880"}`))
		case "tokentx":
			tokentxQuery = map[string]string{
				"contractaddress": q.Get("contractaddress"),
				"startblock":      q.Get("startblock"),
				"endblock":        q.Get("endblock"),
				"sort":            q.Get("sort"),
				"apikey":          q.Get("apikey"),
			}
			w.Write([]byte(`{"status":"1","message":"OK","result":[
				{"from":"0xaaa","to":"0xbbb","value":"5000000000000000000","tokenDecimal":"18"},
				{"from":"0xccc","to":"0xddd","value":"1000000","tokenDecimal":"6"}
			]}`))
		default:
			t.Errorf("unexpected action %q", q.Get("action"))
		}
	})

	transfers, err := c.TokenTransfers(context.Background(), "0xdeadbeef", 24)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "0xaaa", transfers[0].From)
	assert.Equal(t, "0xbbb", transfers[0].To)

	// 0x112a880 = 18000000; 24h window at 300 blocks/hour reaches back 7200.
	assert.Equal(t, "0xdeadbeef", tokentxQuery["contractaddress"])
	assert.Equal(t, "17992800", tokentxQuery["startblock"])
	assert.Equal(t, "18000000", tokentxQuery["endblock"])
	assert.Equal(t, "desc", tokentxQuery["sort"])
	assert.Equal(t, "test-key", tokentxQuery["apikey"])
}

func TestTokenTransfersProviderRejection(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "eth_blockNumber":
			w.Write([]byte(`{"result":"0xf4240"}`))
		case "tokentx":
			w.Write([]byte(`{"status":"0","message":"Max rate limit reached","result":[]}`))
		}
	})

	transfers, err := c.TokenTransfers(context.Background(), "0xdeadbeef", 1)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestTokenTransfersBadBlockNumber(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"not-hex"}`))
	})

	_, err := c.TokenTransfers(context.Background(), "0xdeadbeef", 1)
	assert.Error(t, err)
}

func TestTokenTransfersStartBlockClampedAtZero(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("action") {
		case "eth_blockNumber":
			w.Write([]byte(`{"result":"0x64"}`)) // block 100, far below the window
		case "tokentx":
			assert.Equal(t, "0", q.Get("startblock"))
			w.Write([]byte(`{"status":"1","message":"OK","result":[]}`))
		}
	})

	transfers, err := c.TokenTransfers(context.Background(), "0xdeadbeef", 24)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestEnabled(t *testing.T) {
	assert.True(t, New("key", "", 300, nil, nil, nil, nil).Enabled())
	assert.False(t, New("", "", 300, nil, nil, nil, nil).Enabled())
}
