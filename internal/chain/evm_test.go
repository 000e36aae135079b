package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Pass method→result pairs; any unknown method returns an RPC error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// ChainID
// ---------------------------------------------------------------------------

func TestChainIDSepolia(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0xaa36a7"})
	id, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), id)
}

func TestChainIDRPCError(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{})
	_, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.Code)
}

func TestChainIDHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestChainIDResponseIDMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":999,"result":"0x1"}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	_, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestChainIDBadResultType(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": 5})
	_, err := NewEVMClient(srv.URL).ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected result type")
}

func TestChainIDConnectionRefused(t *testing.T) {
	_, err := NewEVMClient("http://127.0.0.1:19991").ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC request failed")
}

func TestChainIDContextCancelled(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_chainId": "0x1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEVMClient(srv.URL).ChainID(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// GetBalance
// ---------------------------------------------------------------------------

func TestGetBalanceOneETH(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getBalance": "0xde0b6b3a7640000"})
	bal, err := NewEVMClient(srv.URL).GetBalance(context.Background(), "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Wei.Cmp(big.NewInt(1e18)))
	assert.Equal(t, "1.000000000000000000", bal.ETH)
}

func TestGetBalanceZero(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getBalance": "0x0"})
	bal, err := NewEVMClient(srv.URL).GetBalance(context.Background(), "0x0000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Wei.Sign())
}

func TestGetBalanceUnparseable(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getBalance": "0xZZ"})
	_, err := NewEVMClient(srv.URL).GetBalance(context.Background(), "0x0000000000000000000000000000000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse")
}

func TestGetBalanceRejectsBadAddress(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_getBalance": "0x1"})
	_, err := NewEVMClient(srv.URL).GetBalance(context.Background(), "0x0")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

// ---------------------------------------------------------------------------
// Ping
// ---------------------------------------------------------------------------

func TestPingSuccess(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{"eth_blockNumber": "0x10"})
	latency, block, err := NewEVMClient(srv.URL).Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), block)
	assert.Greater(t, latency, time.Duration(0))
}

func TestPingError(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{})
	_, block, err := NewEVMClient(srv.URL).Ping(context.Background())
	require.Error(t, err)
	assert.Zero(t, block)
}

// ---------------------------------------------------------------------------
// formatting
// ---------------------------------------------------------------------------

func TestFormatETH(t *testing.T) {
	wei, _ := new(big.Int).SetString("12345000000000000", 10)
	assert.Equal(t, "0.0123", FormatETH(wei, 4))
	assert.Equal(t, "0", FormatETH(nil, 4))
}

func TestFormatETHKeepsLargeBalancesExact(t *testing.T) {
	wei, _ := new(big.Int).SetString("123456789000000000000000001", 10)
	assert.Equal(t, "123456789.000000000000000001", FormatETH(wei, 18))
}
