package rpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// node serves eth_blockNumber after delay and counts calls.
func node(t *testing.T, block string, delay time.Duration) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			ID int `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		time.Sleep(delay)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": block})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestProbeKeepsOrderAndRecordsFailures(t *testing.T) {
	up, _ := node(t, "0x10", 0)
	down := deadURL(t)

	got := rpc.Probe(context.Background(), []string{down, up.URL})
	require.Len(t, got, 2)

	assert.Equal(t, down, got[0].URL)
	assert.Error(t, got[0].Err)
	assert.False(t, got[0].Healthy())

	assert.Equal(t, up.URL, got[1].URL)
	assert.NoError(t, got[1].Err)
	assert.Equal(t, uint64(16), got[1].BlockNumber)
	assert.True(t, got[1].Probed)
}

func TestPoolSingleRPCSkipsProbe(t *testing.T) {
	srv, calls := node(t, "0x1", 0)
	ch := &chain.Chain{Name: "sepolia", DisplayName: "Sepolia", RPCs: []string{srv.URL}}

	tr, err := rpc.NewPool(rpc.AlgorithmFastest).Transport(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, tr.URL())
	assert.Zero(t, calls.Load())
}

func TestPoolFastestProbesOnce(t *testing.T) {
	slow, slowCalls := node(t, "0x64", 150*time.Millisecond)
	fast, fastCalls := node(t, "0x64", 0)
	ch := &chain.Chain{Name: "sepolia", DisplayName: "Sepolia", RPCs: []string{slow.URL, fast.URL}}

	pool := rpc.NewPool(rpc.AlgorithmFastest)
	tr, err := pool.Transport(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, fast.URL, tr.URL())

	tr, err = pool.Transport(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, fast.URL, tr.URL())
	assert.Equal(t, int32(1), slowCalls.Load())
	assert.Equal(t, int32(1), fastCalls.Load())

	pool.Forget("sepolia")
	_, err = pool.Transport(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fastCalls.Load())
}

func TestPoolFailoverUsesConfiguredOrder(t *testing.T) {
	ch := &chain.Chain{Name: "ethereum", DisplayName: "Ethereum", RPCs: []string{"http://custom.example", "http://builtin.example"}}

	tr, err := rpc.NewPool(rpc.AlgorithmFailover).Transport(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, "http://custom.example", tr.URL())
}

func TestPoolAllDown(t *testing.T) {
	ch := &chain.Chain{Name: "sepolia", DisplayName: "Sepolia", RPCs: []string{deadURL(t), deadURL(t)}}

	_, err := rpc.NewPool(rpc.AlgorithmFastest).Transport(context.Background(), ch)
	require.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
	assert.Contains(t, err.Error(), "Sepolia")
}

func TestPoolNoRPCs(t *testing.T) {
	_, err := rpc.NewPool(rpc.AlgorithmFastest).Transport(context.Background(), &chain.Chain{Name: "sepolia"})
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}
