package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	defaultTimeout = 15 * time.Second
	// JSON-RPC replies for the calls made here are tiny.
	maxResponseSize = 1 << 20
)

// ErrInvalidAddress is returned for an address that is not 20 hex bytes.
var ErrInvalidAddress = errors.New("invalid address")

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// EVMClient is a minimal JSON-RPC client for EVM chains. It is the HTTP
// transport the wallet connectors and balance queries run over.
type EVMClient struct {
	url    string
	client *http.Client
	nextID atomic.Int64
}

// Balance holds a native balance result.
type Balance struct {
	Wei *big.Int
	ETH string
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// URL returns the endpoint the client talks to.
func (c *EVMClient) URL() string { return c.url }

// ChainID returns the chain's ID as reported by the node.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	n, err := c.quantity(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("eth_chainId out of range: %s", n)
	}
	return n.Int64(), nil
}

// GetBalance returns the latest native balance of address.
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*Balance, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	wei, err := c.quantity(ctx, "eth_getBalance", common.HexToAddress(address), "latest")
	if err != nil {
		return nil, err
	}
	return &Balance{Wei: wei, ETH: FormatETH(wei, 18)}, nil
}

// Ping measures a single eth_blockNumber round trip.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	n, err := c.quantity(ctx, "eth_blockNumber")
	latency = time.Since(start)
	if err != nil {
		return latency, 0, err
	}
	if !n.IsUint64() {
		return latency, 0, fmt.Errorf("eth_blockNumber out of range: %s", n)
	}
	return latency, n.Uint64(), nil
}

// --- internal ---

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// quantity performs a call whose result is a hex-encoded integer.
func (c *EVMClient) quantity(ctx context.Context, method string, params ...any) (*big.Int, error) {
	raw, err := c.call(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s: unexpected result type: %s", method, raw)
	}
	n, err := hexutil.DecodeBig(s)
	if err != nil {
		return nil, fmt.Errorf("%s: could not parse %q: %w", method, s, err)
	}
	return n, nil
}

func (c *EVMClient) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	id := c.nextID.Add(1)

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(request{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("RPC request failed: HTTP %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	if out.ID != id {
		return nil, fmt.Errorf("response id %d does not match request %d", out.ID, id)
	}
	return out.Result, nil
}

var weiPerETH = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// FormatETH renders wei as an ETH decimal with the given precision.
func FormatETH(wei *big.Int, precision int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, weiPerETH)
	return f.Text('f', precision)
}
