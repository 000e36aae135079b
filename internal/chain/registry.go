package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds all metadata for a single supported network.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
	Testnet        bool     `json:"testnet"`
}

// Registry is the set of chains the wallet may connect to.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry returns the registry of supported chains: Sepolia first, then
// Ethereum mainnet.
func NewRegistry() *Registry {
	return newRegistry(allChains())
}

// WithCustomRPCs returns a copy of r where every chain named in custom has its
// custom URLs tried before the built-in ones.
func (r *Registry) WithCustomRPCs(custom map[string][]string) *Registry {
	chains := make([]Chain, len(r.chains))
	copy(chains, r.chains)
	for i := range chains {
		extra := custom[chains[i].Name]
		if len(extra) == 0 {
			continue
		}
		rpcs := make([]string, 0, len(extra)+len(chains[i].RPCs))
		rpcs = append(rpcs, extra...)
		rpcs = append(rpcs, chains[i].RPCs...)
		chains[i].RPCs = rpcs
	}
	return newRegistry(chains)
}

func newRegistry(chains []Chain) *Registry {
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name ("sepolia", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// Transport returns an HTTP JSON-RPC client for the chain's first RPC.
func (c *Chain) Transport() *EVMClient {
	if len(c.RPCs) == 0 {
		return nil
	}
	return NewEVMClient(c.RPCs[0])
}

// AddressURL links an address on the chain's explorer.
func (c *Chain) AddressURL(addr string) string {
	return strings.TrimSuffix(c.Explorer, "/") + "/address/" + addr
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "sepolia", DisplayName: "Sepolia", ChainID: 11155111,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://rpc.sepolia.org"},
			Explorer:       "https://sepolia.etherscan.io",
			Testnet:        true,
		},
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1,
			NativeCurrency: "ETH",
			RPCs:           []string{"https://ethereum-rpc.publicnode.com", "https://eth.llamarpc.com"},
			Explorer:       "https://etherscan.io",
		},
	}
}
