package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
	"github.com/Mohsinsiddi/piggybank/internal/logger"
)

// Pool hands out a JSON-RPC transport per chain, choosing among the chain's
// RPC URLs with one Picker per chain.
type Pool struct {
	algo Algorithm
	log  *logger.Logger

	mu      sync.Mutex
	pickers map[string]*Picker
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithLogger sets the pool's logger.
func WithLogger(l *logger.Logger) PoolOption {
	return func(p *Pool) { p.log = l }
}

// NewPool creates a Pool using algo for every chain.
func NewPool(algo Algorithm, opts ...PoolOption) *Pool {
	p := &Pool{algo: algo, pickers: make(map[string]*Picker)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transport returns a client for ch. With the fastest algorithm the chain's
// endpoints are probed once and the winner reused until it goes stale.
func (p *Pool) Transport(ctx context.Context, ch *chain.Chain) (*chain.EVMClient, error) {
	if ch == nil || len(ch.RPCs) == 0 {
		return nil, fmt.Errorf("%w for chain", ErrNoHealthyRPC)
	}
	if len(ch.RPCs) == 1 {
		return chain.NewEVMClient(ch.RPCs[0]), nil
	}

	picker := p.picker(ch.Name)
	if url, ok := picker.Cached(); ok {
		return chain.NewEVMClient(url), nil
	}

	endpoints := Unprobed(ch.RPCs)
	if p.algo.NeedsProbe() {
		endpoints = Probe(ctx, ch.RPCs)
	}
	winner, err := picker.Pick(endpoints)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ch.DisplayName, err)
	}
	p.log.WithFields(map[string]any{
		"chain":     ch.Name,
		"rpc":       winner.URL,
		"algorithm": string(p.algo),
		"latency":   winner.Latency.String(),
	}).Debug("rpc endpoint selected")
	return chain.NewEVMClient(winner.URL), nil
}

// Forget drops the remembered endpoint for chain so the next Transport call
// chooses again.
func (p *Pool) Forget(chainName string) {
	p.picker(chainName).Forget()
}

func (p *Pool) picker(name string) *Picker {
	p.mu.Lock()
	defer p.mu.Unlock()
	pk, ok := p.pickers[name]
	if !ok {
		pk = NewPicker(p.algo)
		p.pickers[name] = pk
	}
	return pk
}
