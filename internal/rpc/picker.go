package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no endpoint can serve a request.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm names the endpoint selection strategy.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// nodes further behind the tip than this are never picked
	staleBlockThreshold = 3
	defaultWinnerTTL    = 5 * time.Minute
)

// ParseAlgorithm maps a config value to an Algorithm. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	default:
		return "", fmt.Errorf("unknown RPC algorithm %q", s)
	}
}

// NeedsProbe reports whether the algorithm ranks endpoints by measurement.
func (a Algorithm) NeedsProbe() bool {
	return a == AlgorithmFastest || a == ""
}

// Endpoint is one RPC URL and what a probe learned about it.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
	Probed      bool
}

// Healthy reports whether the endpoint may be picked. Unprobed endpoints
// are given the benefit of the doubt.
func (e Endpoint) Healthy() bool {
	return !e.Probed || e.Err == nil
}

// Picker chooses among endpoints. It is safe for concurrent use; the
// fastest winner is remembered for a while so callers need not re-probe.
type Picker struct {
	algo Algorithm
	ttl  time.Duration
	now  func() time.Time

	mu     sync.Mutex
	next   int
	winner string
	until  time.Time
}

// NewPicker creates a Picker for algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo, ttl: defaultWinnerTTL, now: time.Now}
}

// Algorithm returns the picker's strategy.
func (p *Picker) Algorithm() Algorithm { return p.algo }

// Cached returns the remembered fastest URL, if still fresh.
func (p *Picker) Cached() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.winner == "" || !p.now().Before(p.until) {
		return "", false
	}
	return p.winner, true
}

// Forget drops the remembered winner, e.g. after it failed a request.
func (p *Picker) Forget() {
	p.mu.Lock()
	p.winner = ""
	p.mu.Unlock()
}

// Pick selects one endpoint.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	if len(endpoints) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}
	switch p.algo {
	case AlgorithmRoundRobin:
		return p.roundRobin(endpoints)
	case AlgorithmFailover:
		return failover(endpoints)
	default:
		return p.fastest(endpoints)
	}
}

func (p *Picker) fastest(endpoints []Endpoint) (Endpoint, error) {
	tip := bestBlock(endpoints)

	var (
		winner Endpoint
		found  bool
		top    float64
	)
	for _, e := range endpoints {
		if !e.Healthy() || stale(e, tip) {
			continue
		}
		if s := score(e, tip); !found || s > top {
			winner, top, found = e, s, true
		}
	}
	if !found {
		return Endpoint{}, ErrNoHealthyRPC
	}

	p.mu.Lock()
	p.winner = winner.URL
	p.until = p.now().Add(p.ttl)
	p.mu.Unlock()
	return winner, nil
}

func (p *Picker) roundRobin(endpoints []Endpoint) (Endpoint, error) {
	healthy := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Healthy() {
			healthy = append(healthy, e)
		}
	}
	if len(healthy) == 0 {
		return Endpoint{}, ErrNoHealthyRPC
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	e := healthy[p.next%len(healthy)]
	p.next = (p.next + 1) % len(healthy)
	return e, nil
}

func failover(endpoints []Endpoint) (Endpoint, error) {
	for _, e := range endpoints {
		if e.Healthy() {
			return e, nil
		}
	}
	return Endpoint{}, ErrNoHealthyRPC
}

// score favours low latency, then recency. Higher is better.
func score(e Endpoint, tip uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else if e.Latency > 0 {
		s += 1000.0
	}
	if tip > 0 {
		s += float64(10 - int64(tip-e.BlockNumber))
	}
	return s
}

func bestBlock(endpoints []Endpoint) uint64 {
	var tip uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > tip {
			tip = e.BlockNumber
		}
	}
	return tip
}

func stale(e Endpoint, tip uint64) bool {
	return tip > 0 && e.BlockNumber > 0 && tip-e.BlockNumber > staleBlockThreshold
}
