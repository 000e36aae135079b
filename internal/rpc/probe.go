package rpc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/piggybank/internal/chain"
)

const (
	probeTimeout     = 5 * time.Second
	probeConcurrency = 8
)

// Probe pings every URL with eth_blockNumber concurrently and returns one
// endpoint per URL, in input order. Failures are recorded per endpoint.
func Probe(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for i, url := range urls {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			latency, block, err := chain.NewEVMClient(url).Ping(pctx)
			out[i] = Endpoint{URL: url, Latency: latency, BlockNumber: block, Err: err, Probed: true}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Unprobed wraps urls as endpoints with no measurements.
func Unprobed(urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	for i, u := range urls {
		out[i] = Endpoint{URL: u}
	}
	return out
}
