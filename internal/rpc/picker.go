package rpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/corecanvas/canvas-cli/internal/chain"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Discard nodes more than this many blocks behind the best.
const staleBlockThreshold = 3

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool
}

// Probe health-checks every URL concurrently and returns the results in the
// same order as the input.
func Probe(ctx context.Context, urls []string) []Endpoint {
	endpoints := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			endpoints[i] = healthCheck(ctx, url)
		}(i, url)
	}
	wg.Wait()
	return endpoints
}

// Pick selects the fastest healthy endpoint that is not stale relative to the
// best-known block.
func Pick(endpoints []Endpoint) (*Endpoint, error) {
	var bestBlock uint64
	for _, e := range endpoints {
		if e.Healthy && e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	var winner *Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy {
			continue
		}
		if bestBlock > 0 && bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if winner == nil || e.Latency < winner.Latency {
			winner = e
		}
	}

	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

// SelectBest probes the given URLs and returns the fastest healthy one. A
// single-entry list short-circuits without probing.
func SelectBest(ctx context.Context, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	winner, err := Pick(Probe(ctx, urls))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}

func healthCheck(ctx context.Context, url string) Endpoint {
	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := chain.NewEVMClient(url)
	latency, blockNum, err := c.Ping(timeoutCtx)

	return Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: blockNum,
		Healthy:     err == nil,
	}
}
