package rpc_test

import (
	"testing"
	"time"

	"github.com/corecanvas/canvas-cli/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpoint(url string, latency time.Duration, block uint64, healthy bool) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block, Healthy: healthy}
}

func TestPickSelectsFastest(t *testing.T) {
	endpoints := []rpc.Endpoint{
		endpoint("http://slow.rpc", 200*time.Millisecond, 100, true),
		endpoint("http://fast.rpc", 30*time.Millisecond, 100, true),
		endpoint("http://medium.rpc", 80*time.Millisecond, 100, true),
	}

	winner, err := rpc.Pick(endpoints)

	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestPickDiscardsStaleNodes(t *testing.T) {
	endpoints := []rpc.Endpoint{
		endpoint("http://fresh.rpc", 50*time.Millisecond, 1000, true),
		endpoint("http://stale.rpc", 10*time.Millisecond, 990, true), // 10 blocks behind
	}

	winner, err := rpc.Pick(endpoints)

	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL, "stale node should be discarded even if faster")
}

func TestPickSkipsUnhealthy(t *testing.T) {
	endpoints := []rpc.Endpoint{
		endpoint("http://primary", 10*time.Millisecond, 100, false),
		endpoint("http://secondary", 40*time.Millisecond, 100, true),
	}

	winner, err := rpc.Pick(endpoints)

	require.NoError(t, err)
	assert.Equal(t, "http://secondary", winner.URL)
}

func TestPickErrorsWhenAllUnhealthy(t *testing.T) {
	endpoints := []rpc.Endpoint{
		endpoint("http://rpc1", 100*time.Millisecond, 0, false),
		endpoint("http://rpc2", 200*time.Millisecond, 0, false),
	}

	_, err := rpc.Pick(endpoints)

	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}

func TestSelectBestSingleURLShortCircuits(t *testing.T) {
	url, err := rpc.SelectBest(t.Context(), []string{"http://only.rpc"})

	require.NoError(t, err)
	assert.Equal(t, "http://only.rpc", url)
}

func TestSelectBestEmptyList(t *testing.T) {
	_, err := rpc.SelectBest(t.Context(), nil)

	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}
