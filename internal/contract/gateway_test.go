package contract_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/corecanvas/canvas-cli/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(s string) common.Address { return common.HexToAddress(s) }

// Well-known test key (hardhat account #0). Never fund on a real network.
const (
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

var testAddresses = map[string]string{
	contract.ArtistProfile: "0x0262Cf4Ec6CB23a634B577D1fC37A6D5fD87A6a6",
	contract.Artwork:       "0x0773e4a8aC3078371cB46c66A545E8Ba7F1f085c",
	contract.Marketplace:   "0x259c302c3e36B0c402b5216a9ce4FF044FB00d5A",
}

// fakeGate is a scriptable SessionGate.
type fakeGate struct {
	active   bool
	writable bool
	account  string
}

func (f *fakeGate) Active() bool       { return f.active }
func (f *fakeGate) WriteAllowed() bool { return f.writable }
func (f *fakeGate) Account() string    { return f.account }

// rpcMock serves a fixed JSON-RPC result per method and counts requests.
func rpcMock(t *testing.T, responses map[string]interface{}) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
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
	return srv, &calls
}

func newGateway(t *testing.T, url string, gate *fakeGate, signer contract.TxSigner) *contract.Gateway {
	t.Helper()
	g, err := contract.NewGateway(chain.NewEVMClient(url), gate, signer, 1115, testAddresses)
	require.NoError(t, err)
	return g
}

func testSigner(t *testing.T) *wallet.Signer {
	t.Helper()
	ks := wallet.NewInMemoryKeystore()
	ref, err := ks.Store("test", testKey)
	require.NoError(t, err)
	return wallet.NewSigner(testAddress, ref, ks)
}

func TestResolveRequiresSession(t *testing.T) {
	g := newGateway(t, "http://unused", &fakeGate{active: false}, nil)

	_, err := g.Resolve(contract.Artwork)

	var uninit *contract.UninitializedSessionError
	assert.ErrorAs(t, err, &uninit)
}

func TestResolveMemoizesBinding(t *testing.T) {
	g := newGateway(t, "http://unused", &fakeGate{active: true}, nil)

	b1, err := g.Resolve(contract.Artwork)
	require.NoError(t, err)
	b2, err := g.Resolve(contract.Artwork)
	require.NoError(t, err)

	assert.Same(t, b1, b2, "repeated resolves must return the same binding")
}

func TestInvalidateAllDropsBindings(t *testing.T) {
	g := newGateway(t, "http://unused", &fakeGate{active: true}, nil)

	b1, err := g.Resolve(contract.Marketplace)
	require.NoError(t, err)

	g.InvalidateAll()

	b2, err := g.Resolve(contract.Marketplace)
	require.NoError(t, err)
	assert.NotSame(t, b1, b2, "bindings must be rebuilt after invalidation")
}

func TestResolveUnknownContract(t *testing.T) {
	g := newGateway(t, "http://unused", &fakeGate{active: true}, nil)

	_, err := g.Resolve("Escrow")
	assert.Error(t, err)
}

func TestReadDecodesResult(t *testing.T) {
	// isFollowing returns a single ABI-encoded bool.
	srv, _ := rpcMock(t, map[string]interface{}{
		"eth_call": "0x0000000000000000000000000000000000000000000000000000000000000001",
	})
	g := newGateway(t, srv.URL, &fakeGate{active: true}, nil)

	var following bool
	err := g.Read(t.Context(), contract.ArtistProfile, "isFollowing", &following,
		addr(testAddress), addr(testAddresses[contract.ArtistProfile]))

	require.NoError(t, err)
	assert.True(t, following)
}

func TestReadWrapsRPCFailure(t *testing.T) {
	srv, _ := rpcMock(t, map[string]interface{}{}) // every method errors
	g := newGateway(t, srv.URL, &fakeGate{active: true}, nil)

	var supply *big.Int
	err := g.Read(t.Context(), contract.Artwork, "totalSupply", &supply)

	var readErr *contract.ContractReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, contract.Artwork, readErr.Contract)
	assert.Equal(t, "totalSupply", readErr.Method)
}

func TestWriteRejectedOnWrongNetwork(t *testing.T) {
	srv, calls := rpcMock(t, map[string]interface{}{})
	gate := &fakeGate{active: true, writable: false, account: testAddress}
	g := newGateway(t, srv.URL, gate, testSigner(t))

	_, err := g.Write(t.Context(), contract.Marketplace, "buyArtwork", big.NewInt(1), big.NewInt(7))

	var pre *contract.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, int64(0), calls.Load(), "a rejected write must never reach the network")
}

func TestWriteRejectedWithoutSession(t *testing.T) {
	srv, calls := rpcMock(t, map[string]interface{}{})
	g := newGateway(t, srv.URL, &fakeGate{active: false}, testSigner(t))

	_, err := g.Write(t.Context(), contract.ArtistProfile, "createProfile", nil, "ada", "painter")

	var pre *contract.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "ArtistProfile.createProfile", pre.Op)
	assert.Equal(t, int64(0), calls.Load(), "a rejected write must never reach the network")
}

func TestWriteSendsAndWaitsForReceipt(t *testing.T) {
	srv, _ := rpcMock(t, map[string]interface{}{
		"eth_estimateGas":           "0x15f90",
		"eth_gasPrice":              "0x3b9aca00",
		"eth_getTransactionCount":   "0x2",
		"eth_sendRawTransaction":    "0xdeadbeef",
		"eth_getTransactionReceipt": map[string]interface{}{"status": "0x1", "blockNumber": "0x10", "gasUsed": "0x5208"},
	})
	gate := &fakeGate{active: true, writable: true, account: testAddress}
	g := newGateway(t, srv.URL, gate, testSigner(t))

	receipt, err := g.Write(t.Context(), contract.ArtistProfile, "createProfile", nil, "ada", "painter")

	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, "0xdeadbeef", receipt.Hash)
}

func TestWriteRevertedTransaction(t *testing.T) {
	srv, _ := rpcMock(t, map[string]interface{}{
		"eth_estimateGas":           "0x15f90",
		"eth_gasPrice":              "0x3b9aca00",
		"eth_getTransactionCount":   "0x2",
		"eth_sendRawTransaction":    "0xdeadbeef",
		"eth_getTransactionReceipt": map[string]interface{}{"status": "0x0", "blockNumber": "0x10"},
	})
	gate := &fakeGate{active: true, writable: true, account: testAddress}
	g := newGateway(t, srv.URL, gate, testSigner(t))

	_, err := g.Write(t.Context(), contract.Marketplace, "buyArtwork", big.NewInt(100), big.NewInt(1))

	var writeErr *contract.ContractWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "buyArtwork", writeErr.Method)
}

func TestEventID(t *testing.T) {
	g := newGateway(t, "http://unused", &fakeGate{active: true}, nil)

	sold, err := g.EventID(contract.Marketplace, "ArtworkSold")
	require.NoError(t, err)
	listed, err := g.EventID(contract.Marketplace, "ArtworkListed")
	require.NoError(t, err)

	assert.NotEqual(t, sold, listed)

	_, err = g.EventID(contract.Marketplace, "NoSuchEvent")
	assert.Error(t, err)
}
