package gallery_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/corecanvas/canvas-cli/internal/wallet"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

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

// openGate admits everything.
type openGate struct{}

func (openGate) Active() bool       { return true }
func (openGate) WriteAllowed() bool { return true }
func (openGate) Account() string    { return testAddress }

// chainMock is a fake JSON-RPC node. Read calls are dispatched by the 4-byte
// method selector of the calldata; write transactions are decoded so tests
// can fail specific methods and inspect what was actually sent.
type chainMock struct {
	t *testing.T

	mu          sync.Mutex
	callResults map[string]string // selector → hex-encoded eth_call result
	failWrites  map[string]bool   // selector → reject eth_sendRawTransaction
	sentTxs     []*types.Transaction
	head        uint64
	logs        []chain.LogEntry
	txCount     int
}

func newChainMock(t *testing.T) (*chainMock, *httptest.Server) {
	t.Helper()
	m := &chainMock{
		t:           t,
		callResults: make(map[string]string),
		failWrites:  make(map[string]bool),
		head:        100,
	}
	srv := httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(srv.Close)
	return m, srv
}

func (m *chainMock) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
		ID     int               `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch req.Method {
	case "eth_call":
		var call struct {
			Data string `json:"data"`
		}
		require.NoError(m.t, json.Unmarshal(req.Params[0], &call))
		sel := call.Data[:10]
		if result, ok := m.callResults[sel]; ok {
			reply(w, req.ID, result)
		} else {
			replyError(w, req.ID, "execution reverted")
		}

	case "eth_estimateGas":
		reply(w, req.ID, "0x15f90")
	case "eth_gasPrice":
		reply(w, req.ID, "0x3b9aca00")
	case "eth_getTransactionCount":
		reply(w, req.ID, fmt.Sprintf("0x%x", len(m.sentTxs)))

	case "eth_sendRawTransaction":
		var rawHex string
		require.NoError(m.t, json.Unmarshal(req.Params[0], &rawHex))
		raw, err := hex.DecodeString(strings.TrimPrefix(rawHex, "0x"))
		require.NoError(m.t, err)
		var tx types.Transaction
		require.NoError(m.t, tx.UnmarshalBinary(raw))

		sel := "0x" + hex.EncodeToString(tx.Data()[:4])
		if m.failWrites[sel] {
			replyError(w, req.ID, "execution reverted")
			return
		}
		m.sentTxs = append(m.sentTxs, &tx)
		m.txCount++
		reply(w, req.ID, fmt.Sprintf("0x%064x", m.txCount))

	case "eth_getTransactionReceipt":
		reply(w, req.ID, map[string]interface{}{
			"status": "0x1", "blockNumber": "0x10", "gasUsed": "0x5208",
		})

	case "eth_blockNumber":
		reply(w, req.ID, fmt.Sprintf("0x%x", m.head))
	case "eth_getLogs":
		// Deliver the logs matching the requested address once, so pollers
		// never see an entry twice.
		var filter struct {
			Address string `json:"address"`
		}
		require.NoError(m.t, json.Unmarshal(req.Params[0], &filter))
		var matched, rest []chain.LogEntry
		for _, e := range m.logs {
			if strings.EqualFold(e.Address, filter.Address) {
				matched = append(matched, e)
			} else {
				rest = append(rest, e)
			}
		}
		m.logs = rest
		reply(w, req.ID, matched)

	default:
		replyError(w, req.ID, "method not found")
	}
}

func reply(w http.ResponseWriter, id int, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
		"jsonrpc": "2.0", "id": id, "result": result,
	})
}

func replyError(w http.ResponseWriter, id int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
		"jsonrpc": "2.0", "id": id,
		"error": map[string]interface{}{"code": 3, "message": msg},
	})
}

// --- ABI helpers ---

func parseABI(t *testing.T, raw string) gethabi.ABI {
	t.Helper()
	parsed, err := gethabi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

// selector returns the 0x-prefixed 4-byte selector of a method.
func selector(t *testing.T, parsed gethabi.ABI, method string) string {
	t.Helper()
	m, ok := parsed.Methods[method]
	require.True(t, ok, "method %s not in ABI", method)
	return "0x" + hex.EncodeToString(m.ID)
}

// encodeOutputs ABI-encodes a method's return values for an eth_call result.
func encodeOutputs(t *testing.T, parsed gethabi.ABI, method string, vals ...interface{}) string {
	t.Helper()
	m, ok := parsed.Methods[method]
	require.True(t, ok, "method %s not in ABI", method)
	packed, err := m.Outputs.Pack(vals...)
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(packed)
}

// newTestGateway wires a real gateway against the mock node.
func newTestGateway(t *testing.T, url string) *contract.Gateway {
	t.Helper()
	ks := wallet.NewInMemoryKeystore()
	ref, err := ks.Store("test", testKey)
	require.NoError(t, err)
	signer := wallet.NewSigner(testAddress, ref, ks)

	g, err := contract.NewGateway(chain.NewEVMClient(url), openGate{}, signer, 1115, testAddresses)
	require.NoError(t, err)
	return g
}
