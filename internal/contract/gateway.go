package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Logical contract names. They match the keys of the deployment checkpoint.
const (
	ArtistProfile = "ArtistProfile"
	Artwork       = "Artwork"
	Marketplace   = "Marketplace"
)

// Gas limit used when the node cannot simulate the transaction.
const fallbackGasLimit = 300_000

// SessionGate is the slice of the wallet session the gateway needs to admit
// or reject calls. *session.Manager satisfies it.
type SessionGate interface {
	Active() bool
	WriteAllowed() bool
	Account() string
}

// TxSigner signs transactions for the active account. *wallet.Signer
// satisfies it.
type TxSigner interface {
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
	Address() string
}

// Binding is a resolved contract handle: a deployed address plus its parsed
// ABI. Bindings are memoized per logical name and dropped wholesale when the
// wallet's chain changes.
type Binding struct {
	Name    string
	Address common.Address
	ABI     abi.ABI
}

// Gateway mediates every contract interaction. Reads require an active
// session; writes additionally require the wallet to be on the marketplace
// chain.
type Gateway struct {
	client    *chain.EVMClient
	sess      SessionGate
	signer    TxSigner
	chainID   *big.Int
	addresses map[string]string
	abis      map[string]abi.ABI

	mu       sync.Mutex
	bindings map[string]*Binding
}

// NewGateway creates a gateway over the given RPC client. addresses maps
// logical contract names to deployed addresses (typically the deployment
// checkpoint). signer may be nil for a read-only gateway.
func NewGateway(client *chain.EVMClient, sess SessionGate, signer TxSigner, chainID int64, addresses map[string]string) (*Gateway, error) {
	abis := make(map[string]abi.ABI, 3)
	for name, raw := range map[string]string{
		ArtistProfile: ArtistProfileABI,
		Artwork:       ArtworkABI,
		Marketplace:   MarketplaceABI,
	} {
		parsed, err := abi.JSON(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing %s ABI: %w", name, err)
		}
		abis[name] = parsed
	}

	return &Gateway{
		client:    client,
		sess:      sess,
		signer:    signer,
		chainID:   big.NewInt(chainID),
		addresses: addresses,
		abis:      abis,
		bindings:  make(map[string]*Binding),
	}, nil
}

// Resolve returns the binding for a logical contract name, creating and
// memoizing it on first use. Resolving without an active session fails with
// UninitializedSessionError.
func (g *Gateway) Resolve(name string) (*Binding, error) {
	if !g.sess.Active() {
		return nil, &UninitializedSessionError{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.bindings[name]; ok {
		return b, nil
	}

	parsed, ok := g.abis[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract %q", name)
	}
	addr, ok := g.addresses[name]
	if !ok || addr == "" {
		return nil, fmt.Errorf("no deployed address for contract %q", name)
	}

	b := &Binding{Name: name, Address: common.HexToAddress(addr), ABI: parsed}
	g.bindings[name] = b
	return b, nil
}

// InvalidateAll drops every memoized binding. Wire it to the session's chain
// change hook so no binding survives a network switch.
func (g *Gateway) InvalidateAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bindings = make(map[string]*Binding)
}

// Read performs a read-only contract call and decodes the result into out.
func (g *Gateway) Read(ctx context.Context, name, method string, out interface{}, args ...interface{}) error {
	b, err := g.Resolve(name)
	if err != nil {
		return err
	}

	data, err := b.ABI.Pack(method, args...)
	if err != nil {
		return &ContractReadError{Contract: name, Method: method, Cause: err}
	}

	result, err := g.client.CallContract(ctx, b.Address.Hex(), data)
	if err != nil {
		return &ContractReadError{Contract: name, Method: method, Cause: err}
	}

	if err := b.ABI.UnpackIntoInterface(out, method, result); err != nil {
		return &ContractReadError{Contract: name, Method: method, Cause: err}
	}
	return nil
}

// Write sends a state-changing contract call and waits for its receipt.
// value is the native amount attached to the call (nil for none). The call is
// rejected up front when the session does not permit writes; nothing reaches
// the network in that case.
func (g *Gateway) Write(ctx context.Context, name, method string, value *big.Int, args ...interface{}) (*chain.TxReceipt, error) {
	if !g.sess.Active() {
		return nil, &PreconditionError{
			Op:     name + "." + method,
			Reason: "no connected wallet session",
		}
	}
	if !g.sess.WriteAllowed() {
		return nil, &PreconditionError{
			Op:     name + "." + method,
			Reason: "wallet is not on the marketplace network",
		}
	}
	if g.signer == nil {
		return nil, &PreconditionError{
			Op:     name + "." + method,
			Reason: "no signing wallet configured",
		}
	}

	b, err := g.Resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := b.ABI.Pack(method, args...)
	if err != nil {
		return nil, &ContractWriteError{Contract: name, Method: method, Cause: err}
	}

	receipt, err := g.send(ctx, b.Address, data, value)
	if err != nil {
		return nil, &ContractWriteError{Contract: name, Method: method, Cause: err}
	}
	return receipt, nil
}

// Account returns the session's active account, or "" when disconnected.
func (g *Gateway) Account() string { return g.sess.Account() }

// EventID returns the topic hash for a named event of a contract.
func (g *Gateway) EventID(name, event string) (common.Hash, error) {
	parsed, ok := g.abis[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("unknown contract %q", name)
	}
	ev, ok := parsed.Events[event]
	if !ok {
		return common.Hash{}, fmt.Errorf("contract %q has no event %q", name, event)
	}
	return ev.ID, nil
}

// send builds, signs, broadcasts a transaction and waits for its receipt.
func (g *Gateway) send(ctx context.Context, to common.Address, data []byte, value *big.Int) (*chain.TxReceipt, error) {
	from := g.signer.Address()
	if value == nil {
		value = big.NewInt(0)
	}

	gas, err := g.client.EstimateGas(ctx, from, to.Hex(), data, value)
	if err != nil {
		gas = fallbackGasLimit
	}

	gasPrice, err := g.client.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := g.client.PendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   g.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})

	raw, err := g.signer.SignTx(tx, g.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := g.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	receipt, err := g.client.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("waiting for receipt of %s: %w", hash, err)
	}
	return receipt, nil
}
