package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/corecanvas/canvas-cli/internal/chain"
)

// ErrUnknownChain is returned by SwitchChain when the wallet has no entry for
// the requested chain. Callers register the chain with AddChain and retry.
var ErrUnknownChain = errors.New("chain not registered with wallet")

// ErrNoAccounts is returned by RequestAccounts when the wallet holds no
// accounts or the user declined the request.
var ErrNoAccounts = errors.New("no accounts available")

// NotificationKind distinguishes the wallet events a provider emits.
type NotificationKind int

const (
	AccountsChanged NotificationKind = iota
	ChainChanged
)

// Notification is an unsolicited wallet event. Accounts is set for
// AccountsChanged (empty slice means the wallet disconnected the app);
// ChainID is set for ChainChanged.
type Notification struct {
	Kind     NotificationKind
	Accounts []string
	ChainID  int64
}

// Provider is the wallet surface the session layer talks to. It mirrors the
// parts of an injected browser wallet the marketplace needs: account access,
// the active chain, chain switching with the register-and-retry handshake,
// and a stream of unsolicited account/chain events.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (int64, error)
	SwitchChain(ctx context.Context, chainID int64) error
	AddChain(ctx context.Context, params chain.AddChainParams) error
	Notifications() <-chan Notification
	Close()
}

// LocalProvider implements Provider over locally stored keys. It keeps its
// own notion of which chains it knows so the switch/add handshake behaves
// like a real wallet.
type LocalProvider struct {
	mu       sync.Mutex
	accounts []string
	chainID  int64
	known    map[int64]chain.AddChainParams
	notify   chan Notification
	closed   bool
}

// NewLocalProvider creates a provider with the given accounts, starting on
// startChain. The provider initially knows only the chains passed in known.
func NewLocalProvider(accounts []string, startChain int64, known []chain.AddChainParams) *LocalProvider {
	p := &LocalProvider{
		accounts: accounts,
		chainID:  startChain,
		known:    make(map[int64]chain.AddChainParams, len(known)),
		notify:   make(chan Notification, 16),
	}
	for _, k := range known {
		p.known[k.ChainID] = k
	}
	return p
}

// RequestAccounts returns the wallet's accounts.
func (p *LocalProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.accounts) == 0 {
		return nil, ErrNoAccounts
	}
	out := make([]string, len(p.accounts))
	copy(out, p.accounts)
	return out, nil
}

// ChainID returns the chain the wallet is currently on.
func (p *LocalProvider) ChainID(ctx context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

// SwitchChain moves the wallet to another chain. Unknown chains return
// ErrUnknownChain; a successful switch emits a ChainChanged notification.
func (p *LocalProvider) SwitchChain(ctx context.Context, chainID int64) error {
	p.mu.Lock()
	if _, ok := p.known[chainID]; !ok {
		p.mu.Unlock()
		return ErrUnknownChain
	}
	p.chainID = chainID
	p.mu.Unlock()

	p.emit(Notification{Kind: ChainChanged, ChainID: chainID})
	return nil
}

// AddChain registers a chain with the wallet.
func (p *LocalProvider) AddChain(ctx context.Context, params chain.AddChainParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.known[params.ChainID] = params
	return nil
}

// SetAccounts replaces the wallet's account list and notifies listeners. An
// empty list models the wallet disconnecting the app.
func (p *LocalProvider) SetAccounts(accounts []string) {
	p.mu.Lock()
	p.accounts = accounts
	p.mu.Unlock()

	out := make([]string, len(accounts))
	copy(out, accounts)
	p.emit(Notification{Kind: AccountsChanged, Accounts: out})
}

// Notifications returns the wallet event stream.
func (p *LocalProvider) Notifications() <-chan Notification {
	return p.notify
}

// Close shuts down the event stream.
func (p *LocalProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.notify)
	}
}

func (p *LocalProvider) emit(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.notify <- n:
	default:
		// Drop rather than block a slow consumer.
	}
}
