package session

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/wallet"
)

// State is the wallet session state.
type State int

const (
	// Disconnected means no account is attached.
	Disconnected State = iota
	// Connecting means a connection attempt is in flight.
	Connecting
	// Connected means an account is attached and the wallet is on the
	// marketplace chain. Both reads and writes are allowed.
	Connected
	// NetworkMismatch means an account is attached but the wallet sits on a
	// different chain. Reads are allowed, writes are not.
	NetworkMismatch
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case NetworkMismatch:
		return "network mismatch"
	default:
		return "disconnected"
	}
}

// Session is a point-in-time snapshot of the wallet session.
type Session struct {
	State   State
	Account string
	ChainID int64
	Balance *big.Int // native balance in wei; nil when not fetched
}

// BalanceReader fetches native balances. *chain.EVMClient satisfies it.
type BalanceReader interface {
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// Manager owns the wallet session. It drives connect/disconnect, keeps the
// session in sync with unsolicited wallet events, and gates chain access:
// writes need Connected, reads need Connected or NetworkMismatch.
type Manager struct {
	provider wallet.Provider
	target   *chain.Chain // the chain the marketplace runs on
	reader   BalanceReader

	mu      sync.Mutex
	state   State
	account string
	chainID int64
	balance *big.Int
	onReset []func()

	done chan struct{}
	once sync.Once
}

// NewManager creates a session manager for the given wallet provider and
// target chain, and starts listening for wallet events. Call Close when done.
func NewManager(provider wallet.Provider, target *chain.Chain, reader BalanceReader) *Manager {
	m := &Manager{
		provider: provider,
		target:   target,
		reader:   reader,
		state:    Disconnected,
		done:     make(chan struct{}),
	}
	go m.watch()
	return m
}

// OnReset registers a hook fired whenever the wallet's chain changes. The
// contract layer uses this to drop memoized bindings before any further call
// can observe the new chain.
func (m *Manager) OnReset(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReset = append(m.onReset, fn)
}

// Connect establishes a wallet session. Calling it while already connected is
// a no-op that returns the current session. If the wallet sits on the wrong
// chain, Connect tries to move it over; when that fails the session still
// comes up, in the NetworkMismatch state.
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	m.mu.Lock()
	if m.state == Connected || m.state == NetworkMismatch {
		s := m.snapshotLocked()
		m.mu.Unlock()
		return s, nil
	}
	m.state = Connecting
	m.mu.Unlock()

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil || len(accounts) == 0 {
		if err == nil {
			err = wallet.ErrNoAccounts
		}
		m.reset()
		return Session{State: Disconnected}, &ConnectionError{Cause: err}
	}

	chainID, err := m.provider.ChainID(ctx)
	if err != nil {
		m.reset()
		return Session{State: Disconnected}, &ConnectionError{Cause: err}
	}

	if chainID != m.target.ChainID {
		// Best effort: a refused switch leaves the session in NetworkMismatch
		// rather than failing the connect.
		if switchErr := m.switchWithRegister(ctx); switchErr == nil {
			chainID = m.target.ChainID
		}
	}

	m.mu.Lock()
	m.account = accounts[0]
	m.chainID = chainID
	m.state = m.stateForLocked()
	m.mu.Unlock()

	m.refreshBalance(ctx)
	return m.Current(), nil
}

// Disconnect drops the session.
func (m *Manager) Disconnect() {
	m.reset()
}

// SwitchNetwork moves the wallet to the marketplace chain. When the wallet
// does not know the chain it is registered first and the switch retried once.
func (m *Manager) SwitchNetwork(ctx context.Context) error {
	if err := m.switchWithRegister(ctx); err != nil {
		return &NetworkSwitchError{ChainID: m.target.ChainID, Cause: err}
	}

	m.mu.Lock()
	m.chainID = m.target.ChainID
	m.state = m.stateForLocked()
	m.mu.Unlock()
	return nil
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Active reports whether an account is attached (reads allowed).
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Connected || m.state == NetworkMismatch
}

// WriteAllowed reports whether state-changing calls may be sent.
func (m *Manager) WriteAllowed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Connected
}

// Account returns the active account, or "" when disconnected.
func (m *Manager) Account() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account
}

// RefreshBalance re-fetches the active account's native balance.
func (m *Manager) RefreshBalance(ctx context.Context) {
	m.refreshBalance(ctx)
}

// Close stops the wallet event loop.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}

// --- internals ---

// watch consumes unsolicited wallet events and keeps the session in sync.
func (m *Manager) watch() {
	for {
		select {
		case <-m.done:
			return
		case n, ok := <-m.provider.Notifications():
			if !ok {
				return
			}
			m.handle(n)
		}
	}
}

func (m *Manager) handle(n wallet.Notification) {
	switch n.Kind {
	case wallet.AccountsChanged:
		if len(n.Accounts) == 0 {
			m.reset()
			return
		}
		m.mu.Lock()
		m.account = n.Accounts[0]
		m.balance = nil // stale for the new account
		if m.state == Disconnected {
			m.state = m.stateForLocked()
		}
		m.mu.Unlock()
		m.refreshBalance(context.Background())

	case wallet.ChainChanged:
		// Drop contract bindings before the new chain ID becomes visible, so
		// nothing can read a stale binding against the new chain. Hooks run
		// outside the lock; this loop is the only writer of chainID from
		// wallet events.
		m.mu.Lock()
		hooks := make([]func(), len(m.onReset))
		copy(hooks, m.onReset)
		m.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}

		m.mu.Lock()
		m.chainID = n.ChainID
		if m.state != Disconnected {
			m.state = m.stateForLocked()
		}
		m.mu.Unlock()
	}
}

func (m *Manager) switchWithRegister(ctx context.Context) error {
	err := m.provider.SwitchChain(ctx, m.target.ChainID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, wallet.ErrUnknownChain) {
		return err
	}
	if err := m.provider.AddChain(ctx, m.target.Params()); err != nil {
		return err
	}
	return m.provider.SwitchChain(ctx, m.target.ChainID)
}

func (m *Manager) refreshBalance(ctx context.Context) {
	m.mu.Lock()
	account := m.account
	active := m.state == Connected || m.state == NetworkMismatch
	m.mu.Unlock()
	if !active || m.reader == nil {
		return
	}

	// Balance display is best effort; a failed fetch leaves it unset.
	bal, err := m.reader.Balance(ctx, account)
	if err != nil {
		return
	}
	m.mu.Lock()
	if m.account == account {
		m.balance = bal
	}
	m.mu.Unlock()
}

func (m *Manager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Disconnected
	m.account = ""
	m.chainID = 0
	m.balance = nil
}

func (m *Manager) stateForLocked() State {
	if m.account == "" {
		return Disconnected
	}
	if m.chainID == m.target.ChainID {
		return Connected
	}
	return NetworkMismatch
}

func (m *Manager) snapshotLocked() Session {
	return Session{
		State:   m.state,
		Account: m.account,
		ChainID: m.chainID,
		Balance: m.balance,
	}
}
