package session_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/session"
	"github.com/corecanvas/canvas-cli/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable wallet.Provider.
type fakeProvider struct {
	accounts        []string
	accountsErr     error
	chainID         int64
	known           map[int64]bool
	switchRefused   error // non-nil forces every SwitchChain to fail with it
	requestCalls    int
	switchCalls     []int64
	addChainCalls   int
	notify          chan wallet.Notification
}

func newFakeProvider(accounts []string, chainID int64, knownChains ...int64) *fakeProvider {
	known := make(map[int64]bool)
	for _, id := range knownChains {
		known[id] = true
	}
	return &fakeProvider{
		accounts: accounts,
		chainID:  chainID,
		known:    known,
		notify:   make(chan wallet.Notification, 8),
	}
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	f.requestCalls++
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	if len(f.accounts) == 0 {
		return nil, wallet.ErrNoAccounts
	}
	return f.accounts, nil
}

func (f *fakeProvider) ChainID(ctx context.Context) (int64, error) { return f.chainID, nil }

func (f *fakeProvider) SwitchChain(ctx context.Context, chainID int64) error {
	f.switchCalls = append(f.switchCalls, chainID)
	if f.switchRefused != nil {
		return f.switchRefused
	}
	if !f.known[chainID] {
		return wallet.ErrUnknownChain
	}
	f.chainID = chainID
	return nil
}

func (f *fakeProvider) AddChain(ctx context.Context, params chain.AddChainParams) error {
	f.addChainCalls++
	f.known[params.ChainID] = true
	return nil
}

func (f *fakeProvider) Notifications() <-chan wallet.Notification { return f.notify }
func (f *fakeProvider) Close()                                    { close(f.notify) }

// fakeBalances returns a fixed balance per address.
type fakeBalances map[string]*big.Int

func (f fakeBalances) Balance(ctx context.Context, address string) (*big.Int, error) {
	if b, ok := f[address]; ok {
		return b, nil
	}
	return nil, errors.New("unknown address")
}

func coreTestnet(t *testing.T) *chain.Chain {
	t.Helper()
	c, err := chain.NewRegistry().GetByName("core-testnet")
	require.NoError(t, err)
	return c
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestConnect(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), fakeBalances{"0xabc": big.NewInt(42)})
	defer m.Close()

	s, err := m.Connect(t.Context())

	require.NoError(t, err)
	assert.Equal(t, session.Connected, s.State)
	assert.Equal(t, "0xabc", s.Account)
	assert.Equal(t, int64(1115), s.ChainID)
	assert.Equal(t, big.NewInt(42), s.Balance)
	assert.True(t, m.Active())
	assert.True(t, m.WriteAllowed())
}

func TestConnectIsIdempotent(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	_, err := m.Connect(t.Context())
	require.NoError(t, err)
	s, err := m.Connect(t.Context())
	require.NoError(t, err)

	assert.Equal(t, session.Connected, s.State)
	assert.Equal(t, 1, p.requestCalls, "second connect must not re-request accounts")
}

func TestConnectNoAccounts(t *testing.T) {
	p := newFakeProvider(nil, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	_, err := m.Connect(t.Context())

	var connErr *session.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, wallet.ErrNoAccounts)
	assert.Equal(t, session.Disconnected, m.State())
}

func TestConnectRegistersUnknownChainAndRetries(t *testing.T) {
	// Wallet starts on chain 1 and has never heard of the marketplace chain.
	p := newFakeProvider([]string{"0xabc"}, 1, 1)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	s, err := m.Connect(t.Context())

	require.NoError(t, err)
	assert.Equal(t, session.Connected, s.State)
	assert.Equal(t, 1, p.addChainCalls)
	assert.Equal(t, []int64{1115, 1115}, p.switchCalls, "switch, register, then exactly one retry")
}

func TestConnectSwitchRefusedLeavesMismatch(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1, 1)
	p.switchRefused = errors.New("user rejected")
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	s, err := m.Connect(t.Context())

	require.NoError(t, err)
	assert.Equal(t, session.NetworkMismatch, s.State)
	assert.True(t, m.Active(), "reads stay available on the wrong network")
	assert.False(t, m.WriteAllowed(), "writes are blocked on the wrong network")
}

func TestSwitchNetworkFailure(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1, 1)
	p.switchRefused = errors.New("user rejected")
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	_, err := m.Connect(t.Context())
	require.NoError(t, err)

	err = m.SwitchNetwork(t.Context())

	var switchErr *session.NetworkSwitchError
	require.ErrorAs(t, err, &switchErr)
	assert.Equal(t, int64(1115), switchErr.ChainID)
	assert.Equal(t, session.NetworkMismatch, m.State())
}

func TestDisconnect(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	_, err := m.Connect(t.Context())
	require.NoError(t, err)

	m.Disconnect()

	assert.Equal(t, session.Disconnected, m.State())
	assert.Empty(t, m.Account())
	assert.False(t, m.Active())
}

func TestEmptyAccountsEventDisconnects(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	_, err := m.Connect(t.Context())
	require.NoError(t, err)

	p.notify <- wallet.Notification{Kind: wallet.AccountsChanged, Accounts: nil}

	eventually(t, func() bool { return m.State() == session.Disconnected },
		"empty account list must end in disconnected")
	assert.Empty(t, m.Account())
}

func TestAccountsChangedUpdatesAccountAndBalance(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), fakeBalances{
		"0xabc": big.NewInt(1),
		"0xdef": big.NewInt(2),
	})
	defer m.Close()

	s, err := m.Connect(t.Context())
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), s.Balance)

	p.notify <- wallet.Notification{Kind: wallet.AccountsChanged, Accounts: []string{"0xdef"}}

	eventually(t, func() bool { return m.Account() == "0xdef" }, "account should follow the wallet")
	assert.Equal(t, session.Connected, m.State())
	eventually(t, func() bool {
		b := m.Current().Balance
		return b != nil && b.Cmp(big.NewInt(2)) == 0
	}, "balance should be re-fetched for the new account")
}

func TestAccountsChangedBalanceFetchFailureLeavesNil(t *testing.T) {
	// The reader only knows the first account; the new one fetches nothing.
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), fakeBalances{"0xabc": big.NewInt(1)})
	defer m.Close()

	_, err := m.Connect(t.Context())
	require.NoError(t, err)

	p.notify <- wallet.Notification{Kind: wallet.AccountsChanged, Accounts: []string{"0xdef"}}

	eventually(t, func() bool { return m.Account() == "0xdef" }, "account should follow the wallet")
	assert.Nil(t, m.Current().Balance, "the old account's balance must not survive the change")
}

func TestChainChangedFiresResetBeforeNewChainVisible(t *testing.T) {
	p := newFakeProvider([]string{"0xabc"}, 1115, 1115)
	m := session.NewManager(p, coreTestnet(t), nil)
	defer m.Close()

	var seenAtReset []int64
	m.OnReset(func() {
		// The hook runs before the manager publishes the new chain ID.
		seenAtReset = append(seenAtReset, m.Current().ChainID)
	})

	_, err := m.Connect(t.Context())
	require.NoError(t, err)

	p.notify <- wallet.Notification{Kind: wallet.ChainChanged, ChainID: 1}

	eventually(t, func() bool { return m.State() == session.NetworkMismatch },
		"foreign chain should flip the session to mismatch")
	require.Len(t, seenAtReset, 1)
	assert.Equal(t, int64(1115), seenAtReset[0])

	// Switching back restores full access.
	p.notify <- wallet.Notification{Kind: wallet.ChainChanged, ChainID: 1115}
	eventually(t, func() bool { return m.State() == session.Connected },
		"returning to the marketplace chain should reconnect fully")
	assert.Len(t, seenAtReset, 2)
}
