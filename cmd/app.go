package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/corecanvas/canvas-cli/internal/gallery"
	"github.com/corecanvas/canvas-cli/internal/rpc"
	"github.com/corecanvas/canvas-cli/internal/session"
	"github.com/corecanvas/canvas-cli/internal/wallet"
)

// app wires the full stack for one command invocation: RPC client, wallet
// provider, session manager, contract gateway, and the marketplace adapters.
type app struct {
	chain    *chain.Chain
	client   *chain.EVMClient
	provider *wallet.LocalProvider
	manager  *session.Manager
	gateway  *contract.Gateway
	signer   *wallet.Signer

	profiles *gallery.ProfileAdapter
	artworks *gallery.ArtworkAdapter
	market   *gallery.MarketAdapter
}

// newApp builds the stack from config. The wallet provider starts on the
// chain recorded in the stored session, if any, so a session survives across
// invocations.
func newApp(ctx context.Context) (*app, error) {
	reg := chain.NewRegistry()
	ch, err := reg.GetByName(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q in config", cfg.Network)
	}

	url, err := rpc.SelectBest(ctx, ch.RPCs)
	if err != nil {
		return nil, fmt.Errorf("selecting RPC for %s: %w", ch.Name, err)
	}
	client := chain.NewEVMClient(url)

	var accounts []string
	var signer *wallet.Signer
	wallets, err := cfg.LoadWallets()
	if err != nil {
		return nil, fmt.Errorf("loading wallets: %w", err)
	}
	if w, ok := activeWallet(wallets); ok {
		accounts = []string{w.Address}
		signer = wallet.NewSigner(w.Address, w.KeyRef, wallet.DefaultKeystore())
	}

	// The provider is assumed to know every chain in the registry; anything
	// else goes through the register-and-retry handshake.
	known := make([]chain.AddChainParams, 0, len(reg.All()))
	for _, c := range reg.All() {
		known = append(known, c.Params())
	}

	startChain := ch.ChainID
	if stored, ok := cfg.LoadSession(); ok {
		startChain = stored.ChainID
	}
	provider := wallet.NewLocalProvider(accounts, startChain, known)
	manager := session.NewManager(provider, ch, client)

	cp, err := cfg.LoadCheckpoint()
	if err != nil {
		return nil, fmt.Errorf("loading contract addresses: %w", err)
	}
	var txSigner contract.TxSigner
	if signer != nil {
		txSigner = signer
	}
	gateway, err := contract.NewGateway(client, manager, txSigner, ch.ChainID, cp.Addresses)
	if err != nil {
		return nil, err
	}
	manager.OnReset(gateway.InvalidateAll)

	return &app{
		chain:    ch,
		client:   client,
		provider: provider,
		manager:  manager,
		gateway:  gateway,
		signer:   signer,
		profiles: gallery.NewProfileAdapter(gateway),
		artworks: gallery.NewArtworkAdapter(gateway, gallery.NewMetadataClient(), client, gateway),
		market:   gallery.NewMarketAdapter(gateway),
	}, nil
}

// restoreSession re-establishes the wallet session stored by `canvas connect`.
func (a *app) restoreSession(ctx context.Context) (session.Session, error) {
	if _, ok := cfg.LoadSession(); !ok {
		return session.Session{}, fmt.Errorf("no wallet session; run `canvas connect` first")
	}
	return a.manager.Connect(ctx)
}

func (a *app) close() {
	a.manager.Close()
	a.provider.Close()
}

// activeWallet picks the configured default wallet, or falls back to the
// first stored wallet.
func activeWallet(wf *config.WalletsFile) (*config.Wallet, bool) {
	if cfg.DefaultWallet != "" {
		if w, ok := wf.ByName(cfg.DefaultWallet); ok {
			return w, true
		}
	}
	return wf.Default()
}

// formatNative renders a wei amount with the chain's currency symbol.
func (a *app) formatNative(wei *big.Int) string {
	if wei == nil {
		return "unknown"
	}
	return chain.FormatWei(wei) + " " + a.chain.NativeCurrency.Symbol
}
