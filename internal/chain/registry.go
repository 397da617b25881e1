package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Currency describes a chain's native currency.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Chain holds metadata for a single chain.
type Chain struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency Currency `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
}

// AddChainParams is the payload used to register a chain with a wallet that
// does not know it yet (the wallet_addEthereumChain shape).
type AddChainParams struct {
	ChainID  int64
	Name     string
	Currency Currency
	RPCs     []string
	Explorer string
}

// Params returns the registration payload for a chain.
func (c *Chain) Params() AddChainParams {
	return AddChainParams{
		ChainID:  c.ChainID,
		Name:     c.DisplayName,
		Currency: c.NativeCurrency,
		RPCs:     c.RPCs,
		Explorer: c.Explorer,
	}
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates the registry of all chains the marketplace can run on.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "core-testnet").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "core-testnet", DisplayName: "Core Testnet", ChainID: 1115,
			NativeCurrency: Currency{Name: "Core", Symbol: "tCORE", Decimals: 18},
			RPCs:           []string{"https://rpc.test.btcs.network"},
			Explorer:       "https://scan.test.btcs.network",
		},
		{
			Name: "core", DisplayName: "Core", ChainID: 1116,
			NativeCurrency: Currency{Name: "Core", Symbol: "CORE", Decimals: 18},
			RPCs:           []string{"https://rpc.coredao.org", "https://rpc.ankr.com/core"},
			Explorer:       "https://scan.coredao.org",
		},
		{
			Name: "sepolia", DisplayName: "Ethereum Sepolia", ChainID: 11155111,
			NativeCurrency: Currency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			RPCs:           []string{"https://rpc.sepolia.org", "https://sepolia.gateway.tenderly.co"},
			Explorer:       "https://sepolia.etherscan.io",
		},
	}
}
