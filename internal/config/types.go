package config

// Config holds all canvas configuration.
type Config struct {
	Network       string `json:"network"`        // chain slug, e.g. "core-testnet"
	DefaultWallet string `json:"default_wallet"` // wallet name used for signing
	ArtifactsDir  string `json:"artifacts_dir"`  // compiled contract artifacts for `canvas deploy`

	// internal: config dir path used for Save()
	configDir string
}

// Wallet represents a stored wallet entry.
type Wallet struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	KeyRef    string `json:"key_ref"` // keychain reference for the private key
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// WalletsFile is the structure of wallets.json.
type WalletsFile struct {
	Wallets []Wallet `json:"wallets"`
}

// Default returns the default wallet, or the first one if none is marked.
func (wf *WalletsFile) Default() (*Wallet, bool) {
	for i := range wf.Wallets {
		if wf.Wallets[i].IsDefault {
			return &wf.Wallets[i], true
		}
	}
	if len(wf.Wallets) > 0 {
		return &wf.Wallets[0], true
	}
	return nil, false
}

// ByName finds a wallet by name.
func (wf *WalletsFile) ByName(name string) (*Wallet, bool) {
	for i := range wf.Wallets {
		if wf.Wallets[i].Name == name {
			return &wf.Wallets[i], true
		}
	}
	return nil, false
}
