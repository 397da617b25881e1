package gallery

import "math/big"

// Profile is an artist profile as stored on chain.
type Profile struct {
	Name           string
	Bio            string
	Wallet         string
	FollowerCount  uint64
	FollowingCount uint64
	Verified       bool
}

// Metadata is the off-chain artwork document a token URI points at.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// Artwork combines the on-chain record of a token with its off-chain
// metadata.
type Artwork struct {
	TokenID     *big.Int
	Name        string
	Description string
	ImageURL    string
	Category    string
	Artist      string
	Owner       string
	Price       *big.Int // wei
}

// Transaction is one step in an artwork's provenance, reconstructed from the
// event logs of the artwork and marketplace contracts.
type Transaction struct {
	Event       string
	From        string
	To          string
	Price       *big.Int // nil when the event carries no amount
	BlockNumber uint64
	TxHash      string
}

// Event is a decoded marketplace event observed on chain.
type Event struct {
	Contract    string
	Name        string
	BlockNumber uint64
	TxHash      string
	Topics      []string
	Data        string
}
