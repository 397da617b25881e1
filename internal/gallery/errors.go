package gallery

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrProfileNotFound is returned when an address has no artist profile.
var ErrProfileNotFound = errors.New("artist profile not found")

// Stages of an artwork fetch, used in ArtworkFetchError.
const (
	StageChain    = "chain"    // reading the on-chain record
	StageTokenURI = "tokenURI" // resolving the token URI
	StageMetadata = "metadata" // fetching/decoding the off-chain document
)

// ArtworkFetchError reports which stage of assembling an artwork failed.
type ArtworkFetchError struct {
	TokenID *big.Int
	Stage   string
	Cause   error
}

func (e *ArtworkFetchError) Error() string {
	return fmt.Sprintf("fetching artwork %s (%s): %v", e.TokenID, e.Stage, e.Cause)
}

func (e *ArtworkFetchError) Unwrap() error { return e.Cause }

// ListingAfterMintFailed reports that a token was minted but the follow-up
// marketplace listing failed. The token exists and is owned by the caller;
// only the listing needs to be retried.
type ListingAfterMintFailed struct {
	TokenID *big.Int
	Cause   error
}

func (e *ListingAfterMintFailed) Error() string {
	return fmt.Sprintf("artwork %s minted but listing failed: %v", e.TokenID, e.Cause)
}

func (e *ListingAfterMintFailed) Unwrap() error { return e.Cause }

// ProfileRefreshError reports a profile write whose transaction landed but
// whose follow-up read failed. TxHash identifies the confirmed transaction.
type ProfileRefreshError struct {
	TxHash string
	Cause  error
}

func (e *ProfileRefreshError) Error() string {
	return fmt.Sprintf("profile updated in tx %s but reading it back failed: %v", e.TxHash, e.Cause)
}

func (e *ProfileRefreshError) Unwrap() error { return e.Cause }
