package gallery

import (
	"context"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

// ProfileAdapter exposes the artist profile contract.
type ProfileAdapter struct {
	gw Gateway
}

// NewProfileAdapter creates a profile adapter.
func NewProfileAdapter(gw Gateway) *ProfileAdapter {
	return &ProfileAdapter{gw: gw}
}

// Get fetches the profile of an artist address. An address that never
// created a profile comes back from the contract as an all-zero record, which
// is detected by its empty name and mapped to ErrProfileNotFound.
func (p *ProfileAdapter) Get(ctx context.Context, artist string) (*Profile, error) {
	var out struct {
		Name           string
		Bio            string
		Wallet         common.Address
		FollowerCount  *big.Int
		FollowingCount *big.Int
		IsVerified     bool
	}
	if err := p.gw.Read(ctx, contract.ArtistProfile, "getProfile", &out, common.HexToAddress(artist)); err != nil {
		return nil, err
	}

	if out.Name == "" {
		return nil, ErrProfileNotFound
	}

	return &Profile{
		Name:           out.Name,
		Bio:            out.Bio,
		Wallet:         out.Wallet.Hex(),
		FollowerCount:  out.FollowerCount.Uint64(),
		FollowingCount: out.FollowingCount.Uint64(),
		Verified:       out.IsVerified,
	}, nil
}

// Create registers a new artist profile, then reads it back so callers see
// the confirmed on-chain state. The transaction hash is returned in every
// post-write outcome; a failed read-back surfaces as ProfileRefreshError.
func (p *ProfileAdapter) Create(ctx context.Context, name, bio string) (*Profile, string, error) {
	receipt, err := p.gw.Write(ctx, contract.ArtistProfile, "createProfile", nil, name, bio)
	if err != nil {
		return nil, "", err
	}
	return p.refetch(ctx, p.gw.Account(), receipt.Hash)
}

// Update rewrites the caller's profile and reads the result back.
func (p *ProfileAdapter) Update(ctx context.Context, name, bio string) (*Profile, string, error) {
	receipt, err := p.gw.Write(ctx, contract.ArtistProfile, "updateProfile", nil, name, bio)
	if err != nil {
		return nil, "", err
	}
	return p.refetch(ctx, p.gw.Account(), receipt.Hash)
}

// Follow makes the caller follow an artist and returns the artist's profile
// with its updated follower count.
func (p *ProfileAdapter) Follow(ctx context.Context, artist string) (*Profile, string, error) {
	receipt, err := p.gw.Write(ctx, contract.ArtistProfile, "followArtist", nil, common.HexToAddress(artist))
	if err != nil {
		return nil, "", err
	}
	return p.refetch(ctx, artist, receipt.Hash)
}

// Unfollow makes the caller unfollow an artist and returns the artist's
// profile with its updated follower count.
func (p *ProfileAdapter) Unfollow(ctx context.Context, artist string) (*Profile, string, error) {
	receipt, err := p.gw.Write(ctx, contract.ArtistProfile, "unfollowArtist", nil, common.HexToAddress(artist))
	if err != nil {
		return nil, "", err
	}
	return p.refetch(ctx, artist, receipt.Hash)
}

// refetch reads a profile back after a confirmed write.
func (p *ProfileAdapter) refetch(ctx context.Context, address, hash string) (*Profile, string, error) {
	profile, err := p.Get(ctx, address)
	if err != nil {
		return nil, hash, &ProfileRefreshError{TxHash: hash, Cause: err}
	}
	return profile, hash, nil
}

// IsFollowing reports whether follower follows artist.
func (p *ProfileAdapter) IsFollowing(ctx context.Context, follower, artist string) (bool, error) {
	var following bool
	err := p.gw.Read(ctx, contract.ArtistProfile, "isFollowing", &following,
		common.HexToAddress(follower), common.HexToAddress(artist))
	if err != nil {
		return false, err
	}
	return following, nil
}
