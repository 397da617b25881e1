package gallery_test

import (
	"math/big"
	"testing"

	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/corecanvas/canvas-cli/internal/gallery"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artistAddr = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func TestGetProfile(t *testing.T) {
	mock, srv := newChainMock(t)
	abi := parseABI(t, contract.ArtistProfileABI)
	mock.callResults[selector(t, abi, "getProfile")] = encodeOutputs(t, abi, "getProfile",
		"ada", "generative painter", common.HexToAddress(artistAddr),
		big.NewInt(12), big.NewInt(3), true)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))
	profile, err := p.Get(t.Context(), artistAddr)

	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Name)
	assert.Equal(t, "generative painter", profile.Bio)
	assert.Equal(t, common.HexToAddress(artistAddr).Hex(), profile.Wallet)
	assert.Equal(t, uint64(12), profile.FollowerCount)
	assert.Equal(t, uint64(3), profile.FollowingCount)
	assert.True(t, profile.Verified)
}

func TestGetProfileNotFound(t *testing.T) {
	mock, srv := newChainMock(t)
	abi := parseABI(t, contract.ArtistProfileABI)
	// The contract returns a zero record for unknown addresses; the empty
	// name is what marks it as missing.
	mock.callResults[selector(t, abi, "getProfile")] = encodeOutputs(t, abi, "getProfile",
		"", "", common.Address{}, big.NewInt(0), big.NewInt(0), false)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))
	_, err := p.Get(t.Context(), artistAddr)

	assert.ErrorIs(t, err, gallery.ErrProfileNotFound)
}

func TestCreateProfileReturnsConfirmedState(t *testing.T) {
	mock, srv := newChainMock(t)
	abi := parseABI(t, contract.ArtistProfileABI)
	mock.callResults[selector(t, abi, "getProfile")] = encodeOutputs(t, abi, "getProfile",
		"ada", "generative painter", common.HexToAddress(testAddress),
		big.NewInt(0), big.NewInt(0), false)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))
	profile, hash, err := p.Create(t.Context(), "ada", "generative painter")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	require.NotNil(t, profile)
	assert.Equal(t, "ada", profile.Name)
	require.Len(t, mock.sentTxs, 1)
	assert.Equal(t, common.HexToAddress(testAddresses[contract.ArtistProfile]), *mock.sentTxs[0].To())
}

func TestCreateProfileRefreshFailureKeepsHash(t *testing.T) {
	// getProfile is not scripted: the write lands but the read-back reverts.
	mock, srv := newChainMock(t)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))
	profile, hash, err := p.Create(t.Context(), "ada", "generative painter")

	var refresh *gallery.ProfileRefreshError
	require.ErrorAs(t, err, &refresh)
	assert.Nil(t, profile)
	assert.NotEmpty(t, hash, "a confirmed transaction must keep its hash")
	assert.Equal(t, hash, refresh.TxHash)
	assert.Len(t, mock.sentTxs, 1)
}

func TestFollowAndUnfollowReturnArtistProfile(t *testing.T) {
	mock, srv := newChainMock(t)
	abi := parseABI(t, contract.ArtistProfileABI)
	mock.callResults[selector(t, abi, "getProfile")] = encodeOutputs(t, abi, "getProfile",
		"ada", "generative painter", common.HexToAddress(artistAddr),
		big.NewInt(13), big.NewInt(3), true)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))

	profile, _, err := p.Follow(t.Context(), artistAddr)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(artistAddr).Hex(), profile.Wallet)
	assert.Equal(t, uint64(13), profile.FollowerCount)

	_, _, err = p.Unfollow(t.Context(), artistAddr)
	require.NoError(t, err)

	assert.Len(t, mock.sentTxs, 2)
}

func TestIsFollowing(t *testing.T) {
	mock, srv := newChainMock(t)
	abi := parseABI(t, contract.ArtistProfileABI)
	mock.callResults[selector(t, abi, "isFollowing")] = encodeOutputs(t, abi, "isFollowing", false)

	p := gallery.NewProfileAdapter(newTestGateway(t, srv.URL))
	following, err := p.IsFollowing(t.Context(), testAddress, artistAddr)

	require.NoError(t, err)
	assert.False(t, following)
}
