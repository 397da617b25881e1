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

func TestBuyAttachesPriceAsValue(t *testing.T) {
	mock, srv := newChainMock(t)

	m := gallery.NewMarketAdapter(newTestGateway(t, srv.URL))
	price := big.NewInt(2_500_000)
	hash, err := m.Buy(t.Context(), big.NewInt(4), price)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	require.Len(t, mock.sentTxs, 1)
	tx := mock.sentTxs[0]
	assert.Equal(t, common.HexToAddress(testAddresses[contract.Marketplace]), *tx.To())
	assert.Equal(t, price, tx.Value(), "the listed price must ride along as payment")
}

func TestPlaceBidAttachesAmount(t *testing.T) {
	mock, srv := newChainMock(t)

	m := gallery.NewMarketAdapter(newTestGateway(t, srv.URL))
	_, err := m.PlaceBid(t.Context(), big.NewInt(4), big.NewInt(900))

	require.NoError(t, err)
	require.Len(t, mock.sentTxs, 1)
	assert.Equal(t, big.NewInt(900), mock.sentTxs[0].Value())
}

func TestBuyNowDelegatesToBuy(t *testing.T) {
	mock, srv := newChainMock(t)

	m := gallery.NewMarketAdapter(newTestGateway(t, srv.URL))
	_, err := m.BuyNow(t.Context(), big.NewInt(4), big.NewInt(777))

	require.NoError(t, err)
	require.Len(t, mock.sentTxs, 1)
	assert.Equal(t, big.NewInt(777), mock.sentTxs[0].Value())
}
