package gallery

import (
	"context"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/contract"
)

// MarketAdapter exposes the marketplace contract's trading operations.
type MarketAdapter struct {
	gw Gateway
}

// NewMarketAdapter creates a market adapter.
func NewMarketAdapter(gw Gateway) *MarketAdapter {
	return &MarketAdapter{gw: gw}
}

// Buy purchases a listed artwork, attaching price (wei) as payment.
func (m *MarketAdapter) Buy(ctx context.Context, tokenID, price *big.Int) (string, error) {
	receipt, err := m.gw.Write(ctx, contract.Marketplace, "buyArtwork", price, tokenID)
	if err != nil {
		return "", err
	}
	return receipt.Hash, nil
}

// PlaceBid bids amount (wei) on an artwork.
func (m *MarketAdapter) PlaceBid(ctx context.Context, tokenID, amount *big.Int) (string, error) {
	receipt, err := m.gw.Write(ctx, contract.Marketplace, "placeBid", amount, tokenID)
	if err != nil {
		return "", err
	}
	return receipt.Hash, nil
}

// BuyNow buys an artwork at its listed price. It is the direct-purchase path
// of Buy under the name the marketplace UI uses.
func (m *MarketAdapter) BuyNow(ctx context.Context, tokenID, price *big.Int) (string, error) {
	return m.Buy(ctx, tokenID, price)
}
