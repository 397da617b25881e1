package gallery

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

// ArtworkAdapter exposes the artwork NFT contract and assembles full artwork
// records from chain state, off-chain metadata and event logs.
type ArtworkAdapter struct {
	gw       Gateway
	meta     *MetadataClient
	source   LogSource
	resolver BindingResolver
}

// NewArtworkAdapter creates an artwork adapter.
func NewArtworkAdapter(gw Gateway, meta *MetadataClient, source LogSource, resolver BindingResolver) *ArtworkAdapter {
	return &ArtworkAdapter{gw: gw, meta: meta, source: source, resolver: resolver}
}

// Create mints a token for tokenURI and lists it on the marketplace at price
// (wei). Minting and listing are two separate transactions; when the mint
// lands but the listing fails, the minted token ID is returned together with
// ListingAfterMintFailed so the caller can retry just the listing.
func (a *ArtworkAdapter) Create(ctx context.Context, tokenURI string, price *big.Int) (*big.Int, error) {
	if _, err := a.gw.Write(ctx, contract.Artwork, "createToken", nil, tokenURI); err != nil {
		return nil, err
	}

	var tokenID *big.Int
	if err := a.gw.Read(ctx, contract.Artwork, "getLatestTokenId", &tokenID); err != nil {
		return nil, err
	}

	if err := a.ListForSale(ctx, tokenID, price); err != nil {
		return tokenID, &ListingAfterMintFailed{TokenID: tokenID, Cause: err}
	}
	return tokenID, nil
}

// ListForSale lists an existing token on the marketplace. It is also the
// retry path after a partial Create.
func (a *ArtworkAdapter) ListForSale(ctx context.Context, tokenID, price *big.Int) error {
	_, err := a.gw.Write(ctx, contract.Marketplace, "listArtwork", nil, tokenID, price)
	return err
}

// Get assembles a full artwork record: on-chain ownership and price, then the
// token URI, then the off-chain metadata document. Failures carry the stage
// that broke.
func (a *ArtworkAdapter) Get(ctx context.Context, tokenID *big.Int) (*Artwork, error) {
	var rec struct {
		Artist common.Address
		Owner  common.Address
		Price  *big.Int
	}
	if err := a.gw.Read(ctx, contract.Artwork, "getArtwork", &rec, tokenID); err != nil {
		return nil, &ArtworkFetchError{TokenID: tokenID, Stage: StageChain, Cause: err}
	}

	var uri string
	if err := a.gw.Read(ctx, contract.Artwork, "tokenURI", &uri, tokenID); err != nil {
		return nil, &ArtworkFetchError{TokenID: tokenID, Stage: StageTokenURI, Cause: err}
	}

	md, err := a.meta.Fetch(ctx, uri)
	if err != nil {
		return nil, &ArtworkFetchError{TokenID: tokenID, Stage: StageMetadata, Cause: err}
	}

	return &Artwork{
		TokenID:     tokenID,
		Name:        md.Name,
		Description: md.Description,
		ImageURL:    md.Image,
		Category:    md.Category,
		Artist:      rec.Artist.Hex(),
		Owner:       rec.Owner.Hex(),
		Price:       rec.Price,
	}, nil
}

// History reconstructs a token's provenance from event logs: mint, transfers,
// listings, sales and bids, in block order. Both the artwork and marketplace
// contracts index the token ID as their second topic, which keeps the log
// queries narrow.
func (a *ArtworkAdapter) History(ctx context.Context, tokenID *big.Int) ([]Transaction, error) {
	tokenTopic := common.BigToHash(tokenID).Hex()

	var history []Transaction
	for _, name := range []string{contract.Artwork, contract.Marketplace} {
		b, err := a.resolver.Resolve(name)
		if err != nil {
			return nil, err
		}
		logs, err := a.source.Logs(ctx, chain.LogQuery{
			Address:   b.Address.Hex(),
			Topics:    []string{"", tokenTopic},
			FromBlock: "earliest",
			ToBlock:   "latest",
		})
		if err != nil {
			return nil, fmt.Errorf("reading %s logs: %w", name, err)
		}
		for _, entry := range logs {
			if tx, ok := decodeTransaction(b, entry); ok {
				history = append(history, tx)
			}
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].BlockNumber < history[j].BlockNumber
	})
	return history, nil
}

// decodeTransaction maps one raw log onto the provenance view. Logs whose
// first topic matches no known event are skipped.
func decodeTransaction(b *contract.Binding, entry chain.LogEntry) (Transaction, bool) {
	if len(entry.Topics) == 0 {
		return Transaction{}, false
	}
	ev, err := b.ABI.EventByID(common.HexToHash(entry.Topics[0]))
	if err != nil {
		return Transaction{}, false
	}

	tx := Transaction{Event: ev.Name, TxHash: entry.TxHash}
	if bn, ok := chain.ParseHexUint(entry.BlockNumber); ok {
		tx.BlockNumber = bn
	}

	switch ev.Name {
	case "ArtworkCreated":
		tx.To = topicAddress(entry.Topics, 2)
	case "ArtworkTransferred":
		tx.From = topicAddress(entry.Topics, 2)
		tx.To = topicAddress(entry.Topics, 3)
	case "ArtworkListed":
		tx.From = topicAddress(entry.Topics, 2)
		tx.Price = dataAmount(entry.Data)
	case "ArtworkSold":
		tx.From = topicAddress(entry.Topics, 2)
		tx.To = topicAddress(entry.Topics, 3)
		tx.Price = dataAmount(entry.Data)
	case "BidPlaced":
		tx.From = topicAddress(entry.Topics, 2)
		tx.Price = dataAmount(entry.Data)
	default:
		return Transaction{}, false
	}
	return tx, true
}

// topicAddress decodes an indexed address out of a 32-byte topic.
func topicAddress(topics []string, i int) string {
	if i >= len(topics) {
		return ""
	}
	return common.HexToAddress(topics[i]).Hex()
}

// dataAmount reads a single uint256 word of event data.
func dataAmount(data string) *big.Int {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(data, "0x"), 16)
	if !ok {
		return nil
	}
	return v
}

// All returns every minted artwork in token order (IDs start at 1).
func (a *ArtworkAdapter) All(ctx context.Context) ([]*Artwork, error) {
	var supply *big.Int
	if err := a.gw.Read(ctx, contract.Artwork, "totalSupply", &supply); err != nil {
		return nil, err
	}

	n := supply.Int64()
	artworks := make([]*Artwork, 0, n)
	for i := int64(1); i <= n; i++ {
		art, err := a.Get(ctx, big.NewInt(i))
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, art)
	}
	return artworks, nil
}

// ByArtist returns the artworks minted by one artist.
func (a *ArtworkAdapter) ByArtist(ctx context.Context, artist string) ([]*Artwork, error) {
	var tokenIDs []*big.Int
	if err := a.gw.Read(ctx, contract.Artwork, "getArtistArtworks", &tokenIDs, common.HexToAddress(artist)); err != nil {
		return nil, err
	}

	artworks := make([]*Artwork, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		art, err := a.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, art)
	}
	return artworks, nil
}
