package cmd

import (
	"fmt"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Buy artworks and place bids",
}

var (
	marketPrice  string
	marketAmount string
)

var marketBuyCmd = &cobra.Command{
	Use:   "buy <token-id>",
	Short: "Buy a listed artwork at its price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketWrite(cmd, args[0], marketPrice, func(a *app, tokenID, wei *big.Int) (string, error) {
			return a.market.BuyNow(cmd.Context(), tokenID, wei)
		}, "Purchase confirmed")
	},
}

var marketBidCmd = &cobra.Command{
	Use:   "bid <token-id>",
	Short: "Place a bid on an artwork",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketWrite(cmd, args[0], marketAmount, func(a *app, tokenID, wei *big.Int) (string, error) {
			return a.market.PlaceBid(cmd.Context(), tokenID, wei)
		}, "Bid placed")
	},
}

var marketListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show artworks currently for sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}

		sp := ui.NewSpinner("Fetching listings…")
		sp.Start()
		artworks, err := a.artworks.All(cmd.Context())
		sp.Stop()
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 5},
			{Title: "Title", Width: 24},
			{Title: "Artist", Width: 13},
			{Title: "Price", Width: 24},
		})
		listed := 0
		for _, art := range artworks {
			if art.Price == nil || art.Price.Sign() == 0 {
				continue
			}
			listed++
			t.AddRow(ui.Row{
				art.TokenID.String(),
				art.Name,
				ui.TruncateAddr(art.Artist),
				a.formatNative(art.Price),
			})
		}
		if listed == 0 {
			fmt.Println(ui.Meta("Nothing for sale right now"))
			return nil
		}
		fmt.Println(t.Render())
		return nil
	},
}

func runMarketWrite(cmd *cobra.Command, tokenArg, amountArg string, fn func(*app, *big.Int, *big.Int) (string, error), success string) error {
	tokenID, ok := new(big.Int).SetString(tokenArg, 10)
	if !ok {
		return fmt.Errorf("invalid token id %q", tokenArg)
	}
	wei, err := chain.ParseAmount(amountArg)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	if _, err := a.restoreSession(cmd.Context()); err != nil {
		return err
	}

	sp := ui.NewSpinner("Waiting for transaction…")
	sp.Start()
	hash, err := fn(a, tokenID, wei)
	sp.Stop()
	if err != nil {
		return err
	}

	fmt.Println(ui.Success(success))
	fmt.Println(ui.Meta("  tx: ") + ui.Addr(a.chain.TxURL(hash)))
	return nil
}

func init() {
	marketBuyCmd.Flags().StringVar(&marketPrice, "price", "", "listed price in native currency (sent as payment)")
	marketBuyCmd.MarkFlagRequired("price") //nolint:errcheck
	marketBidCmd.Flags().StringVar(&marketAmount, "amount", "", "bid amount in native currency")
	marketBidCmd.MarkFlagRequired("amount") //nolint:errcheck
	marketCmd.AddCommand(marketBuyCmd, marketBidCmd, marketListCmd)
}
