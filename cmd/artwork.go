package cmd

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/gallery"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var artworkCmd = &cobra.Command{
	Use:   "artwork",
	Short: "Mint, list and inspect artworks",
}

var (
	artworkURI    string
	artworkPrice  string
	artworkArtist string
	artworkMine   bool
)

var artworkCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Mint an artwork and list it for sale",
	Long: `Mint an artwork NFT for a metadata URI and list it on the marketplace.

Minting and listing are two transactions. If the mint lands but the listing
fails, the token ID is printed; relist it with ` + "`canvas artwork relist`" + `.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := chain.ParseAmount(artworkPrice)
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

		sp := ui.NewSpinner("Minting and listing…")
		sp.Start()
		tokenID, err := a.artworks.Create(cmd.Context(), artworkURI, price)
		sp.Stop()

		var partial *gallery.ListingAfterMintFailed
		if errors.As(err, &partial) {
			fmt.Println(ui.Warn(fmt.Sprintf(
				"minted token %s but the listing failed: %v", partial.TokenID, partial.Cause)))
			fmt.Println(ui.Meta(fmt.Sprintf(
				"  retry with: canvas artwork relist %s --price %s", partial.TokenID, artworkPrice)))
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Artwork %s minted and listed for %s %s",
			tokenID, artworkPrice, a.chain.NativeCurrency.Symbol)))
		return nil
	},
}

var artworkRelistCmd = &cobra.Command{
	Use:   "relist <token-id>",
	Short: "List an already minted artwork for sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenID, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid token id %q", args[0])
		}
		price, err := chain.ParseAmount(artworkPrice)
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

		if err := a.artworks.ListForSale(cmd.Context(), tokenID, price); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Artwork %s listed for %s %s",
			tokenID, artworkPrice, a.chain.NativeCurrency.Symbol)))
		return nil
	},
}

var artworkShowCmd = &cobra.Command{
	Use:   "show <token-id>",
	Short: "Show one artwork",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenID, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid token id %q", args[0])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}

		art, err := a.artworks.Get(cmd.Context(), tokenID)
		if err != nil {
			return err
		}
		printArtwork(a, art)

		history, err := a.artworks.History(cmd.Context(), tokenID)
		if err != nil {
			return err
		}
		printHistory(a, history)
		return nil
	},
}

var artworkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artworks (all, one artist's with --artist, or your own with --mine)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		s, err := a.restoreSession(cmd.Context())
		if err != nil {
			return err
		}

		artist := artworkArtist
		if artworkMine {
			artist = s.Account
		}

		sp := ui.NewSpinner("Fetching artworks…")
		sp.Start()
		var artworks []*gallery.Artwork
		if artist != "" {
			artworks, err = a.artworks.ByArtist(cmd.Context(), artist)
		} else {
			artworks, err = a.artworks.All(cmd.Context())
		}
		sp.Stop()
		if err != nil {
			return err
		}

		if len(artworks) == 0 {
			fmt.Println(ui.Meta("No artworks yet"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 5},
			{Title: "Title", Width: 24},
			{Title: "Artist", Width: 13},
			{Title: "Owner", Width: 13},
			{Title: "Price", Width: 24},
		})
		for _, art := range artworks {
			t.AddRow(ui.Row{
				art.TokenID.String(),
				art.Name,
				ui.TruncateAddr(art.Artist),
				ui.TruncateAddr(art.Owner),
				a.formatNative(art.Price),
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func printArtwork(a *app, art *gallery.Artwork) {
	pairs := [][2]string{
		{"Token", art.TokenID.String()},
		{"Description", art.Description},
		{"Image", art.ImageURL},
	}
	if art.Category != "" {
		pairs = append(pairs, [2]string{"Category", art.Category})
	}
	pairs = append(pairs,
		[2]string{"Artist", art.Artist},
		[2]string{"Owner", art.Owner},
		[2]string{"Price", a.formatNative(art.Price)},
	)
	fmt.Println(ui.KeyValueBlock(art.Name, pairs))
}

func printHistory(a *app, history []gallery.Transaction) {
	if len(history) == 0 {
		fmt.Println(ui.Meta("No recorded history"))
		return
	}

	fmt.Println(ui.Accent("History"))
	t := ui.NewTable([]ui.Column{
		{Title: "Block", Width: 9},
		{Title: "Event", Width: 18},
		{Title: "From", Width: 13},
		{Title: "To", Width: 13},
		{Title: "Price", Width: 24},
	})
	for _, tx := range history {
		price := ""
		if tx.Price != nil {
			price = a.formatNative(tx.Price)
		}
		t.AddRow(ui.Row{
			fmt.Sprintf("%d", tx.BlockNumber),
			tx.Event,
			ui.TruncateAddr(tx.From),
			ui.TruncateAddr(tx.To),
			price,
		})
	}
	fmt.Println(t.Render())
}

func init() {
	artworkCreateCmd.Flags().StringVar(&artworkURI, "uri", "", "metadata URI (JSON with name/description/image)")
	artworkCreateCmd.Flags().StringVar(&artworkPrice, "price", "", "listing price in native currency")
	artworkCreateCmd.MarkFlagRequired("uri")   //nolint:errcheck
	artworkCreateCmd.MarkFlagRequired("price") //nolint:errcheck
	artworkRelistCmd.Flags().StringVar(&artworkPrice, "price", "", "listing price in native currency")
	artworkRelistCmd.MarkFlagRequired("price") //nolint:errcheck
	artworkListCmd.Flags().StringVar(&artworkArtist, "artist", "", "only artworks minted by this address")
	artworkListCmd.Flags().BoolVar(&artworkMine, "mine", false, "only your own artworks")

	artworkCmd.AddCommand(artworkCreateCmd, artworkRelistCmd, artworkShowCmd, artworkListCmd)
}
