package cmd

import (
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the gallery interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}

		sp := ui.NewSpinner("Fetching artworks…")
		sp.Start()
		artworks, err := a.artworks.All(cmd.Context())
		sp.Stop()
		if err != nil {
			return err
		}

		return ui.Browse(artworks, a.chain.NativeCurrency.Symbol)
	},
}
