package cmd

import (
	"fmt"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 14},
			{Title: "Display", Width: 18},
			{Title: "Chain ID", Width: 10},
			{Title: "Currency", Width: 9},
			{Title: "Explorer", Width: 32},
		})
		for _, c := range reg.All() {
			t.AddRow(ui.Row{
				ui.Accent(c.Name),
				c.DisplayName,
				fmt.Sprintf("%d", c.ChainID),
				c.NativeCurrency.Symbol,
				c.Explorer,
			})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Set the marketplace network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		if _, err := reg.GetByName(args[0]); err != nil {
			return fmt.Errorf("unknown chain %q — run `canvas network list`", args[0])
		}
		cfg.Network = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network set to %s", ui.Accent(args[0]))))
		return nil
	},
}

var networkSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Move the connected wallet onto the marketplace network",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}
		if err := a.manager.SwitchNetwork(cmd.Context()); err != nil {
			return err
		}

		s := a.manager.Current()
		if err := cfg.SaveSession(&config.StoredSession{Account: s.Account, ChainID: s.ChainID}); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet now on %s", a.chain.DisplayName)))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkSwitchCmd)
}
