package cmd

import (
	"fmt"

	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/corecanvas/canvas-cli/internal/session"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect your wallet to the marketplace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		sp := ui.NewSpinner("Connecting wallet…")
		sp.Start()
		s, err := a.manager.Connect(cmd.Context())
		sp.Stop()
		if err != nil {
			return err
		}

		if err := cfg.SaveSession(&config.StoredSession{Account: s.Account, ChainID: s.ChainID}); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Println(ui.Success("Wallet connected"))
		printSession(a, s)
		if s.State == session.NetworkMismatch {
			fmt.Println(ui.Warn(fmt.Sprintf(
				"wallet is on chain %d, not %s — reads work, writes are blocked; run `canvas network switch`",
				s.ChainID, a.chain.DisplayName)))
		}
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Drop the wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ClearSession(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Disconnected"))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wallet session and network status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if _, ok := cfg.LoadSession(); !ok {
			fmt.Println(ui.Meta("Disconnected — run `canvas connect`"))
			return nil
		}

		s, err := a.restoreSession(cmd.Context())
		if err != nil {
			return err
		}
		printSession(a, s)
		return nil
	},
}

func printSession(a *app, s session.Session) {
	fmt.Println(ui.KeyValueBlock("Session", [][2]string{
		{"State", s.State.String()},
		{"Account", s.Account},
		{"Network", fmt.Sprintf("%s (chain %d)", a.chain.DisplayName, s.ChainID)},
		{"Balance", a.formatNative(s.Balance)},
		{"Explorer", a.chain.AddressURL(s.Account)},
	}))
}
