package cmd

import (
	"fmt"
	"time"

	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/corecanvas/canvas-cli/internal/wallet"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing wallets",
}

var walletImportKey string

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a wallet from a hex private key",
	Long: `Import a wallet from a hex private key. The key is stored in the OS
keychain; only a reference to it lands in wallets.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if walletImportKey == "" {
			return fmt.Errorf("provide the key with --key")
		}

		wf, err := cfg.LoadWallets()
		if err != nil {
			return err
		}
		if _, exists := wf.ByName(name); exists {
			return fmt.Errorf("wallet %q already exists", name)
		}

		address, err := wallet.AddressFromKey(walletImportKey)
		if err != nil {
			return err
		}

		ref, err := wallet.DefaultKeystore().Store(name, walletImportKey)
		if err != nil {
			return fmt.Errorf("storing key: %w", err)
		}

		wf.Wallets = append(wf.Wallets, config.Wallet{
			Name:      name,
			Address:   address,
			KeyRef:    ref,
			IsDefault: len(wf.Wallets) == 0,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err := cfg.SaveWallets(wf); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Imported %s (%s)", name, ui.Addr(address))))
		return nil
	},
}

var walletCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Generate a new wallet",
	Long: `Generate a fresh private key and store it in the OS keychain. Fund the
printed address from a faucet before deploying or writing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		wf, err := cfg.LoadWallets()
		if err != nil {
			return err
		}
		if _, exists := wf.ByName(name); exists {
			return fmt.Errorf("wallet %q already exists", name)
		}

		hexKey, address, err := wallet.GenerateKey()
		if err != nil {
			return err
		}
		ref, err := wallet.DefaultKeystore().Store(name, hexKey)
		if err != nil {
			return fmt.Errorf("storing key: %w", err)
		}

		wf.Wallets = append(wf.Wallets, config.Wallet{
			Name:      name,
			Address:   address,
			KeyRef:    ref,
			IsDefault: len(wf.Wallets) == 0,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err := cfg.SaveWallets(wf); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created %s (%s)", name, ui.Addr(address))))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wf, err := cfg.LoadWallets()
		if err != nil {
			return err
		}
		if len(wf.Wallets) == 0 {
			fmt.Println(ui.Meta("No wallets — run `canvas wallet import`"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 14},
			{Title: "Address", Width: 44},
			{Title: "Default", Width: 8},
		})
		for _, w := range wf.Wallets {
			def := ""
			if w.IsDefault {
				def = "✓"
			}
			t.AddRow(ui.Row{w.Name, ui.Addr(w.Address), def})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default signing wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wf, err := cfg.LoadWallets()
		if err != nil {
			return err
		}
		if _, ok := wf.ByName(args[0]); !ok {
			return fmt.Errorf("wallet %q not found", args[0])
		}
		for i := range wf.Wallets {
			wf.Wallets[i].IsDefault = wf.Wallets[i].Name == args[0]
		}
		if err := cfg.SaveWallets(wf); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %s", args[0])))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wf, err := cfg.LoadWallets()
		if err != nil {
			return err
		}
		w, ok := wf.ByName(args[0])
		if !ok {
			return fmt.Errorf("wallet %q not found", args[0])
		}

		if err := wallet.DefaultKeystore().Delete(w.KeyRef); err != nil {
			fmt.Println(ui.Warn("could not remove key from keychain: " + err.Error()))
		}

		kept := wf.Wallets[:0]
		for _, other := range wf.Wallets {
			if other.Name != args[0] {
				kept = append(kept, other)
			}
		}
		wf.Wallets = kept
		if err := cfg.SaveWallets(wf); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed %s", args[0])))
		return nil
	},
}

func init() {
	walletImportCmd.Flags().StringVar(&walletImportKey, "key", "", "hex private key (0x-prefixed or bare)")
	walletCmd.AddCommand(walletCreateCmd, walletImportCmd, walletListCmd, walletUseCmd, walletRemoveCmd)
}
