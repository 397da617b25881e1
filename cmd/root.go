package cmd

import (
	"fmt"
	"os"

	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/corecanvas/canvas-cli/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "NFT art marketplace on Core, from the terminal",
	Long: `canvas — terminal client for the Core Canvas art marketplace.

  Connect a wallet, manage your artist profile, mint and list artworks,
  follow artists, trade pieces, and watch marketplace activity live —
  all against the Core Testnet.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// CANVAS_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("CANVAS_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.canvas)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		connectCmd,
		disconnectCmd,
		statusCmd,
		networkCmd,
		walletCmd,
		profileCmd,
		artworkCmd,
		marketCmd,
		browseCmd,
		eventsCmd,
		deployCmd,
		configCmd,
	)
}
