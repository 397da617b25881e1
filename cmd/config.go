package cmd

import (
	"fmt"

	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, err := cfg.LoadCheckpoint()
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Config dir", cfg.Dir()},
			{"Network", cfg.Network},
			{"Default wallet", cfg.DefaultWallet},
			{"Artifacts dir", cfg.ArtifactsDir},
		}
		for _, name := range cp.Names() {
			pairs = append(pairs, [2]string{name, cp.Address(name)})
		}
		fmt.Println(ui.KeyValueBlock("canvas", pairs))
		return nil
	},
}
