package cmd

import (
	"fmt"

	"github.com/corecanvas/canvas-cli/internal/deploy"
	"github.com/corecanvas/canvas-cli/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deployArtifactsDir string
	deployFeeBps       int64
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the marketplace contracts",
	Long: `Deploy the profile, artwork and marketplace contracts in order.

Every successful deployment is checkpointed in deployed-contracts.json, so an
interrupted run resumes where it stopped and already deployed contracts are
never redeployed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployArtifactsDir == "" {
			deployArtifactsDir = cfg.ArtifactsDir
		}
		if deployArtifactsDir == "" {
			return fmt.Errorf("no artifacts directory; pass --artifacts or set artifacts_dir in config")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if _, err := a.restoreSession(cmd.Context()); err != nil {
			return err
		}
		if a.signer == nil {
			return fmt.Errorf("deploying needs a signing wallet; run `canvas wallet import`")
		}

		cp, err := cfg.LoadCheckpoint()
		if err != nil {
			return err
		}

		orch := deploy.NewOrchestrator(a.client, a.signer, a.chain.ChainID, cp)
		steps := deploy.MarketplaceSteps(deployArtifactsDir, deployFeeBps)

		sp := ui.NewSpinner("Deploying contracts…")
		sp.Start()
		results, runErr := orch.Run(cmd.Context(), steps)
		sp.Stop()

		t := ui.NewTable([]ui.Column{
			{Title: "Contract", Width: 14},
			{Title: "Address", Width: 44},
			{Title: "Status", Width: 10},
		})
		for _, r := range results {
			status := "deployed"
			if r.Skipped {
				status = "skipped"
			}
			t.AddRow(ui.Row{r.Name, ui.Addr(r.Address), status})
		}
		fmt.Println(t.Render())

		if runErr != nil {
			return runErr
		}
		fmt.Println(ui.Success("All contracts deployed"))
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployArtifactsDir, "artifacts", "", "directory with compiled contract artifacts")
	deployCmd.Flags().Int64Var(&deployFeeBps, "fee", 500, "marketplace platform fee in basis points")
}
