package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fundplan/internal/adapters/planfile"
	"github.com/example/fundplan/internal/wire"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Apply batches of phase changes from a file",
	Long: `Apply a YAML plan file of add, edit, and delete operations to a campaign.
All operations run in one draft and are saved with a single commit.`,
}

var planApplyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply a plan file to a campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := campaignFlag(cmd)
		if err != nil {
			return err
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		plan, err := planfile.ReadFile(args[0])
		if err != nil {
			return err
		}
		return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).Apply(NewContext(), campaignID, plan, dryRun)
	},
}

func init() {
	addCampaignFlag(planApplyCmd)
	planApplyCmd.Flags().Bool("dry-run", false, "Validate and show the result without saving")

	planCmd.AddCommand(planApplyCmd)
}

// PlanCmd returns the plan command
func PlanCmd() *cobra.Command {
	return planCmd
}
