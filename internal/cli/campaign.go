package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fundplan/internal/wire"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage campaigns",
	Long:  "Create, list, and inspect crowdfunding campaigns",
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new campaign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		return wire.CampaignAdapterWithOutput(cmd.OutOrStdout()).Create(NewContext(), args[0], start)
	},
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CampaignAdapterWithOutput(cmd.OutOrStdout()).List(NewContext())
	},
}

var campaignShowCmd = &cobra.Command{
	Use:   "show [campaign-id]",
	Short: "Show a campaign with its phases and totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "campaign"); err != nil {
			return err
		}
		return wire.CampaignAdapterWithOutput(cmd.OutOrStdout()).Show(NewContext(), args[0])
	},
}

func init() {
	campaignCreateCmd.Flags().String("start", "", "Campaign start date, YYYY-MM-DD (default today)")

	campaignCmd.AddCommand(campaignCreateCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignShowCmd)
}

// CampaignCmd returns the campaign command
func CampaignCmd() *cobra.Command {
	return campaignCmd
}
