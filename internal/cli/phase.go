package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/wire"
)

// PhaseCmd returns the phase command
func PhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage funding phases",
		Long: `Add, edit, delete, and list the funding phases of a campaign.
Phases may be referenced by ID (PHASE-001) or by number (#2).`,
	}

	cmd.AddCommand(phaseListCmd())
	cmd.AddCommand(phaseAddCmd())
	cmd.AddCommand(phaseEditCmd())
	cmd.AddCommand(phaseDeleteCmd())
	cmd.AddCommand(phaseHistoryCmd())

	return cmd
}

func phaseListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a campaign's phases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := campaignFlag(cmd)
			if err != nil {
				return err
			}
			return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), campaignID)
		},
	}
	addCampaignFlag(cmd)
	return cmd
}

func phaseAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a phase to a campaign",
		Long:  "Append a phase. Without --start it begins the day after the last phase ends.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := campaignFlag(cmd)
			if err != nil {
				return err
			}
			input, err := phaseInput(cmd.Flags())
			if err != nil {
				return err
			}
			return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).Add(NewContext(), campaignID, input)
		},
	}
	addCampaignFlag(cmd)
	addPhaseFieldFlags(cmd)
	return cmd
}

func phaseEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [phase-ref]",
		Short: "Change the start date, duration, or goal of a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := campaignFlag(cmd)
			if err != nil {
				return err
			}
			if err := validatePhaseRef(args[0]); err != nil {
				return err
			}
			input, err := phaseInput(cmd.Flags())
			if err != nil {
				return err
			}
			return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).Edit(NewContext(), campaignID, args[0], input)
		},
	}
	addCampaignFlag(cmd)
	addPhaseFieldFlags(cmd)
	return cmd
}

func phaseDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [phase-ref]",
		Short: "Delete a phase and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := campaignFlag(cmd)
			if err != nil {
				return err
			}
			if err := validatePhaseRef(args[0]); err != nil {
				return err
			}
			return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).Delete(NewContext(), campaignID, args[0])
		},
	}
	addCampaignFlag(cmd)
	return cmd
}

func phaseHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [phase-id]",
		Short: "Show the change history of a saved phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "phase"); err != nil {
				return err
			}
			return wire.PhaseAdapterWithOutput(cmd.OutOrStdout()).History(NewContext(), args[0])
		},
	}
}

func addCampaignFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("campaign", "c", "", "Campaign ID (required)")
}

func addPhaseFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Start date, YYYY-MM-DD")
	cmd.Flags().Int("days", 0, "Duration in days")
	cmd.Flags().String("goal", "", "Funding goal, e.g. 5000 or 1250.50")
}

func campaignFlag(cmd *cobra.Command) (string, error) {
	campaignID, _ := cmd.Flags().GetString("campaign")
	if campaignID == "" {
		return "", fmt.Errorf("--campaign is required")
	}
	if err := validateEntityID(campaignID, "campaign"); err != nil {
		return "", err
	}
	return campaignID, nil
}

// phaseInput collects only the flags the user set, so edit leaves the rest alone.
func phaseInput(flags *pflag.FlagSet) (phase.Input, error) {
	var input phase.Input
	if flags.Changed("start") {
		s, _ := flags.GetString("start")
		start, err := phase.ParseDate(s)
		if err != nil {
			return input, fmt.Errorf("invalid --start: %w", err)
		}
		input.StartDate = &start
	}
	if flags.Changed("days") {
		days, _ := flags.GetInt("days")
		input.DurationDays = &days
	}
	if flags.Changed("goal") {
		s, _ := flags.GetString("goal")
		goal, err := decimal.NewFromString(s)
		if err != nil {
			return input, fmt.Errorf("invalid --goal %q: %w", s, err)
		}
		input.FundingGoal = &goal
	}
	return input, nil
}
