package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/fundplan/internal/config"
	"github.com/example/fundplan/internal/logging"
	"github.com/example/fundplan/internal/version"
	"github.com/example/fundplan/internal/wire"
)

// RootCmd returns the fundplan command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fundplan",
		Short:   "Plan the funding phases of a crowdfunding campaign",
		Version: version.String(),
		Long: `fundplan keeps an ordered schedule of funding phases for each campaign.
Every change is checked against the scheduling rules before it is saved.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: printStats,
	}
	rootCmd.PersistentFlags().Bool("stats", false, "Print draft counters after the command")

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(CampaignCmd())
	rootCmd.AddCommand(PhaseCmd())
	rootCmd.AddCommand(PlanCmd())

	return rootCmd
}

// setup loads config from the working directory and wires services.
func setup(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)

	DetectAndStoreActor(cfg.Actor)
	wire.Configure(cfg, logger)
	return nil
}

func printStats(cmd *cobra.Command, args []string) error {
	if stats, _ := cmd.Flags().GetBool("stats"); !stats {
		return nil
	}
	families, err := wire.Registry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather stats: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	out := cmd.ErrOrStderr()
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
