package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/fundplan/internal/config"
	"github.com/example/fundplan/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the fundplan database",
		Long:  `Create .fundplan/config.yaml in the current directory and initialize the database schema.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, _ := cmd.Flags().GetBool("demo")
			out := cmd.OutOrStdout()

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			created, err := initConfig(wd)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "✓ Config written to %s\n", config.Path(wd))
			}

			cfg, err := config.LoadConfig(wd)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Initializing fundplan database at %s\n", cfg.DatabasePath)

			db.SetPath(cfg.DatabasePath)
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Fprintln(out, "✓ Database initialized successfully")

			if demo {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to load demo campaigns: %w", err)
				}
				fmt.Fprintln(out, "✓ Demo campaigns loaded")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  fundplan campaign create "My Campaign" --start 2024-06-01`)
			fmt.Fprintln(out, "  fundplan phase add -c CAMP-001 --days 30 --goal 5000")
			return nil
		},
	}
	cmd.Flags().Bool("demo", false, "Load demo campaigns")
	return cmd
}

// initConfig writes the default config unless one already exists.
func initConfig(dir string) (bool, error) {
	_, err := os.Stat(config.Path(dir))
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("failed to check config: %w", err)
	}
	if err := config.SaveConfig(dir, config.Default()); err != nil {
		return false, err
	}
	return true, nil
}
