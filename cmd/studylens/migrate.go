package studylens

import (
	"fmt"
	"strconv"

	"github.com/Temutjin2k/studylens-dashboard/config"
	"github.com/Temutjin2k/studylens-dashboard/internal/adapter/postgres/migrations"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	migrate := &cobra.Command{Use: "migrate", Short: "Manage the database schema"}

	withMigrator := func(fn func(cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := config.NewConfig(opts.configPath, string(types.APIService))
			if err != nil {
				return err
			}
			m, err := migrations.New(cfg.Database.GetDSN())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := m.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return fn(cmd, m)
		}
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		}),
	})

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (one by default)",
		Args:  cobra.MaximumNArgs(1),
	}
	down.RunE = func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		return withMigrator(func(cmd *cobra.Command, m *migrations.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})(cmd, args)
	}
	migrate.AddCommand(down)

	migrate.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE:  withMigrator(printVersion),
	})

	return migrate
}

func printVersion(cmd *cobra.Command, m *migrations.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
	return nil
}
