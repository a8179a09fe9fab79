package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mietwerk/mietwerk/internal/infrastructure/migration"
	"github.com/mietwerk/mietwerk/internal/interfaces/cli/app"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the versioned SQL migrations embedded in the binary.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long: `Bring the database schema up to date. Test and production databases run the embedded
SQL scripts; development databases are auto-migrated from the models.`,
		RunE: runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	a, err := app.Bootstrap(env)
	if err != nil {
		return err
	}
	defer a.Close()

	manager := migration.NewManager(env, a.Log)
	a.Log.Infow("running up migrations",
		"environment", env,
		"driver", a.Config.Database.Driver,
		"strategy", manager.GetStrategy().GetName())

	if err := manager.Migrate(a.DB, migration.AutoMigrateModels()...); err != nil {
		return err
	}

	a.Log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", steps)
	}

	a, err := app.Bootstrap(env)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := migration.NewGooseStrategy(a.Log).MigrateDown(a.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	a.Log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := app.Bootstrap(env)
	if err != nil {
		return err
	}
	defer a.Close()

	strategy := migration.NewGooseStrategy(a.Log)

	version, err := strategy.GetVersion(a.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", a.Config.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	if err := strategy.Status(a.DB); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}
