package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mietwerk/mietwerk/internal/interfaces/cli/availability"
	"github.com/mietwerk/mietwerk/internal/interfaces/cli/migrate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mietwerk",
		Short:        "Mietwerk - rental unit occupancy engine",
		Long:         `Mietwerk tracks which rental units are occupied by which contracts, and for how long.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrate.NewCommand(),
		availability.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
