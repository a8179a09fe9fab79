// Package availability holds the operator commands around unit availability.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mietwerk/mietwerk/internal/application/rentalunit/dto"
	"github.com/mietwerk/mietwerk/internal/application/rentalunit/usecases"
	"github.com/mietwerk/mietwerk/internal/interfaces/cli/app"
)

var (
	env    string
	unitID uint
)

type recalculator interface {
	Execute(ctx context.Context, cmd usecases.RecalculateAvailabilityCommand) (*usecases.RecalculateAvailabilityResult, error)
}

type occupancyReader interface {
	Execute(ctx context.Context, unitID uint) (*dto.UnitOccupancyDTO, error)
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Rental unit availability tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newRecalculateCommand(),
		newShowCommand(),
	)

	return cmd
}

func newRecalculateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recompute the availability flag",
		Long: `Recompute the stored availability flag of one rental unit, or of every unit when
--unit-id is omitted. Running it twice in a row changes nothing the second time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *uint
			if cmd.Flags().Changed("unit-id") {
				id := unitID
				target = &id
			}

			a, err := app.Open(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.Close()

			return recalculate(cmd.Context(), cmd.OutOrStdout(), a.Recalculate, target)
		},
	}

	cmd.Flags().UintVar(&unitID, "unit-id", 0, "Only recalculate this rental unit")

	return cmd
}

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the occupancy of a rental unit as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer a.Close()

			return show(cmd.Context(), cmd.OutOrStdout(), a.GetOccupancy, unitID)
		},
	}

	cmd.Flags().UintVar(&unitID, "unit-id", 0, "Rental unit to inspect")
	_ = cmd.MarkFlagRequired("unit-id")

	return cmd
}

func recalculate(ctx context.Context, out io.Writer, uc recalculator, target *uint) error {
	if target != nil && *target == 0 {
		return fmt.Errorf("--unit-id must be a positive id")
	}

	result, err := uc.Execute(ctx, usecases.RecalculateAvailabilityCommand{UnitID: target})
	if err != nil {
		return fmt.Errorf("availability recalculation failed: %w", err)
	}

	if target != nil {
		fmt.Fprintf(out, "unit %d: %d changed\n", *target, result.Changed)
		return nil
	}
	fmt.Fprintf(out, "all units: %d changed\n", result.Changed)
	return nil
}

func show(ctx context.Context, out io.Writer, uc occupancyReader, id uint) error {
	occupancy, err := uc.Execute(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load occupancy: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(occupancy)
}
