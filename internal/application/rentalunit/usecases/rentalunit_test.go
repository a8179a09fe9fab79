package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

func TestCreateRentalUnit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.create.Execute(ctx, CreateRentalUnitCommand{Name: "Container 7", Kind: "container"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID())
	assert.Equal(t, 1, u.Capacity(), "capacity defaults to one slot")
	assert.True(t, u.Available())
	assert.True(t, u.IsRoot())

	tests := []struct {
		name      string
		cmd       CreateRentalUnitCommand
		wantField string
		notFound  bool
	}{
		{name: "missing name", cmd: CreateRentalUnitCommand{Kind: "room"}, wantField: rentalunit.FieldName},
		{name: "unknown kind", cmd: CreateRentalUnitCommand{Name: "X", Kind: "castle"}, wantField: rentalunit.FieldKind},
		{name: "zero capacity", cmd: CreateRentalUnitCommand{Name: "X", Kind: "room", Capacity: intPtr(0)}, wantField: rentalunit.FieldCapacity},
		{name: "unknown parent", cmd: CreateRentalUnitCommand{Name: "X", Kind: "room", ParentID: uintPtr(999)}, notFound: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.create.Execute(ctx, tt.cmd)
			require.Error(t, err)
			if tt.notFound {
				assert.True(t, errors.IsNotFoundError(err))
				return
			}
			assert.Contains(t, errors.FieldErrors(err), tt.wantField)
		})
	}
}

func TestUpdateRentalUnit_Capacity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.unit(t, "Stellplätze Hof", 3, nil)
	h.occupy(t, u, 2)

	_, err := h.update.Execute(ctx, UpdateRentalUnitCommand{UnitID: u.ID(), Capacity: intPtr(1)})
	require.Error(t, err)
	assert.Contains(t, errors.FieldErrors(err)[rentalunit.FieldCapacity], "2 slots currently consumed")
	assert.Equal(t, 3, h.reload(t, u).Capacity())

	updated, err := h.update.Execute(ctx, UpdateRentalUnitCommand{UnitID: u.ID(), Capacity: intPtr(2), Name: strPtr("Hof")})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity())
	assert.Equal(t, "Hof", updated.Name())
	assert.False(t, updated.Available(), "lowering capacity to consumption occupies the unit")

	updated, err = h.update.Execute(ctx, UpdateRentalUnitCommand{UnitID: u.ID(), Capacity: intPtr(5)})
	require.NoError(t, err)
	assert.True(t, updated.Available())

	_, err = h.update.Execute(ctx, UpdateRentalUnitCommand{UnitID: 999, Name: strPtr("x")})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSetUnitParent_RejectsCycles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	x := h.unit(t, "X", 1, nil)
	y := h.unit(t, "Y", 1, nil)

	moved, err := h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: x.ID(), ParentID: uintPtr(y.ID())})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID())
	assert.Equal(t, y.ID(), *moved.ParentID())

	_, err = h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: y.ID(), ParentID: uintPtr(x.ID())})
	require.Error(t, err)
	msg, ok := errors.FieldErrors(err)[rentalunit.FieldParent]
	require.True(t, ok)
	assert.Contains(t, msg, "circular reference")
	assert.True(t, h.reload(t, y).IsRoot())
}

func TestSetUnitParent_DeepCycleAndSelf(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	building := h.unit(t, "Haus", 1, nil)
	floor := h.unit(t, "Etage", 1, building)
	flat := h.unit(t, "Wohnung", 1, floor)

	_, err := h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: building.ID(), ParentID: uintPtr(flat.ID())})
	assert.Contains(t, errors.FieldErrors(err), rentalunit.FieldParent)

	_, err = h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: flat.ID(), ParentID: uintPtr(flat.ID())})
	assert.Contains(t, errors.FieldErrors(err), rentalunit.FieldParent)

	// detaching and re-attaching elsewhere is fine
	moved, err := h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: flat.ID(), ParentID: nil})
	require.NoError(t, err)
	assert.True(t, moved.IsRoot())
	moved, err = h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: flat.ID(), ParentID: uintPtr(building.ID())})
	require.NoError(t, err)
	assert.Equal(t, building.ID(), *moved.ParentID())

	_, err = h.setParent.Execute(ctx, SetUnitParentCommand{UnitID: flat.ID(), ParentID: uintPtr(999)})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGetUnitOccupancy(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	building := h.unit(t, "Haus", 1, nil)
	floor := h.unit(t, "Etage", 1, building)
	flat := h.unit(t, "Wohnung", 2, floor)
	room := h.unit(t, "Zimmer", 1, flat)
	h.occupy(t, flat, 2)
	h.occupy(t, room, 1)

	got, err := h.getOccupancy.Execute(ctx, flat.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Capacity)
	assert.Equal(t, 2, got.ConsumedSlots)
	assert.Equal(t, 0, got.AvailableSlots)
	assert.True(t, got.FullyOccupied)
	assert.Equal(t, 2, got.HierarchyLevel)
	assert.Equal(t, building.ID(), got.RootID)
	assert.Equal(t, 2, got.Aggregate.UnitCount)
	assert.Equal(t, 3, got.Aggregate.Capacity)
	assert.Equal(t, 3, got.Aggregate.ConsumedSlots)
	assert.False(t, got.Aggregate.Available)

	top, err := h.getOccupancy.Execute(ctx, building.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, top.HierarchyLevel)
	assert.Equal(t, building.ID(), top.RootID)
	assert.Equal(t, 4, top.Aggregate.UnitCount)
	assert.Equal(t, 5, top.Aggregate.Capacity)
	assert.Equal(t, 2, top.Aggregate.AvailableSlots)
	assert.True(t, top.Aggregate.Available)

	again, err := h.getOccupancy.Execute(ctx, building.ID())
	require.NoError(t, err)
	assert.Equal(t, top, again)

	_, err = h.getOccupancy.Execute(ctx, 999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRecalculateAvailability(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var units []*rentalunit.RentalUnit
	for i := 0; i < 7; i++ {
		units = append(units, h.unit(t, "Box", 1, nil))
	}
	for _, i := range []int{0, 3, 6} {
		h.occupy(t, units[i], 1)
	}

	one, err := h.recalculate.Execute(ctx, RecalculateAvailabilityCommand{UnitID: uintPtr(units[0].ID())})
	require.NoError(t, err)
	assert.Equal(t, 1, one.Changed)

	all, err := h.recalculate.Execute(ctx, RecalculateAvailabilityCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Changed)

	again, err := h.recalculate.Execute(ctx, RecalculateAvailabilityCommand{})
	require.NoError(t, err)
	assert.Zero(t, again.Changed)

	for i, u := range units {
		occupied := i == 0 || i == 3 || i == 6
		assert.Equal(t, !occupied, h.reload(t, u).Available(), "unit %d", i)
	}

	_, err = h.recalculate.Execute(ctx, RecalculateAvailabilityCommand{UnitID: uintPtr(999)})
	assert.True(t, errors.IsNotFoundError(err))
}
