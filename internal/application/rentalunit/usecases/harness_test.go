package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mietwerk/mietwerk/internal/application/occupancy/services"
	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/infrastructure/cache"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/testutil"
	"github.com/mietwerk/mietwerk/internal/infrastructure/repository"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

type harness struct {
	units        rentalunit.Repository
	contracts    contract.Repository
	assignments  contract.AssignmentRepository
	synchronizer *services.AvailabilitySynchronizer
	seq          int

	create       *CreateRentalUnitUseCase
	update       *UpdateRentalUnitUseCase
	setParent    *SetUnitParentUseCase
	getOccupancy *GetUnitOccupancyUseCase
	recalculate  *RecalculateAvailabilityUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := testutil.NewTestDB(t)
	log := logger.NewNopLogger()
	txMgr := db.NewTransactionManager(gdb)

	h := &harness{
		units:       repository.NewRentalUnitRepository(gdb, log),
		contracts:   repository.NewContractRepository(gdb, log),
		assignments: repository.NewContractAssignmentRepository(gdb, log),
	}
	ledger := services.NewCapacityLedger(h.contracts, h.assignments, biztime.FixedClock(biztime.Date(2024, 6, 15)), log)
	hierarchy := services.NewHierarchyAggregator(h.units, ledger, cache.NopOccupancyCache{}, log)
	h.synchronizer = services.NewAvailabilitySynchronizer(h.units, ledger, 3, log)

	h.create = NewCreateRentalUnitUseCase(h.units, hierarchy, txMgr, log)
	h.update = NewUpdateRentalUnitUseCase(h.units, ledger, h.synchronizer, hierarchy, txMgr, log)
	h.setParent = NewSetUnitParentUseCase(h.units, hierarchy, txMgr, log)
	h.getOccupancy = NewGetUnitOccupancyUseCase(h.units, ledger, hierarchy, log)
	h.recalculate = NewRecalculateAvailabilityUseCase(h.synchronizer, log)
	return h
}

func (h *harness) unit(t *testing.T, name string, capacity int, parent *rentalunit.RentalUnit) *rentalunit.RentalUnit {
	t.Helper()
	cmd := CreateRentalUnitCommand{Name: name, Kind: string(rentalunit.KindApartment), Capacity: &capacity}
	if parent != nil {
		id := parent.ID()
		cmd.ParentID = &id
	}
	u, err := h.create.Execute(context.Background(), cmd)
	require.NoError(t, err)
	return u
}

// occupy books quantity slots on u through an active open-ended contract, bypassing
// the contract usecases, and leaves the availability flag untouched.
func (h *harness) occupy(t *testing.T, u *rentalunit.RentalUnit, quantity int) {
	t.Helper()
	ctx := context.Background()
	h.seq++
	c, err := contract.NewContract(fmt.Sprintf("T-%05d", h.seq), 1, contract.StatusActive, biztime.Date(2024, 1, 1), nil, nil)
	require.NoError(t, err)
	require.NoError(t, h.contracts.Create(ctx, c))
	a, err := contract.NewAssignment(c.ID(), u.ID(), decimal.NewFromInt(300), quantity, nil, nil)
	require.NoError(t, err)
	require.NoError(t, h.assignments.Create(ctx, a))
}

func (h *harness) reload(t *testing.T, u *rentalunit.RentalUnit) *rentalunit.RentalUnit {
	t.Helper()
	got, err := h.units.GetByID(context.Background(), u.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }
