package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/application/occupancy/services"
	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/testutil"
	"github.com/mietwerk/mietwerk/internal/infrastructure/repository"
	infraservices "github.com/mietwerk/mietwerk/internal/infrastructure/services"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// today is the business date all tests evaluate "currently active" against.
var today = biztime.Date(2024, 6, 15)

type recordingInvalidator struct {
	mu    sync.Mutex
	calls [][]uint
}

func (r *recordingInvalidator) Invalidate(_ context.Context, unitIDs ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]uint(nil), unitIDs...))
}

func (r *recordingInvalidator) invalidated() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []uint
	for _, c := range r.calls {
		all = append(all, c...)
	}
	return all
}

type harness struct {
	gdb         *gorm.DB
	units       rentalunit.Repository
	contracts   contract.Repository
	assignments contract.AssignmentRepository
	ledger      *services.CapacityLedger
	invalidator *recordingInvalidator

	createContract  *CreateContractUseCase
	updateContract  *UpdateContractUseCase
	deleteContract  *DeleteContractUseCase
	assignUnit      *AssignUnitUseCase
	updateAssign    *UpdateAssignmentUseCase
	deleteAssign    *DeleteAssignmentUseCase
	findConflicting *FindConflictingContractsUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := testutil.NewTestDB(t)
	log := logger.NewNopLogger()
	txMgr := db.NewTransactionManager(gdb)

	h := &harness{
		gdb:         gdb,
		units:       repository.NewRentalUnitRepository(gdb, log),
		contracts:   repository.NewContractRepository(gdb, log),
		assignments: repository.NewContractAssignmentRepository(gdb, log),
		invalidator: &recordingInvalidator{},
	}
	h.ledger = services.NewCapacityLedger(h.contracts, h.assignments, biztime.FixedClock(today), log)
	synchronizer := services.NewAvailabilitySynchronizer(h.units, h.ledger, 0, log)
	guard := NewAssignmentGuard(h.units, h.ledger, log)
	numbers := infraservices.NewContractNumberGenerator(gdb, "V", log)

	h.createContract = NewCreateContractUseCase(h.contracts, h.assignments, h.units, numbers, guard, synchronizer, h.invalidator, txMgr, log)
	h.updateContract = NewUpdateContractUseCase(h.contracts, h.assignments, h.units, h.ledger, guard, synchronizer, h.invalidator, txMgr, log)
	h.deleteContract = NewDeleteContractUseCase(h.contracts, h.assignments, synchronizer, h.invalidator, txMgr, log)
	h.assignUnit = NewAssignUnitUseCase(h.contracts, h.assignments, guard, synchronizer, h.invalidator, txMgr, log)
	h.updateAssign = NewUpdateAssignmentUseCase(h.contracts, h.assignments, guard, synchronizer, h.invalidator, txMgr, log)
	h.deleteAssign = NewDeleteAssignmentUseCase(h.assignments, synchronizer, h.invalidator, txMgr, log)
	h.findConflicting = NewFindConflictingContractsUseCase(h.contracts, h.assignments, h.units, log)
	return h
}

func (h *harness) unit(t *testing.T, capacity int) *rentalunit.RentalUnit {
	t.Helper()
	u, err := rentalunit.NewRentalUnit("Einheit", rentalunit.KindApartment, capacity, nil)
	require.NoError(t, err)
	require.NoError(t, h.units.Create(context.Background(), u))
	return u
}

func (h *harness) reload(t *testing.T, u *rentalunit.RentalUnit) *rentalunit.RentalUnit {
	t.Helper()
	got, err := h.units.GetByID(context.Background(), u.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	return got
}

func (h *harness) consumed(t *testing.T, u *rentalunit.RentalUnit) int {
	t.Helper()
	n, err := h.ledger.ConsumedSlots(context.Background(), u.ID())
	require.NoError(t, err)
	return n
}

func (h *harness) newContract(t *testing.T, status contract.Status, start time.Time, end *time.Time) *contract.Contract {
	t.Helper()
	res, err := h.createContract.Execute(context.Background(), CreateContractCommand{
		TenantID: 1,
		Status:   string(status),
		Start:    start,
		End:      end,
	})
	require.NoError(t, err)
	return res.Contract
}

func (h *harness) assign(c *contract.Contract, u *rentalunit.RentalUnit, quantity int) (*contract.Assignment, error) {
	res, err := h.assignUnit.Execute(context.Background(), AssignUnitCommand{
		ContractID: c.ID(),
		UnitID:     u.ID(),
		Price:      decimal.NewFromInt(450),
		Quantity:   quantity,
	})
	if err != nil {
		return nil, err
	}
	return res.Assignment, nil
}

func (h *harness) countContracts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.gdb.Table("contracts").Count(&n).Error)
	return n
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := biztime.Date(y, m, d)
	return &t
}
