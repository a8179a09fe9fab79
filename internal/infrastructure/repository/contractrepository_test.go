package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/testutil"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

type contractFixture struct {
	units       *RentalUnitRepositoryImpl
	contracts   contract.Repository
	assignments contract.AssignmentRepository
}

func newContractFixture(t *testing.T) contractFixture {
	gdb := testutil.NewTestDB(t)
	log := logger.NewNopLogger()
	return contractFixture{
		units:       NewRentalUnitRepository(gdb, log).(*RentalUnitRepositoryImpl),
		contracts:   NewContractRepository(gdb, log),
		assignments: NewContractAssignmentRepository(gdb, log),
	}
}

func (f contractFixture) createContract(t *testing.T, number string, status contract.Status, end *time.Time, legacyUnitID *uint) *contract.Contract {
	t.Helper()
	c, err := contract.NewContract(number, 7, status, biztime.Date(2024, 1, 1), end, legacyUnitID)
	require.NoError(t, err)
	require.NoError(t, f.contracts.Create(context.Background(), c))
	return c
}

func (f contractFixture) assign(t *testing.T, contractID, unitID uint, quantity int) *contract.Assignment {
	t.Helper()
	a, err := contract.NewAssignment(contractID, unitID, decimal.RequireFromString("450.50"), quantity, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.assignments.Create(context.Background(), a))
	return a
}

func TestContractRepository_RoundTrip(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	unit := createUnit(t, f.units, "Wohnung", 1, nil)

	end := biztime.Date(2025, 6, 30)
	c := f.createContract(t, "V-00001", contract.StatusActive, &end, idPtr(unit.ID()))

	found, err := f.contracts.GetByID(ctx, c.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "V-00001", found.Number())
	assert.Equal(t, contract.StatusActive, found.Status())
	assert.Equal(t, biztime.Date(2024, 1, 1), found.Start())
	require.NotNil(t, found.End())
	assert.Equal(t, end, *found.End())
	assert.Equal(t, idPtr(unit.ID()), found.LegacyUnitID())

	byNumber, err := f.contracts.GetByNumber(ctx, "V-00001")
	require.NoError(t, err)
	assert.Equal(t, c.ID(), byNumber.ID())

	missing, err := f.contracts.GetByNumber(ctx, "V-99999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContractRepository_DuplicateNumber(t *testing.T) {
	f := newContractFixture(t)
	f.createContract(t, "V-00001", contract.StatusDraft, nil, nil)

	dup, err := contract.NewContract("V-00001", 7, contract.StatusDraft, biztime.Date(2024, 1, 1), nil, nil)
	require.NoError(t, err)
	err = f.contracts.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateIdentifierError(err))
	assert.False(t, errors.IsValidationError(err))
}

func TestContractRepository_Update(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	c := f.createContract(t, "V-00001", contract.StatusDraft, nil, nil)

	require.NoError(t, c.TransitionTo(contract.StatusActive))
	end := biztime.Date(2024, 12, 31)
	require.NoError(t, c.Reschedule(biztime.Date(2024, 2, 1), &end))
	require.NoError(t, f.contracts.Update(ctx, c))

	found, err := f.contracts.GetByID(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, contract.StatusActive, found.Status())
	assert.Equal(t, biztime.Date(2024, 2, 1), found.Start())
	assert.Equal(t, &end, found.End())
}

func TestContractRepository_DeleteRemovesAssignments(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	unit := createUnit(t, f.units, "Wohnung", 1, nil)
	c := f.createContract(t, "V-00001", contract.StatusActive, nil, nil)
	a := f.assign(t, c.ID(), unit.ID(), 1)

	require.NoError(t, f.contracts.Delete(ctx, c.ID()))

	gone, err := f.assignments.GetByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = f.contracts.Delete(ctx, c.ID())
	assert.True(t, errors.IsNotFoundError(err))
}

func TestContractAssignmentRepository_DuplicatePair(t *testing.T) {
	f := newContractFixture(t)
	unit := createUnit(t, f.units, "Wohnung", 2, nil)
	c := f.createContract(t, "V-00001", contract.StatusActive, nil, nil)
	f.assign(t, c.ID(), unit.ID(), 1)

	dup, err := contract.NewAssignment(c.ID(), unit.ID(), decimal.Zero, 1, nil, nil)
	require.NoError(t, err)
	err = f.assignments.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateIdentifierError(err))
}

func TestContractAssignmentRepository_RoundTrip(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	unit := createUnit(t, f.units, "Stellplatz", 5, nil)
	c := f.createContract(t, "V-00001", contract.StatusActive, nil, nil)

	from := biztime.Date(2024, 3, 1)
	to := biztime.Date(2024, 9, 1)
	a, err := contract.NewAssignment(c.ID(), unit.ID(), decimal.RequireFromString("79.90"), 3, &from, &to)
	require.NoError(t, err)
	require.NoError(t, f.assignments.Create(ctx, a))

	found, err := f.assignments.GetByContractAndUnit(ctx, c.ID(), unit.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, decimal.RequireFromString("79.90").Equal(found.Price()))
	assert.Equal(t, 3, found.Quantity())
	assert.Equal(t, &from, found.ValidFrom())
	assert.Equal(t, &to, found.ValidTo())

	found.Revise(decimal.NewFromInt(80), 2, nil, nil)
	require.NoError(t, found.ChangeStatus(contract.AssignmentStatusEnded))
	require.NoError(t, f.assignments.Update(ctx, found))

	reloaded, err := f.assignments.GetByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Quantity())
	assert.Nil(t, reloaded.ValidFrom())
	assert.Equal(t, contract.AssignmentStatusEnded, reloaded.Status())

	list, err := f.assignments.ListByContract(ctx, c.ID())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.assignments.Delete(ctx, a.ID()))
	assert.True(t, errors.IsNotFoundError(f.assignments.Delete(ctx, a.ID())))
}

func TestContractAssignmentRepository_ListBindingsByUnitIDs(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	u1 := createUnit(t, f.units, "U1", 3, nil)
	u2 := createUnit(t, f.units, "U2", 3, nil)
	u3 := createUnit(t, f.units, "U3", 3, nil)

	active := f.createContract(t, "V-00001", contract.StatusActive, nil, nil)
	draft := f.createContract(t, "V-00002", contract.StatusDraft, nil, nil)
	f.assign(t, active.ID(), u1.ID(), 1)
	f.assign(t, active.ID(), u2.ID(), 2)
	f.assign(t, draft.ID(), u1.ID(), 1)
	f.assign(t, draft.ID(), u3.ID(), 1)

	all, err := f.assignments.ListBindingsByUnitIDs(ctx, []uint{u1.ID(), u2.ID()})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyActive, err := f.assignments.ListBindingsByUnitIDs(ctx, []uint{u1.ID(), u2.ID(), u3.ID()}, contract.StatusActive)
	require.NoError(t, err)
	require.Len(t, onlyActive, 2)
	for _, b := range onlyActive {
		assert.Equal(t, active.ID(), b.Contract.ID())
		assert.Equal(t, b.Contract.ID(), b.Assignment.ContractID())
	}

	none, err := f.assignments.ListBindingsByUnitIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContractRepository_ListByLegacyUnitIDs(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	u1 := createUnit(t, f.units, "U1", 1, nil)
	u2 := createUnit(t, f.units, "U2", 1, nil)

	f.createContract(t, "V-00001", contract.StatusActive, nil, idPtr(u1.ID()))
	f.createContract(t, "V-00002", contract.StatusCancelled, nil, idPtr(u1.ID()))
	f.createContract(t, "V-00003", contract.StatusActive, nil, idPtr(u2.ID()))
	f.createContract(t, "V-00004", contract.StatusActive, nil, nil)

	list, err := f.contracts.ListByLegacyUnitIDs(ctx, []uint{u1.ID()}, contract.StatusActive)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "V-00001", list[0].Number())

	list, err = f.contracts.ListByLegacyUnitIDs(ctx, []uint{u1.ID(), u2.ID()})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
