package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

func TestCreateContract_GeneratesSequentialNumbers(t *testing.T) {
	h := newHarness(t)

	first := h.newContract(t, contract.StatusDraft, biztime.Date(2024, 1, 1), nil)
	second := h.newContract(t, contract.StatusDraft, biztime.Date(2024, 2, 1), nil)

	assert.Equal(t, "V-00001", first.Number())
	assert.Equal(t, "V-00002", second.Number())
}

func TestCreateContract_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cmd       CreateContractCommand
		wantField string
	}{
		{
			name:      "end before start",
			cmd:       CreateContractCommand{TenantID: 1, Start: biztime.Date(2024, 1, 1), End: datePtr(2023, 12, 31)},
			wantField: contract.FieldEnd,
		},
		{
			name:      "end equal to start",
			cmd:       CreateContractCommand{TenantID: 1, Start: biztime.Date(2024, 1, 1), End: datePtr(2024, 1, 1)},
			wantField: contract.FieldEnd,
		},
		{
			name:      "missing tenant",
			cmd:       CreateContractCommand{Start: biztime.Date(2024, 1, 1)},
			wantField: contract.FieldTenant,
		},
		{
			name:      "unknown status",
			cmd:       CreateContractCommand{TenantID: 1, Status: "paused", Start: biztime.Date(2024, 1, 1)},
			wantField: contract.FieldStatus,
		},
		{
			name:      "missing start",
			cmd:       CreateContractCommand{TenantID: 1},
			wantField: contract.FieldStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.createContract.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, errors.FieldErrors(err), tt.wantField)
			assert.Zero(t, h.countContracts(t))
		})
	}
}

func TestCreateContract_OperatorNumber(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.createContract.Execute(ctx, CreateContractCommand{
		Number:   "MV-2024-17",
		TenantID: 1,
		Start:    biztime.Date(2024, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "MV-2024-17", res.Contract.Number())

	_, err = h.createContract.Execute(ctx, CreateContractCommand{
		Number:   "MV-2024-17",
		TenantID: 2,
		Start:    biztime.Date(2024, 3, 1),
	})
	require.Error(t, err)
	assert.Contains(t, errors.FieldErrors(err), contract.FieldNumber)

	// a foreign-format last number falls back to the row count
	generated := h.newContract(t, contract.StatusDraft, biztime.Date(2024, 1, 1), nil)
	assert.Equal(t, "V-00002", generated.Number())
}

func TestCreateContract_LegacyUnitMaterializedOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.unit(t, 1)
	unitID := u.ID()

	res, err := h.createContract.Execute(ctx, CreateContractCommand{
		TenantID:     1,
		Status:       string(contract.StatusActive),
		Start:        biztime.Date(2024, 1, 1),
		LegacyUnitID: &unitID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.LegacyAssignment)
	assert.Equal(t, unitID, res.LegacyAssignment.UnitID())
	assert.Equal(t, 1, res.LegacyAssignment.Quantity())
	assert.True(t, res.LegacyAssignment.Price().IsZero())

	assert.Equal(t, 1, h.consumed(t, u), "legacy link and its mirror count once")
	assert.False(t, h.reload(t, u).Available())
	assert.Contains(t, h.invalidator.invalidated(), unitID)

	// a second currently active legacy contract on the full unit is rejected as a whole
	_, err = h.createContract.Execute(ctx, CreateContractCommand{
		TenantID:     2,
		Status:       string(contract.StatusActive),
		Start:        biztime.Date(2024, 5, 1),
		LegacyUnitID: &unitID,
	})
	require.Error(t, err)
	msg, ok := errors.FieldErrors(err)["quantity"]
	require.True(t, ok)
	assert.Contains(t, msg, "already consumed 1 of 1")
	assert.Equal(t, int64(1), h.countContracts(t))
}

func TestCreateContract_UnknownLegacyUnit(t *testing.T) {
	h := newHarness(t)
	missing := uint(404)

	_, err := h.createContract.Execute(context.Background(), CreateContractCommand{
		TenantID:     1,
		Start:        biztime.Date(2024, 1, 1),
		LegacyUnitID: &missing,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Zero(t, h.countContracts(t))
}
