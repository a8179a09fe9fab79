package contract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeLegacyAssignment(t *testing.T) {
	linked, err := ReconstructContract(3, "V-00003", "active", date(2024, 1, 1), datePtr(2025, 1, 1), 1, uintPtr(9), time.Now(), time.Now())
	require.NoError(t, err)

	t.Run("mirrors the legacy link", func(t *testing.T) {
		a, err := MaterializeLegacyAssignment(linked, nil)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, uint(3), a.ContractID())
		assert.Equal(t, uint(9), a.UnitID())
		assert.Equal(t, 1, a.Quantity())
		assert.True(t, a.Price().IsZero())
		assert.Equal(t, datePtr(2024, 1, 1), a.ValidFrom())
		assert.Equal(t, datePtr(2025, 1, 1), a.ValidTo())
		assert.Equal(t, AssignmentStatusActive, a.Status())
	})

	t.Run("skips when already materialized", func(t *testing.T) {
		existing, err := ReconstructAssignment(11, 3, 9, decimal.NewFromInt(500), 1, nil, nil, "active", time.Now(), time.Now())
		require.NoError(t, err)
		a, err := MaterializeLegacyAssignment(linked, []*Assignment{existing})
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("other units do not count as mirror", func(t *testing.T) {
		other, err := ReconstructAssignment(12, 3, 8, decimal.Zero, 1, nil, nil, "active", time.Now(), time.Now())
		require.NoError(t, err)
		a, err := MaterializeLegacyAssignment(linked, []*Assignment{other})
		require.NoError(t, err)
		assert.NotNil(t, a)
	})

	t.Run("no legacy link", func(t *testing.T) {
		plain := mustContract(t, StatusActive, date(2024, 1, 1), nil)
		a, err := MaterializeLegacyAssignment(plain, nil)
		require.NoError(t, err)
		assert.Nil(t, a)
	})
}
