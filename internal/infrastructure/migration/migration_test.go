package migration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
	"github.com/mietwerk/mietwerk/internal/shared/constants"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	gdb := openSQLite(t)
	strategy := NewGooseStrategy(logger.NewNopLogger())

	require.NoError(t, strategy.Migrate(gdb))

	version, err := strategy.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{constants.TableRentalUnits, constants.TableContracts, constants.TableContractAssignments} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	// the scripts and the models agree on column names
	unit := models.RentalUnitModel{Name: "Haus A", Kind: "building", Capacity: 1, Available: true}
	require.NoError(t, gdb.Create(&unit).Error)
	contract := models.ContractModel{Number: "V-00001", Status: "active", TenantID: 1, LegacyUnitID: &unit.ID}
	require.NoError(t, gdb.Create(&contract).Error)
	require.NoError(t, gdb.Create(&models.ContractAssignmentModel{ContractID: contract.ID, UnitID: unit.ID, Quantity: 1, Status: "active"}).Error)

	duplicate := models.ContractModel{Number: "V-00001", Status: "draft", TenantID: 1}
	assert.Error(t, gdb.Create(&duplicate).Error)

	require.NoError(t, strategy.MigrateDown(gdb, 1))
	assert.False(t, gdb.Migrator().HasTable(constants.TableContracts))

	version, err = strategy.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestGooseStrategy_MigrateIsIdempotent(t *testing.T) {
	gdb := openSQLite(t)
	strategy := NewGooseStrategy(logger.NewNopLogger())

	require.NoError(t, strategy.Migrate(gdb))
	require.NoError(t, strategy.Migrate(gdb))
}

func TestNewManager_PicksStrategyByEnvironment(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: constants.EnvDevelopment, want: "gorm_auto_migrate"},
		{env: constants.EnvTest, want: "goose"},
		{env: "PRODUCTION", want: "goose"},
		{env: "staging", want: "gorm_auto_migrate"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			m := NewManager(tt.env, logger.NewNopLogger())
			assert.Equal(t, tt.want, m.GetStrategy().GetName())
		})
	}
}

func TestManager_AutoMigrate(t *testing.T) {
	gdb := openSQLite(t)
	m := NewManager(constants.EnvDevelopment, logger.NewNopLogger())

	require.NoError(t, m.Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(constants.TableContractAssignments))
}
