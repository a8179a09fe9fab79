// Package testutil provides an in-memory SQLite database for repository and usecase tests.
package testutil

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
)

// NewTestDB opens a migrated in-memory SQLite database.
// The pool is limited to one connection: every query shares the same in-memory database
// and transactions are serialized, which stands in for row locks SQLite does not have.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&models.RentalUnitModel{},
		&models.ContractModel{},
		&models.ContractAssignmentModel{},
	))
	return gdb
}

// QueryCounter counts SELECT statements issued through a gorm.DB.
type QueryCounter struct {
	n atomic.Int64
}

// CountQueries registers a callback on gdb that counts every query it runs.
func CountQueries(t testing.TB, gdb *gorm.DB) *QueryCounter {
	t.Helper()
	qc := &QueryCounter{}
	err := gdb.Callback().Query().After("gorm:query").Register("testutil:count_queries", func(*gorm.DB) {
		qc.n.Add(1)
	})
	require.NoError(t, err)
	return qc
}

// Count returns the number of queries seen so far.
func (qc *QueryCounter) Count() int {
	return int(qc.n.Load())
}

// Reset sets the counter back to zero.
func (qc *QueryCounter) Reset() {
	qc.n.Store(0)
}
