package migration

import (
	"github.com/mietwerk/mietwerk/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models managed by GormAutoMigrateStrategy.
// Parents come before children so foreign keys resolve.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.RentalUnitModel{},
		&models.ContractModel{},
		&models.ContractAssignmentModel{},
	}
}
