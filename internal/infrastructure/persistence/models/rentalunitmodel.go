package models

import (
	"time"

	"github.com/mietwerk/mietwerk/internal/shared/constants"
)

// RentalUnitModel represents the database persistence model for rental units.
type RentalUnitModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:200"`
	Kind      string `gorm:"not null;size:20;index:idx_rental_unit_kind"`
	Capacity  int    `gorm:"not null"`
	Available bool   `gorm:"not null"`
	ParentID  *uint  `gorm:"index:idx_rental_unit_parent_id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM.
func (RentalUnitModel) TableName() string {
	return constants.TableRentalUnits
}
