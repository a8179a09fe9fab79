package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/mietwerk/mietwerk/internal/shared/constants"
)

// ContractAssignmentModel represents the database persistence model for contract assignments.
// (contract_id, unit_id) is unique.
type ContractAssignmentModel struct {
	ID         uint            `gorm:"primarykey"`
	ContractID uint            `gorm:"not null;uniqueIndex:idx_assignment_contract_unit,priority:1"`
	UnitID     uint            `gorm:"not null;uniqueIndex:idx_assignment_contract_unit,priority:2;index:idx_assignment_unit_id"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null"`
	ValidFrom  *datatypes.Date `gorm:"column:valid_from"`
	ValidTo    *datatypes.Date `gorm:"column:valid_to"`
	Status     string          `gorm:"not null;size:20"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM.
func (ContractAssignmentModel) TableName() string {
	return constants.TableContractAssignments
}
