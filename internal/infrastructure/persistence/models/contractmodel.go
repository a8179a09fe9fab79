package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/mietwerk/mietwerk/internal/shared/constants"
)

// ContractModel represents the database persistence model for contracts.
type ContractModel struct {
	ID           uint            `gorm:"primarykey"`
	Number       string          `gorm:"not null;size:64;uniqueIndex:idx_contract_number"`
	Status       string          `gorm:"not null;size:20;index:idx_contract_status"`
	StartDate    datatypes.Date  `gorm:"column:start_date;not null"`
	EndDate      *datatypes.Date `gorm:"column:end_date"`
	TenantID     uint            `gorm:"not null;index:idx_contract_tenant_id"`
	LegacyUnitID *uint           `gorm:"index:idx_contract_legacy_unit_id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM.
func (ContractModel) TableName() string {
	return constants.TableContracts
}
