package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Database table names
	TableRentalUnits         = "rental_units"
	TableContracts           = "contracts"
	TableContractAssignments = "contract_assignments"

	// Contract numbering
	DefaultContractNumberPrefix = "V"
	ContractNumberDigits        = 5

	// Availability reconciliation
	DefaultReconcileBatchSize = 200
	DefaultReconcileCron      = "5 0 * * *"
)
