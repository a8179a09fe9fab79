package contract

import (
	"github.com/shopspring/decimal"
)

// MaterializeLegacyAssignment returns the assignment that mirrors the contract's legacy
// unit link, so the link is accounted for like any other assignment. It returns nil when
// the contract has no legacy link or existing already holds an assignment for that unit.
//
// The mirrored row consumes one slot at price zero over the contract's validity window.
// The contract must be persisted already.
func MaterializeLegacyAssignment(c *Contract, existing []*Assignment) (*Assignment, error) {
	unitID := c.LegacyUnitID()
	if unitID == nil {
		return nil, nil
	}
	for _, a := range existing {
		if a.ContractID() == c.ID() && a.UnitID() == *unitID {
			return nil, nil
		}
	}
	start := c.Start()
	return NewAssignment(c.ID(), *unitID, decimal.Zero, 1, &start, c.End())
}
