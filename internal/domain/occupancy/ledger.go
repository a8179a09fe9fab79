package occupancy

// SlotSummary is the capacity picture of one unit or one subtree.
type SlotSummary struct {
	Capacity int `json:"capacity"`
	Consumed int `json:"consumed"`
}

// AvailableSlots never goes below zero, even when a unit is over-booked.
func (s SlotSummary) AvailableSlots() int {
	if s.Consumed >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Consumed
}

func (s SlotSummary) IsFullyOccupied() bool {
	return s.Consumed >= s.Capacity
}

// IsAvailable is the value persisted in RentalUnit.available.
func (s SlotSummary) IsAvailable() bool {
	return s.Consumed < s.Capacity
}

// Add sums two summaries, used for subtree aggregation.
func (s SlotSummary) Add(other SlotSummary) SlotSummary {
	return SlotSummary{
		Capacity: s.Capacity + other.Capacity,
		Consumed: s.Consumed + other.Consumed,
	}
}

// Ledger counts consumed capacity slots per unit from currently active contracts.
//
// Two sources feed it: assignment rows (quantity each) and legacy single-unit links
// (quantity 1 each). A legacy contract that already has an assignment row for the same
// unit is counted only through that row. Callers add only currently active entries.
type Ledger struct {
	assignments map[uint]map[uint]int      // unit -> contract -> quantity
	legacy      map[uint]map[uint]struct{} // unit -> contract
}

func NewLedger() *Ledger {
	return &Ledger{
		assignments: make(map[uint]map[uint]int),
		legacy:      make(map[uint]map[uint]struct{}),
	}
}

// AddAssignment records an assignment of a currently active contract.
func (l *Ledger) AddAssignment(unitID, contractID uint, quantity int) {
	byContract, ok := l.assignments[unitID]
	if !ok {
		byContract = make(map[uint]int)
		l.assignments[unitID] = byContract
	}
	byContract[contractID] += quantity
}

// AddLegacy records a currently active contract whose legacy link points at the unit.
func (l *Ledger) AddLegacy(unitID, contractID uint) {
	contracts, ok := l.legacy[unitID]
	if !ok {
		contracts = make(map[uint]struct{})
		l.legacy[unitID] = contracts
	}
	contracts[contractID] = struct{}{}
}

// Consumed returns the slots consumed on the unit.
func (l *Ledger) Consumed(unitID uint) int {
	return l.consumed(unitID, 0)
}

// ConsumedExcluding returns the slots consumed on the unit as if the given contract had
// no binding to it, through either source. Used to validate a write for that contract.
func (l *Ledger) ConsumedExcluding(unitID, contractID uint) int {
	return l.consumed(unitID, contractID)
}

func (l *Ledger) consumed(unitID, excludeContractID uint) int {
	total := 0
	byContract := l.assignments[unitID]
	for contractID, quantity := range byContract {
		if excludeContractID != 0 && contractID == excludeContractID {
			continue
		}
		total += quantity
	}
	for contractID := range l.legacy[unitID] {
		if excludeContractID != 0 && contractID == excludeContractID {
			continue
		}
		if _, mirrored := byContract[contractID]; mirrored {
			continue
		}
		total++
	}
	return total
}

// Summary combines the unit capacity with its consumed slots.
func (l *Ledger) Summary(unitID uint, capacity int) SlotSummary {
	return SlotSummary{Capacity: capacity, Consumed: l.Consumed(unitID)}
}
