// Package setutil provides set utilities for collecting entity IDs.
package setutil

// UintSet is an insertion-ordered set of IDs. Zero is never a valid ID and is ignored.
// The zero value is ready to use.
type UintSet struct {
	items map[uint]struct{}
	order []uint
}

// NewUintSet creates a new empty UintSet.
func NewUintSet() *UintSet {
	return &UintSet{}
}

// NewUintSetWithCap creates a new UintSet with initial capacity.
func NewUintSetWithCap(cap int) *UintSet {
	return &UintSet{
		items: make(map[uint]struct{}, cap),
		order: make([]uint, 0, cap),
	}
}

// Add adds ids to the set, keeping the position of the first occurrence.
func (s *UintSet) Add(ids ...uint) {
	if s.items == nil {
		s.items = make(map[uint]struct{}, len(ids))
	}
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := s.items[id]; ok {
			continue
		}
		s.items[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// AddPtr adds *id when id is set.
func (s *UintSet) AddPtr(id *uint) {
	if id != nil {
		s.Add(*id)
	}
}

// Has returns true if the id exists in the set.
func (s *UintSet) Has(id uint) bool {
	_, ok := s.items[id]
	return ok
}

// ToSlice returns the ids in first-seen order. The caller owns the slice.
func (s *UintSet) ToSlice() []uint {
	result := make([]uint, len(s.order))
	copy(result, s.order)
	return result
}

// Len returns the number of elements in the set.
func (s *UintSet) Len() int {
	return len(s.order)
}
