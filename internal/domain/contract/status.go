package contract

import "slices"

// Status is the lifecycle state of a contract.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusActive:    true,
	StatusEnded:     true,
	StatusCancelled: true,
}

var statusTransitions = map[Status][]Status{
	StatusDraft: {
		StatusActive,
		StatusCancelled,
	},
	StatusActive: {
		StatusEnded,
		StatusCancelled,
	},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(statusTransitions[s], next)
}

// AssignmentStatus is the state of a single contract assignment.
type AssignmentStatus string

const (
	AssignmentStatusActive AssignmentStatus = "active"
	AssignmentStatusEnded  AssignmentStatus = "ended"
)

func (s AssignmentStatus) String() string {
	return string(s)
}

func (s AssignmentStatus) IsValid() bool {
	return s == AssignmentStatusActive || s == AssignmentStatusEnded
}
