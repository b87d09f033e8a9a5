package job

import "errors"

// Status represents the lifecycle status of a job.
type Status string

const (
	StatusCreated    Status = "created"    // Registered, payload written
	StatusProcessing Status = "processing" // Post-write processing underway
	StatusDone       Status = "done"       // Processed, eligible for retention sweep
	StatusFailed     Status = "failed"     // Processing failed, payload kept
	StatusDeleted    Status = "deleted"    // Soft deleted, file reclaimed
)

// ErrInvalidTransition is returned when a status transition is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidTransitions defines the forward-only transition table. A job never
// reverts to an earlier state.
var ValidTransitions = map[Status][]Status{
	StatusCreated:    {StatusProcessing, StatusDone, StatusFailed, StatusDeleted},
	StatusProcessing: {StatusDone, StatusFailed, StatusDeleted},
	StatusDone:       {StatusDeleted},
	StatusFailed:     {StatusDeleted},
	StatusDeleted:    {},
}

// IsTerminal returns true if no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDeleted
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current status is valid.
func (s Status) CanTransitionTo(target Status) bool {
	validTargets, ok := ValidTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts the transition and returns an error if invalid.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
