package lifecycle

import (
	"errors"
	"fmt"
)

// Trigger is an event that can move a report between states.
type Trigger string

const (
	TriggerAttachFile Trigger = "ATTACH_FILE"
	TriggerApprove    Trigger = "APPROVE"
	TriggerReject     Trigger = "REJECT"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}

// ErrInvalidTransition is returned when a trigger is not permitted in the
// current state.
var ErrInvalidTransition = errors.New("invalid report state transition")

var transitions = map[State]map[Trigger]State{
	StateSample: {
		TriggerAttachFile: StatePending,
	},
	StatePending: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
	StateRejected: {
		TriggerAttachFile: StatePending,
	},
}

// Machine tracks the current state of one report and validates transitions.
type Machine struct {
	current State
}

// NewMachine creates a machine positioned at the given state.
func NewMachine(initial State) (*Machine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("invalid initial state: %s", initial)
	}
	return &Machine{current: initial}, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current state.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := transitions[m.current][trigger]
	return ok
}

// Fire executes the trigger, moving to the target state if permitted.
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = next
	return nil
}

// PermittedTriggers returns the triggers that can fire in the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	perms := transitions[m.current]
	out := make([]Trigger, 0, len(perms))
	for t := range perms {
		out = append(out, t)
	}
	return out
}
