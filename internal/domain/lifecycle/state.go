// Package lifecycle models the partner-side report state machine:
// a sample is registered, a result file is attached, and the account owner
// approves or rejects it. Approval is the only step that makes a report
// customer-visible, via the bridge projection.
package lifecycle

// State is a partner-side report status. Customers never see these values;
// the customer projection collapses everything approved to a single "ready".
type State string

const (
	// StateSample: sample registered, no result file yet
	StateSample State = "sample"

	// StatePending: result file attached, awaiting owner approval
	StatePending State = "pending"

	// StateApproved: promoted to the customer-visible approved collection
	StateApproved State = "approved"

	// StateRejected: owner declined the result; the partner may re-attach
	StateRejected State = "rejected"
)

var validStates = map[State]bool{
	StateSample:   true,
	StatePending:  true,
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if no further transitions are allowed.
func (s State) IsTerminal() bool {
	return s == StateApproved
}

// IsValid returns true if the state is a known report state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
