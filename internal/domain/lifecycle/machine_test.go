package lifecycle

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateSample, false},
		{StatePending, false},
		{StateRejected, false},
		{StateApproved, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	if !StateSample.IsValid() {
		t.Error("sample should be valid")
	}
	if State("READY").IsValid() {
		t.Error("customer-side vocabulary must not leak into partner states")
	}
	if State("").IsValid() {
		t.Error("empty state should be invalid")
	}
}

func TestNewMachine_RejectsInvalidInitialState(t *testing.T) {
	if _, err := NewMachine(State("bogus")); err == nil {
		t.Error("NewMachine should reject an unknown state")
	}
}

func TestMachine_HappyPath(t *testing.T) {
	m, err := NewMachine(StateSample)
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}

	if err := m.Fire(TriggerAttachFile); err != nil {
		t.Fatalf("Fire(ATTACH_FILE) error = %v", err)
	}
	if m.State() != StatePending {
		t.Errorf("state = %s, want pending", m.State())
	}

	if err := m.Fire(TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) error = %v", err)
	}
	if m.State() != StateApproved {
		t.Errorf("state = %s, want approved", m.State())
	}
}

func TestMachine_RejectAndResubmit(t *testing.T) {
	m, _ := NewMachine(StatePending)

	if err := m.Fire(TriggerReject); err != nil {
		t.Fatalf("Fire(REJECT) error = %v", err)
	}
	if err := m.Fire(TriggerAttachFile); err != nil {
		t.Fatalf("re-attach after reject error = %v", err)
	}
	if m.State() != StatePending {
		t.Errorf("state = %s, want pending", m.State())
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
	}{
		{"approve without file", StateSample, TriggerApprove},
		{"reject without file", StateSample, TriggerReject},
		{"approve twice", StateApproved, TriggerApprove},
		{"attach after approval", StateApproved, TriggerAttachFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := NewMachine(tt.from)
			err := m.Fire(tt.trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
			}
			if m.State() != tt.from {
				t.Errorf("failed transition moved state to %s", m.State())
			}
		})
	}
}

func TestMachine_CanFire(t *testing.T) {
	m, _ := NewMachine(StateSample)

	if !m.CanFire(TriggerAttachFile) {
		t.Error("CanFire(ATTACH_FILE) = false in sample state")
	}
	if m.CanFire(TriggerApprove) {
		t.Error("CanFire(APPROVE) = true in sample state")
	}
}

func TestMachine_PermittedTriggers(t *testing.T) {
	m, _ := NewMachine(StatePending)

	perms := m.PermittedTriggers()
	if len(perms) != 2 {
		t.Errorf("PermittedTriggers() = %v, want approve and reject", perms)
	}

	m, _ = NewMachine(StateApproved)
	if perms := m.PermittedTriggers(); len(perms) != 0 {
		t.Errorf("terminal state permits %v", perms)
	}
}
