package batch

import (
	"time"

	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

// StateMachine manages the lifecycle transitions of a production batch:
// BLOCKED -> APPROVED or BLOCKED -> DISCARDED, both terminal.
//
// This component uses composition to keep transition rules in one place;
// the Batch aggregate embeds it and delegates Approve/Discard.
//
// Invariants:
// - No transition exists out of a terminal state
// - The discard-reason list is non-empty if and only if state is DISCARDED
// - Pending reasons are consumed by Discard and cleared by Approve
type StateMachine struct {
	batchID     string
	state       State
	reasons     []DiscardReason
	pending     []DiscardReason
	finalizedAt *time.Time
	clock       shared.Clock
}

// NewStateMachine creates a state machine in BLOCKED state
func NewStateMachine(batchID string, clock shared.Clock) *StateMachine {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StateMachine{
		batchID: batchID,
		state:   StateBlocked,
		clock:   clock,
	}
}

// State returns the current lifecycle state
func (sm *StateMachine) State() State {
	return sm.state
}

// DiscardReasons returns the committed reasons of a discarded batch
func (sm *StateMachine) DiscardReasons() []DiscardReason {
	out := make([]DiscardReason, len(sm.reasons))
	copy(out, sm.reasons)
	return out
}

// PendingReasons returns reasons noted by actors before finalization
func (sm *StateMachine) PendingReasons() []DiscardReason {
	out := make([]DiscardReason, len(sm.pending))
	copy(out, sm.pending)
	return out
}

// FinalizedAt returns when the batch reached a terminal state (nil if still blocked)
func (sm *StateMachine) FinalizedAt() *time.Time {
	return sm.finalizedAt
}

// IsTerminal reports whether the batch reached APPROVED or DISCARDED
func (sm *StateMachine) IsTerminal() bool {
	return sm.state.IsTerminal()
}

// NoteReason records a pending discard reason without changing state.
// Pending reasons are consumed on Discard and dropped on Approve.
func (sm *StateMachine) NoteReason(reason DiscardReason) error {
	if sm.state.IsTerminal() {
		return &ErrInvalidTransition{BatchID: sm.batchID, From: sm.state, To: sm.state}
	}
	sm.pending = append(sm.pending, reason)
	return nil
}

// Approve transitions BLOCKED -> APPROVED. Approval is authoritative and
// final: pending reasons that were never committed are dropped.
func (sm *StateMachine) Approve() error {
	if sm.state != StateBlocked {
		return &ErrInvalidTransition{BatchID: sm.batchID, From: sm.state, To: StateApproved}
	}
	now := sm.clock.Now()
	sm.state = StateApproved
	sm.pending = nil
	sm.finalizedAt = &now
	return nil
}

// Discard transitions BLOCKED -> DISCARDED, committing the supplied reasons
// together with any pending ones. The supplied list must be non-empty.
func (sm *StateMachine) Discard(reasons []DiscardReason) error {
	if sm.state != StateBlocked {
		return &ErrInvalidTransition{BatchID: sm.batchID, From: sm.state, To: StateDiscarded}
	}
	if len(reasons) == 0 {
		return &ErrMissingDiscardReason{BatchID: sm.batchID}
	}
	now := sm.clock.Now()
	sm.reasons = append(sm.reasons, sm.pending...)
	sm.reasons = append(sm.reasons, reasons...)
	sm.pending = nil
	sm.state = StateDiscarded
	sm.finalizedAt = &now
	return nil
}

// RecoverFromPersistence restores the machine from persisted data.
// Only for use by repository reconstruction, not during normal operation.
func (sm *StateMachine) RecoverFromPersistence(state State, reasons, pending []DiscardReason, finalizedAt *time.Time) {
	sm.state = state
	sm.reasons = reasons
	sm.pending = pending
	sm.finalizedAt = finalizedAt
}
