package batch

// State is the lifecycle state of a production batch
type State string

const (
	// StateBlocked is the initial state: the batch is held back until all
	// required inputs are consolidated and quality signs it off
	StateBlocked State = "BLOCKED"

	// StateApproved is terminal: the batch passed quality control and is
	// released for shipment
	StateApproved State = "APPROVED"

	// StateDiscarded is terminal: the batch was rejected and must carry at
	// least one attributed discard reason
	StateDiscarded State = "DISCARDED"
)

// IsTerminal reports whether no further transition exists out of the state
func (s State) IsTerminal() bool {
	return s == StateApproved || s == StateDiscarded
}

// DiscardActor identifies who rejected a batch
type DiscardActor string

const (
	// ActorLaboratory rejects based on chemical or microbiological analysis
	ActorLaboratory DiscardActor = "LABORATORY"

	// ActorQualityControl rejects based on inspections on the factory floor
	ActorQualityControl DiscardActor = "QUALITY_CONTROL"
)

// DiscardReason is an immutable attributed justification for rejecting a
// batch. Multiple reasons from different actors may co-exist on a discarded
// batch; the list is append-only.
type DiscardReason struct {
	Actor  DiscardActor `json:"actor"`
	Reason string       `json:"reason"`
}
