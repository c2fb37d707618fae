// Package drill implements the formation state machine: the drill states,
// the transition table keyed by maneuver, and the Machine that applies
// catalog commands to a flight.
package drill

// State is the drill state of the flight.
type State int

const (
	StateNone State = iota
	StateForming
	StateHaltedAtAttention
	StateHaltedAtRest
	StateHaltedInFormation
	StateMarchingForward
	StateMarchingOther
	StateFacing
	StateColumnMovement
	StateFlanking
)

// String returns the state name used in feedback, telemetry and palettes.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateForming:
		return "forming"
	case StateHaltedAtAttention:
		return "halted_at_attention"
	case StateHaltedAtRest:
		return "halted_at_rest"
	case StateHaltedInFormation:
		return "halted_in_formation"
	case StateMarchingForward:
		return "marching_forward"
	case StateMarchingOther:
		return "marching_other"
	case StateFacing:
		return "facing"
	case StateColumnMovement:
		return "column_movement"
	case StateFlanking:
		return "flanking"
	default:
		return "unknown"
	}
}

// Marching reports whether the state belongs to the marching class. Every
// other state is halted for command precondition purposes.
func (s State) Marching() bool {
	switch s {
	case StateMarchingForward, StateMarchingOther, StateColumnMovement, StateFlanking:
		return true
	default:
		return false
	}
}

// AllStates lists every drill state.
func AllStates() []State {
	return []State{
		StateNone,
		StateForming,
		StateHaltedAtAttention,
		StateHaltedAtRest,
		StateHaltedInFormation,
		StateMarchingForward,
		StateMarchingOther,
		StateFacing,
		StateColumnMovement,
		StateFlanking,
	}
}
