// Package pipeline models one action invocation as a small state machine:
// Idle -> AwaitingInput -> Confirmed -> Submitting -> {Succeeded, Failed}.
// Failed is not terminal for the session; the user may restart from Idle.
package pipeline

// State is a phase of an action invocation.
type State string

const (
	StateIdle          State = "IDLE"
	StateAwaitingInput State = "AWAITING_INPUT"
	StateConfirmed     State = "CONFIRMED"
	StateSubmitting    State = "SUBMITTING"
	StateSucceeded     State = "SUCCEEDED"
	StateFailed        State = "FAILED"
)

var validStates = map[State]bool{
	StateIdle:          true,
	StateAwaitingInput: true,
	StateConfirmed:     true,
	StateSubmitting:    true,
	StateSucceeded:     true,
	StateFailed:        true,
}

// IsTerminal reports whether no further transitions are allowed. Only a
// successful submission ends the invocation for good.
func (s State) IsTerminal() bool {
	return s == StateSucceeded
}

// IsValid reports whether the state is one of the pipeline phases.
func (s State) IsValid() bool {
	return validStates[s]
}

func (s State) String() string {
	return string(s)
}
