package pipeline

// NewInvocation builds the transition graph for a single action invocation.
// Update-flow actions pass through AwaitingInput; direct actions are
// confirmed and submitted. A failed submission can be reset and retried;
// success is terminal.
func NewInvocation(requiresInput bool) Machine {
	b := NewBuilder()

	idle := b.Configure(StateIdle)
	if requiresInput {
		idle.Permit(TriggerOpenInput, StateAwaitingInput)
	} else {
		idle.Permit(TriggerConfirm, StateConfirmed)
	}

	b.Configure(StateAwaitingInput).
		Permit(TriggerSubmit, StateSubmitting)

	b.Configure(StateConfirmed).
		Permit(TriggerSubmit, StateSubmitting)

	b.Configure(StateSubmitting).
		Permit(TriggerSucceed, StateSucceeded).
		Permit(TriggerFail, StateFailed)

	b.Configure(StateFailed).
		Permit(TriggerReset, StateIdle)

	return b.Build(StateIdle)
}
