package pipeline

// Trigger is an event that can advance an action invocation.
type Trigger string

const (
	// TriggerOpenInput opens the action's input flow (update-flow actions).
	TriggerOpenInput Trigger = "OPEN_INPUT"

	// TriggerConfirm records the user's explicit confirmation (direct actions).
	TriggerConfirm Trigger = "CONFIRM"

	// TriggerSubmit issues the network call for the composed payload.
	TriggerSubmit Trigger = "SUBMIT"

	// TriggerSucceed records a 2xx response.
	TriggerSucceed Trigger = "SUCCEED"

	// TriggerFail records a non-2xx response or a transport error.
	TriggerFail Trigger = "FAIL"

	// TriggerReset returns a failed invocation to Idle for another attempt.
	TriggerReset Trigger = "RESET"
)

func (t Trigger) String() string {
	return string(t)
}
