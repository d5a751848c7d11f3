package service

import "errors"

var (
	// ErrNotReady is returned when an operation needs a resolved document
	// and the session has none.
	ErrNotReady = errors.New("no resolved document in session")

	// ErrActionNotFound is returned when the action id is not among the
	// current tracker's configured actions.
	ErrActionNotFound = errors.New("action not configured for current stage")

	// ErrConfirmationRequired is returned when a direct action is executed
	// without the user's explicit confirmation.
	ErrConfirmationRequired = errors.New("action requires explicit confirmation")

	// ErrSubmissionInFlight is returned when a submission for the same
	// draft is already running; duplicate clicks must not double-submit.
	ErrSubmissionInFlight = errors.New("submission already in flight for draft")

	// ErrInputFlowRequired is returned when an update-flow action is
	// executed through the direct path.
	ErrInputFlowRequired = errors.New("action requires its input flow")

	// ErrNoInputFlow is returned when BeginInput is called for an action
	// that submits directly.
	ErrNoInputFlow = errors.New("action has no input flow")
)
