package entity

// ServerState is the transient accumulator for an in-flight action. It is
// built incrementally while a document is loaded and destroyed once
// submission succeeds; nothing in it is ever persisted locally.
type ServerState struct {
	WorkflowID        int64          `json:"workflow_id"`
	DocumentID        int64          `json:"document_id"`
	LastDraftID       int64          `json:"last_draft_id"`
	ProgressTrackerID int64          `json:"progress_tracker_id"`
	Signature         string         `json:"signature,omitempty"`
	Message           string         `json:"message,omitempty"`
	Mode              string         `json:"mode,omitempty"`
	Data              map[string]any `json:"data,omitempty"`
}

// StatePartial carries user-entered fields to merge into a ServerState.
// Nil pointers mean "leave as is".
type StatePartial struct {
	Signature *string
	Message   *string
	Mode      *string
	Data      map[string]any
}

// SubmissionPayload is the outbound record sent to the backend when an
// action executes. Field names match the execution endpoint's contract.
type SubmissionPayload struct {
	ID                int64             `json:"id"`
	WorkflowID        int64             `json:"workflow_id"`
	DocumentID        int64             `json:"document_id"`
	LastDraftID       int64             `json:"last_draft_id"`
	DocumentActionID  int64             `json:"document_action_id"`
	ProgressTrackerID int64             `json:"progress_tracker_id"`
	Service           string            `json:"service"`
	Message           string            `json:"message,omitempty"`
	Signature         string            `json:"signature,omitempty"`
	Amount            float64           `json:"amount,omitempty"`
	TaxableAmount     float64           `json:"taxable_amount,omitempty"`
	AuthorisingStaff  int64             `json:"authorising_staff_id,omitempty"`
	ServerState       NestedServerState `json:"serverState"`
	Component         string            `json:"component,omitempty"`
	IdempotencyKey    string            `json:"idempotency_key,omitempty"`
}

// NestedServerState is the mode/data record nested inside a submission.
type NestedServerState struct {
	ResourceID int64          `json:"resource_id"`
	UserID     int64          `json:"user_id"`
	Mode       string         `json:"mode,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// DraftUpdate is the body committed against the draft-update endpoint when
// an input-flow action completes.
type DraftUpdate struct {
	DraftID  int64  `json:"draft_id"`
	ActionID int64  `json:"action_id"`
	Message  string `json:"message,omitempty"`
}
