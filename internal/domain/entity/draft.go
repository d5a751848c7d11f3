package entity

// Draft type values. The draft type records why the document moved: a
// normal movement, a request for the owner's attention, the owner's
// response, or a physical paper handover.
const (
	DraftTypeAttention = "attention"
	DraftTypeResponse  = "response"
	DraftTypePaper     = "paper"
)

// Draft status values.
const (
	DraftStatusPending          = "pending"
	DraftStatusResponded        = "responded"
	DraftStatusSignatureRequest = "signature-request"
	DraftStatusRejected         = "rejected"
)

// Draft is one recorded movement of a document at a tracker. Draft ids are
// monotonically assigned with no ties, so the draft with the maximum id is
// the document's current position.
type Draft struct {
	ID                    int64   `json:"id"`
	Type                  string  `json:"type"`
	Status                string  `json:"status"`
	ProgressTrackerID     int64   `json:"progress_tracker_id"`
	DepartmentID          int64   `json:"department_id"`
	DocumentDraftableType string  `json:"document_draftable_type,omitempty"`
	Upload                *Upload `json:"upload,omitempty"`
}

// Actionable reports whether the draft's status still permits stage
// actions to run against it.
func (d *Draft) Actionable() bool {
	switch d.Status {
	case DraftStatusPending, DraftStatusResponded, DraftStatusSignatureRequest:
		return true
	}
	return false
}
