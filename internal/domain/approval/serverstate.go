package approval

import "github.com/officedrive/approvalflow/internal/domain/entity"

// Compose seeds the server state from a freshly resolved document while
// preserving anything the user already entered (signature, message, mode,
// data). Absent resolution fields seed as zero so the payload is always
// well-formed.
func Compose(prev entity.ServerState, wf *entity.Workflow, res Resolution) entity.ServerState {
	next := prev
	if wf != nil {
		next.WorkflowID = wf.ID
	}
	next.DocumentID = 0
	next.LastDraftID = 0
	next.ProgressTrackerID = 0
	if res.CurrentDraft != nil {
		next.LastDraftID = res.CurrentDraft.ID
	}
	if res.CurrentTracker != nil {
		next.ProgressTrackerID = res.CurrentTracker.ID
	}
	return next
}

// ComposeForDocument is Compose with the document id carried through.
func ComposeForDocument(prev entity.ServerState, doc *entity.Document, wf *entity.Workflow, res Resolution) entity.ServerState {
	next := Compose(prev, wf, res)
	if doc != nil {
		next.DocumentID = doc.ID
	}
	return next
}

// Fill shallow-merges user input into the server state: fields present in
// the partial overwrite, all others are preserved. Fill with an empty
// partial returns the state unchanged, and sequential fills compose in
// order.
func Fill(prev entity.ServerState, partial entity.StatePartial) entity.ServerState {
	next := prev
	if partial.Signature != nil {
		next.Signature = *partial.Signature
	}
	if partial.Message != nil {
		next.Message = *partial.Message
	}
	if partial.Mode != nil {
		next.Mode = *partial.Mode
	}
	if partial.Data != nil {
		next.Data = partial.Data
	}
	return next
}
