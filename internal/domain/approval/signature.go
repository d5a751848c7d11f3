package approval

import "github.com/officedrive/approvalflow/internal/domain/entity"

// NeedsSignature reports whether the stage requires a countersignature:
// the stage carries the append-signature flag and a signatory is bound.
func NeedsSignature(tracker *entity.Tracker) bool {
	if tracker == nil {
		return false
	}
	return tracker.Stage.AppendSignature == 1 && tracker.SignatoryID > 0
}

// SignatureSatisfied reports whether the outstanding countersignature, if
// any, has been captured into the server state.
func SignatureSatisfied(tracker *entity.Tracker, state entity.ServerState) bool {
	if !NeedsSignature(tracker) {
		return true
	}
	return state.Signature != ""
}
