package approval

import "github.com/officedrive/approvalflow/internal/domain/entity"

// AccessReason explains the outcome of an access evaluation.
type AccessReason string

const (
	ReasonOK               AccessReason = "ok"
	ReasonMissingContext   AccessReason = "missing-context"
	ReasonNotInGroup       AccessReason = "not-in-group"
	ReasonWrongDepartment  AccessReason = "wrong-department"
	ReasonAwaitingResponse AccessReason = "awaiting-owner-response"
	ReasonDraftRejected    AccessReason = "draft-rejected"
)

// Verdict is an authorization decision for the current actor against the
// current draft. It is advisory: a denied verdict disables actions in the
// consuming UI, it is never raised as an error.
type Verdict struct {
	Allowed bool
	Reason  AccessReason
}

// Deny is the zero verdict for missing context.
func Deny(reason AccessReason) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}

// EvaluateAccess decides whether the actor may operate on the current
// draft. The actor must be in the tracker's group and in the draft's
// department. Drafts of type "attention" and drafts with status "rejected"
// deny everyone, including the document owner; that matches the shipped
// behavior and is preserved deliberately even though the owner arguably
// should be allowed to respond.
func EvaluateAccess(tracker *entity.Tracker, actor *entity.Actor, draft *entity.Draft) Verdict {
	if tracker == nil || actor == nil || draft == nil {
		return Deny(ReasonMissingContext)
	}

	if draft.Type == entity.DraftTypeAttention {
		return Deny(ReasonAwaitingResponse)
	}
	if draft.Status == entity.DraftStatusRejected {
		return Deny(ReasonDraftRejected)
	}

	if !actor.InGroup(tracker.GroupID) {
		return Deny(ReasonNotInGroup)
	}
	if actor.DepartmentID != draft.DepartmentID {
		return Deny(ReasonWrongDepartment)
	}

	// Response and paper drafts continue through the stage unchanged; the
	// group/department check above already decided the outcome.
	return Verdict{Allowed: true, Reason: ReasonOK}
}
