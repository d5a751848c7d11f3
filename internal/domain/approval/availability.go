package approval

import "github.com/officedrive/approvalflow/internal/domain/entity"

// DisableReason explains why an annotated action is disabled.
type DisableReason string

const (
	DisableNone             DisableReason = ""
	DisableAccessDenied     DisableReason = "access-denied"
	DisableSignatureMissing DisableReason = "signature-missing"
	DisableDraftStatus      DisableReason = "draft-status"
)

// AnnotatedAction pairs a stage-configured action with its availability
// verdict. The action itself is never mutated.
type AnnotatedAction struct {
	Action   entity.Action
	Disabled bool
	Reason   DisableReason
}

// AnnotateActions annotates each configured action with an enabled/disabled
// verdict. The result is order-preserving and one-to-one with the input:
// no action is ever dropped, so a caller can always inspect why an action
// is unavailable.
func AnnotateActions(actions []entity.Action, verdict Verdict, needsSig, sigOK bool, draftStatus string) []AnnotatedAction {
	annotated := make([]AnnotatedAction, 0, len(actions))
	for _, action := range actions {
		aa := AnnotatedAction{Action: action}
		switch {
		case !verdict.Allowed:
			aa.Disabled = true
			aa.Reason = DisableAccessDenied
		case needsSig && !sigOK && action.ActionStatus == entity.ActionStatusPassed:
			aa.Disabled = true
			aa.Reason = DisableSignatureMissing
		case !statusActionable(draftStatus):
			aa.Disabled = true
			aa.Reason = DisableDraftStatus
		}
		annotated = append(annotated, aa)
	}
	return annotated
}

func statusActionable(status string) bool {
	switch status {
	case entity.DraftStatusResponded, entity.DraftStatusSignatureRequest, entity.DraftStatusPending:
		return true
	}
	return false
}
