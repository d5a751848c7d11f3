package approval

import (
	"reflect"
	"testing"

	"github.com/officedrive/approvalflow/internal/domain/entity"
)

func strptr(s string) *string { return &s }

func TestCompose_SeedsFromResolution(t *testing.T) {
	doc := &entity.Document{
		ID:         42,
		WorkflowID: 7,
		Drafts:     []entity.Draft{{ID: 9, ProgressTrackerID: 11}},
	}
	wf := threeStageWorkflow()
	res := Resolve(doc, wf)

	state := ComposeForDocument(entity.ServerState{}, doc, wf, res)

	if state.WorkflowID != 7 || state.DocumentID != 42 {
		t.Errorf("ids = workflow %d document %d, want 7/42", state.WorkflowID, state.DocumentID)
	}
	if state.LastDraftID != 9 {
		t.Errorf("LastDraftID = %d, want 9", state.LastDraftID)
	}
	if state.ProgressTrackerID != 11 {
		t.Errorf("ProgressTrackerID = %d, want 11", state.ProgressTrackerID)
	}
}

func TestCompose_ZeroWhenUnresolved(t *testing.T) {
	doc := &entity.Document{ID: 42, Drafts: []entity.Draft{}}
	wf := threeStageWorkflow()
	res := Resolve(doc, wf)

	state := ComposeForDocument(entity.ServerState{LastDraftID: 99, ProgressTrackerID: 98}, doc, wf, res)

	if state.LastDraftID != 0 || state.ProgressTrackerID != 0 {
		t.Errorf("unresolved ids = draft %d tracker %d, want 0/0", state.LastDraftID, state.ProgressTrackerID)
	}
}

func TestCompose_PreservesEnteredInput(t *testing.T) {
	doc := &entity.Document{ID: 42, Drafts: []entity.Draft{{ID: 9, ProgressTrackerID: 11}}}
	wf := threeStageWorkflow()
	prev := entity.ServerState{Signature: "sig", Message: "please expedite"}

	state := ComposeForDocument(prev, doc, wf, Resolve(doc, wf))

	if state.Signature != "sig" || state.Message != "please expedite" {
		t.Errorf("entered input lost across compose: %+v", state)
	}
}

func TestFill_EmptyPartialIsIdentity(t *testing.T) {
	state := entity.ServerState{
		WorkflowID:  7,
		DocumentID:  42,
		LastDraftID: 9,
		Signature:   "sig",
		Message:     "msg",
		Data:        map[string]any{"amount": 120.5},
	}

	got := Fill(state, entity.StatePartial{})

	if !reflect.DeepEqual(got, state) {
		t.Errorf("Fill(state, {}) = %+v, want unchanged %+v", got, state)
	}
}

func TestFill_SequentialMergesCompose(t *testing.T) {
	state := entity.ServerState{DocumentID: 42}
	a := entity.StatePartial{Signature: strptr("sig-a"), Message: strptr("first")}
	b := entity.StatePartial{Message: strptr("second")}

	stepwise := Fill(Fill(state, a), b)
	merged := Fill(state, entity.StatePartial{Signature: strptr("sig-a"), Message: strptr("second")})

	if !reflect.DeepEqual(stepwise, merged) {
		t.Errorf("sequential fills = %+v, want single ordered merge %+v", stepwise, merged)
	}
}

func TestFill_OverwritesOnlyPresentFields(t *testing.T) {
	state := entity.ServerState{Signature: "keep", Message: "old"}
	got := Fill(state, entity.StatePartial{Message: strptr("new")})

	if got.Signature != "keep" {
		t.Errorf("Signature = %q, want untouched %q", got.Signature, "keep")
	}
	if got.Message != "new" {
		t.Errorf("Message = %q, want %q", got.Message, "new")
	}
}
