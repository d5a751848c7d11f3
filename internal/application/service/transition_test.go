package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/domain/entity"
	"github.com/officedrive/approvalflow/internal/domain/pipeline"
)

// Mock backend client
type mockBackend struct {
	executeFunc func(ctx context.Context, service string, payload entity.SubmissionPayload) error
	updateFunc  func(ctx context.Context, draftID int64, update entity.DraftUpdate) error
	refFunc     func(ctx context.Context, reference string) (*entity.Document, error)
	staffFunc   func(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error)
}

func (m *mockBackend) ExecuteAction(ctx context.Context, service string, payload entity.SubmissionPayload) error {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, service, payload)
	}
	return nil
}

func (m *mockBackend) UpdateDraft(ctx context.Context, draftID int64, update entity.DraftUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, draftID, update)
	}
	return nil
}

func (m *mockBackend) FetchDocumentByRef(ctx context.Context, reference string) (*entity.Document, error) {
	if m.refFunc != nil {
		return m.refFunc(ctx, reference)
	}
	return nil, errors.New("not found")
}

func (m *mockBackend) FetchAuthorisingStaff(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error) {
	if m.staffFunc != nil {
		return m.staffFunc(ctx, groupID)
	}
	return nil, nil
}

func loadedSession(t *testing.T) SessionService {
	t.Helper()
	session := NewSessionService(zap.NewNop())
	session.LoadDocument(testDocument(10), testWorkflow(), testActor())
	return session
}

func newTransitions(session SessionService, backend *mockBackend) TransitionService {
	return NewTransitionService(session, backend, DefaultComponentRegistry(), zap.NewNop())
}

func TestExecuteDirect_ComposesAndSubmits(t *testing.T) {
	session := loadedSession(t)
	sig := "signed"
	session.ApplyInput(entity.StatePartial{Signature: &sig})

	var gotService string
	var gotPayload entity.SubmissionPayload
	backend := &mockBackend{
		executeFunc: func(ctx context.Context, service string, payload entity.SubmissionPayload) error {
			gotService = service
			gotPayload = payload
			return nil
		},
		staffFunc: func(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error) {
			assert.Equal(t, int64(100), groupID)
			return []entity.AuthorisingStaff{{ID: 77, Name: "Head of Registry"}}, nil
		},
	}
	transitions := newTransitions(session, backend)

	err := transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{
		Confirmed: true,
		Message:   "approved as presented",
		Amount:    120.50,
	})
	require.NoError(t, err)

	assert.Equal(t, "claims", gotService)
	assert.Equal(t, int64(42), gotPayload.DocumentID)
	assert.Equal(t, int64(9), gotPayload.LastDraftID)
	assert.Equal(t, int64(1), gotPayload.DocumentActionID)
	assert.Equal(t, int64(10), gotPayload.ProgressTrackerID)
	assert.Equal(t, "approved as presented", gotPayload.Message)
	assert.Equal(t, "signed", gotPayload.Signature)
	assert.Equal(t, int64(77), gotPayload.AuthorisingStaff)
	assert.Equal(t, int64(50), gotPayload.ServerState.UserID)
	assert.NotEmpty(t, gotPayload.IdempotencyKey)

	assert.Equal(t, pipeline.StateSucceeded, transitions.LastState())
	assert.Nil(t, session.Snapshot().Document, "session must be cleared after success")
}

func TestExecuteDirect_DistinctIdempotencyKeys(t *testing.T) {
	var keys []string
	backend := &mockBackend{
		executeFunc: func(ctx context.Context, service string, payload entity.SubmissionPayload) error {
			keys = append(keys, payload.IdempotencyKey)
			return nil
		},
	}

	for i := 0; i < 2; i++ {
		session := loadedSession(t)
		transitions := newTransitions(session, backend)
		require.NoError(t, transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true}))
	}

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestExecuteDirect_RequiresConfirmation(t *testing.T) {
	transitions := newTransitions(loadedSession(t), &mockBackend{})

	err := transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{})
	assert.ErrorIs(t, err, ErrConfirmationRequired)
}

func TestExecuteDirect_RejectsUpdateFlowAction(t *testing.T) {
	transitions := newTransitions(loadedSession(t), &mockBackend{})

	err := transitions.ExecuteDirect(context.Background(), 2, ExecuteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrInputFlowRequired)
}

func TestExecuteDirect_BackendFailure(t *testing.T) {
	session := loadedSession(t)
	backend := &mockBackend{
		executeFunc: func(ctx context.Context, service string, payload entity.SubmissionPayload) error {
			return errors.New("status 500")
		},
	}
	transitions := newTransitions(session, backend)

	err := transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true})
	require.Error(t, err)

	assert.Equal(t, pipeline.StateFailed, transitions.LastState())
	assert.NotNil(t, session.Snapshot().Document, "session survives a failed submission")

	// The user may retry after a failure.
	backend.executeFunc = nil
	assert.NoError(t, transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true}))
}

func TestExecuteDirect_StaffLookupIsBestEffort(t *testing.T) {
	var gotPayload entity.SubmissionPayload
	backend := &mockBackend{
		executeFunc: func(ctx context.Context, service string, payload entity.SubmissionPayload) error {
			gotPayload = payload
			return nil
		},
		staffFunc: func(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error) {
			return nil, errors.New("lookup unavailable")
		},
	}
	transitions := newTransitions(loadedSession(t), backend)

	require.NoError(t, transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true}))
	assert.Zero(t, gotPayload.AuthorisingStaff)
}

func TestSubmitInput_CommitsDraftUpdate(t *testing.T) {
	session := loadedSession(t)
	var gotDraftID int64
	var gotUpdate entity.DraftUpdate
	backend := &mockBackend{
		updateFunc: func(ctx context.Context, draftID int64, update entity.DraftUpdate) error {
			gotDraftID = draftID
			gotUpdate = update
			return nil
		},
	}
	transitions := newTransitions(session, backend)

	require.NoError(t, transitions.SubmitInput(context.Background(), 2, "need the original invoice"))

	assert.Equal(t, int64(9), gotDraftID)
	assert.Equal(t, int64(9), gotUpdate.DraftID)
	assert.Equal(t, int64(2), gotUpdate.ActionID)
	assert.Equal(t, "need the original invoice", gotUpdate.Message)
	assert.Equal(t, pipeline.StateSucceeded, transitions.LastState())
}

func TestSubmitInput_FailureLeavesSession(t *testing.T) {
	session := loadedSession(t)
	backend := &mockBackend{
		updateFunc: func(ctx context.Context, draftID int64, update entity.DraftUpdate) error {
			return errors.New("status 422")
		},
	}
	transitions := newTransitions(session, backend)

	err := transitions.SubmitInput(context.Background(), 2, "msg")
	require.Error(t, err)
	assert.Equal(t, pipeline.StateFailed, transitions.LastState())
	assert.NotNil(t, session.Snapshot().Document)
}

func TestSubmitInput_UnknownComponent(t *testing.T) {
	session := NewSessionService(zap.NewNop())
	wf := testWorkflow()
	wf.Trackers[0].Actions = append(wf.Trackers[0].Actions,
		entity.Action{ID: 3, Name: "Mystery", HasUpdate: 1, Component: "mystery-widget"})
	session.LoadDocument(testDocument(10), wf, testActor())
	transitions := newTransitions(session, &mockBackend{})

	err := transitions.SubmitInput(context.Background(), 3, "msg")
	assert.ErrorIs(t, err, ErrUnknownComponent)
}

func TestBeginInput(t *testing.T) {
	transitions := newTransitions(loadedSession(t), &mockBackend{})

	component, err := transitions.BeginInput(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "respond-form", component.Name)

	_, err = transitions.BeginInput(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoInputFlow)
}

func TestTransition_SessionNotReady(t *testing.T) {
	transitions := newTransitions(NewSessionService(zap.NewNop()), &mockBackend{})

	err := transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestTransition_ActionNotFound(t *testing.T) {
	transitions := newTransitions(loadedSession(t), &mockBackend{})

	err := transitions.ExecuteDirect(context.Background(), 999, ExecuteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestExecuteDirect_SingleFlightPerDraft(t *testing.T) {
	session := loadedSession(t)

	started := make(chan struct{})
	release := make(chan struct{})
	backend := &mockBackend{
		executeFunc: func(ctx context.Context, service string, payload entity.SubmissionPayload) error {
			close(started)
			<-release
			return nil
		},
	}
	transitions := newTransitions(session, backend)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true})
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never started")
	}

	err := transitions.ExecuteDirect(context.Background(), 1, ExecuteOptions{Confirmed: true})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	wg.Wait()
}
