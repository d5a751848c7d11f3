package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/application/service"
	"github.com/officedrive/approvalflow/internal/domain/entity"
)

type stubBackend struct {
	executed []entity.SubmissionPayload
	updated  []entity.DraftUpdate
	failNext bool
}

func (s *stubBackend) ExecuteAction(ctx context.Context, svc string, payload entity.SubmissionPayload) error {
	if s.failNext {
		return errors.New("status 500")
	}
	s.executed = append(s.executed, payload)
	return nil
}

func (s *stubBackend) UpdateDraft(ctx context.Context, draftID int64, update entity.DraftUpdate) error {
	s.updated = append(s.updated, update)
	return nil
}

func (s *stubBackend) FetchDocumentByRef(ctx context.Context, reference string) (*entity.Document, error) {
	if reference != "CLM-2026-0042" {
		return nil, errors.New("not found")
	}
	return &entity.Document{ID: 42, WorkflowID: 7}, nil
}

func (s *stubBackend) FetchAuthorisingStaff(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error) {
	return []entity.AuthorisingStaff{{ID: 77}}, nil
}

func newTestServer(backend *stubBackend) *Server {
	logger := zap.NewNop()
	session := service.NewSessionService(logger)
	transitions := service.NewTransitionService(session, backend, service.DefaultComponentRegistry(), logger)
	return NewServer(DefaultServerConfig(), session, transitions, backend, logger)
}

func loadRequestBody() []byte {
	req := LoadDocumentRequest{
		Document: &entity.Document{
			ID:               42,
			WorkflowID:       7,
			DocumentableType: "App\\Models\\Claim",
			Drafts: []entity.Draft{
				{ID: 9, Status: entity.DraftStatusPending, ProgressTrackerID: 10, DepartmentID: 3},
			},
		},
		Workflow: &entity.Workflow{
			ID: 7,
			Trackers: []entity.Tracker{
				{
					ID: 10, Order: 1, GroupID: 100,
					Stage: entity.Stage{Name: "Registry"},
					Actions: []entity.Action{
						{ID: 1, Name: "Approve", ActionStatus: entity.ActionStatusPassed},
						{ID: 2, Name: "Query", ActionStatus: entity.ActionStatusStalled, HasUpdate: 1, Component: "respond-form"},
					},
				},
				{ID: 11, Order: 2, GroupID: 101, Stage: entity.Stage{Name: "Sign-off"}},
			},
		},
		Actor: &entity.Actor{ID: 50, GroupIDs: []int64{100}, DepartmentID: 3},
	}
	body, _ := json.Marshal(req)
	return body
}

func doJSON(t *testing.T, server *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestLoadDocumentAndState(t *testing.T) {
	server := newTestServer(&stubBackend{})

	rec := doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool          `json:"success"`
		Data    StateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Ready)
	assert.Equal(t, int64(9), resp.Data.CurrentDraftID)
	assert.Equal(t, int64(10), resp.Data.CurrentTrackerID)
	assert.Equal(t, int64(11), resp.Data.NextTrackerID)
	assert.True(t, resp.Data.HasAccess)
}

func TestListActions(t *testing.T) {
	server := newTestServer(&stubBackend{})
	doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())

	rec := doJSON(t, server, http.MethodGet, "/session/actions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []ActionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.False(t, resp.Data[0].Disabled)
	assert.True(t, resp.Data[1].HasUpdate)
}

func TestExecuteAction(t *testing.T) {
	backend := &stubBackend{}
	server := newTestServer(backend)
	doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())

	body, _ := json.Marshal(ExecuteActionRequest{Confirmed: true, Message: "ok"})
	rec := doJSON(t, server, http.MethodPost, "/session/actions/1/execute", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, backend.executed, 1)
	assert.Equal(t, "claims", backend.executed[0].Service)
}

func TestExecuteAction_WithoutConfirmation(t *testing.T) {
	server := newTestServer(&stubBackend{})
	doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())

	body, _ := json.Marshal(ExecuteActionRequest{Confirmed: false})
	rec := doJSON(t, server, http.MethodPost, "/session/actions/1/execute", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmitInput(t *testing.T) {
	backend := &stubBackend{}
	server := newTestServer(backend)
	doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())

	body, _ := json.Marshal(SubmitInputRequest{Message: "need invoice"})
	rec := doJSON(t, server, http.MethodPost, "/session/actions/2/input", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, backend.updated, 1)
	assert.Equal(t, "need invoice", backend.updated[0].Message)
}

func TestBeginInput(t *testing.T) {
	server := newTestServer(&stubBackend{})
	doJSON(t, server, http.MethodPost, "/session/document", loadRequestBody())

	rec := doJSON(t, server, http.MethodGet, "/session/actions/2/input", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "respond-form")

	rec = doJSON(t, server, http.MethodGet, "/session/actions/1/input", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLookupDocumentByRef(t *testing.T) {
	server := newTestServer(&stubBackend{})

	rec := doJSON(t, server, http.MethodGet, "/documents/ref/CLM-2026-0042", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/documents/ref/NOPE", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(&stubBackend{})
	rec := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
