package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/application/port"
	"github.com/officedrive/approvalflow/internal/application/service"
	"github.com/officedrive/approvalflow/internal/domain/approval"
	"github.com/officedrive/approvalflow/internal/domain/entity"
)

// Handlers contains all HTTP request handlers.
type Handlers struct {
	session     service.SessionService
	transitions service.TransitionService
	backend     port.BackendClient
	logger      *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	session service.SessionService,
	transitions service.TransitionService,
	backend port.BackendClient,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		session:     session,
		transitions: transitions,
		backend:     backend,
		logger:      logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LoadDocumentRequest carries a document generation into the session.
type LoadDocumentRequest struct {
	Document *entity.Document `json:"document" binding:"required"`
	Workflow *entity.Workflow `json:"workflow" binding:"required"`
	Actor    *entity.Actor    `json:"actor" binding:"required"`
}

// StateResponse summarizes the session's derived state.
type StateResponse struct {
	Ready              bool               `json:"ready"`
	CurrentDraftID     int64              `json:"current_draft_id,omitempty"`
	CurrentTrackerID   int64              `json:"current_tracker_id,omitempty"`
	CurrentOrder       int                `json:"current_order,omitempty"`
	NextTrackerID      int64              `json:"next_tracker_id,omitempty"`
	StageName          string             `json:"stage_name,omitempty"`
	GroupID            int64              `json:"group_id,omitempty"`
	HasAccess          bool               `json:"has_access"`
	AccessReason       string             `json:"access_reason"`
	NeedsSignature     bool               `json:"needs_signature"`
	SignatureSatisfied bool               `json:"signature_satisfied"`
	ServerState        entity.ServerState `json:"server_state"`
}

// ActionResponse is one annotated action.
type ActionResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ButtonText string `json:"button_text,omitempty"`
	Component  string `json:"component,omitempty"`
	HasUpdate  bool   `json:"has_update"`
	Disabled   bool   `json:"disabled"`
	Reason     string `json:"reason,omitempty"`
}

// ApplyInputRequest carries user-entered fields for the server state.
type ApplyInputRequest struct {
	Signature *string        `json:"signature"`
	Message   *string        `json:"message"`
	Mode      *string        `json:"mode"`
	Data      map[string]any `json:"data"`
}

// SubmitInputRequest carries the input flow's captured message.
type SubmitInputRequest struct {
	Message string `json:"message"`
}

// ExecuteActionRequest carries the direct execution options.
type ExecuteActionRequest struct {
	Confirmed          bool    `json:"confirmed"`
	Message            string  `json:"message"`
	Amount             float64 `json:"amount"`
	TaxableAmount      float64 `json:"taxable_amount"`
	AuthorisingStaffID int64   `json:"authorising_staff_id"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// LoadDocument handles POST /session/document.
func (h *Handlers) LoadDocument(c *gin.Context) {
	var req LoadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	snap := h.session.LoadDocument(req.Document, req.Workflow, req.Actor)
	c.JSON(http.StatusOK, Response{Success: true, Data: stateResponse(snap)})
}

// State handles GET /session/state.
func (h *Handlers) State(c *gin.Context) {
	snap := h.session.Snapshot()
	c.JSON(http.StatusOK, Response{Success: true, Data: stateResponse(snap)})
}

// ListActions handles GET /session/actions.
func (h *Handlers) ListActions(c *gin.Context) {
	snap := h.session.Snapshot()
	actions := snap.Actions()
	out := make([]ActionResponse, 0, len(actions))
	for _, aa := range actions {
		out = append(out, ActionResponse{
			ID:         aa.Action.ID,
			Name:       aa.Action.Name,
			ButtonText: aa.Action.ButtonText,
			Component:  aa.Action.Component,
			HasUpdate:  aa.Action.RequiresUpdateFlow(),
			Disabled:   aa.Disabled,
			Reason:     string(aa.Reason),
		})
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: out})
}

// ApplyInput handles POST /session/input.
func (h *Handlers) ApplyInput(c *gin.Context) {
	var req ApplyInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	snap := h.session.ApplyInput(entity.StatePartial{
		Signature: req.Signature,
		Message:   req.Message,
		Mode:      req.Mode,
		Data:      req.Data,
	})
	c.JSON(http.StatusOK, Response{Success: true, Data: stateResponse(snap)})
}

// BeginInput handles GET /session/actions/:id/input.
func (h *Handlers) BeginInput(c *gin.Context) {
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}
	component, err := h.transitions.BeginInput(c.Request.Context(), actionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: component})
}

// SubmitInput handles POST /session/actions/:id/input.
func (h *Handlers) SubmitInput(c *gin.Context) {
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}
	var req SubmitInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := h.transitions.SubmitInput(c.Request.Context(), actionID, req.Message); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ExecuteAction handles POST /session/actions/:id/execute.
func (h *Handlers) ExecuteAction(c *gin.Context) {
	actionID, ok := h.actionID(c)
	if !ok {
		return
	}
	var req ExecuteActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	err := h.transitions.ExecuteDirect(c.Request.Context(), actionID, service.ExecuteOptions{
		Confirmed:          req.Confirmed,
		Message:            req.Message,
		Amount:             req.Amount,
		TaxableAmount:      req.TaxableAmount,
		AuthorisingStaffID: req.AuthorisingStaffID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// LookupDocumentByRef handles GET /documents/ref/:reference.
func (h *Handlers) LookupDocumentByRef(c *gin.Context) {
	doc, err := h.backend.FetchDocumentByRef(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusBadGateway, Response{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: doc})
}

func (h *Handlers) actionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "invalid action id"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, service.ErrNotReady),
		errors.Is(err, service.ErrActionNotFound),
		errors.Is(err, service.ErrConfirmationRequired),
		errors.Is(err, service.ErrInputFlowRequired),
		errors.Is(err, service.ErrNoInputFlow),
		errors.Is(err, service.ErrUnknownComponent):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSubmissionInFlight):
		status = http.StatusConflict
	}
	c.JSON(status, Response{Error: err.Error()})
}

func stateResponse(snap service.Snapshot) StateResponse {
	resp := StateResponse{
		Ready:              snap.Resolution.Ready(),
		HasAccess:          snap.Verdict.Allowed,
		AccessReason:       string(snap.Verdict.Reason),
		NeedsSignature:     snap.NeedsSignature(),
		SignatureSatisfied: snap.SignatureSatisfied(),
		ServerState:        snap.ServerState,
	}
	if snap.Verdict.Reason == "" {
		resp.AccessReason = string(approval.ReasonMissingContext)
	}
	if draft := snap.Resolution.CurrentDraft; draft != nil {
		resp.CurrentDraftID = draft.ID
	}
	if tracker := snap.Resolution.CurrentTracker; tracker != nil {
		resp.CurrentTrackerID = tracker.ID
		resp.CurrentOrder = tracker.Order
		resp.GroupID = tracker.GroupID
		resp.StageName = tracker.Stage.Name
	}
	if next := snap.Resolution.NextTracker; next != nil {
		resp.NextTrackerID = next.ID
	}
	return resp
}
