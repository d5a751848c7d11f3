package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/application/port"
	"github.com/officedrive/approvalflow/internal/domain/approval"
	"github.com/officedrive/approvalflow/internal/domain/entity"
	"github.com/officedrive/approvalflow/internal/domain/pipeline"
)

// ExecuteOptions carries the user's input for a direct action execution.
type ExecuteOptions struct {
	// Confirmed records that the user answered the confirmation prompt.
	Confirmed bool

	Message            string
	Amount             float64
	TaxableAmount      float64
	AuthorisingStaffID int64
}

// TransitionService runs one action invocation through the pipeline:
// update-flow actions open their input flow and commit via the draft-update
// endpoint; direct actions confirm, compose the full submission payload and
// PUT it to the service-execution endpoint. A failed invocation leaves the
// session intact so the user can retry from Idle.
type TransitionService interface {
	// BeginInput resolves the input flow for an update-flow action.
	BeginInput(ctx context.Context, actionID int64) (InputComponent, error)

	// SubmitInput commits the captured input against the current draft.
	SubmitInput(ctx context.Context, actionID int64, message string) error

	// ExecuteDirect confirms and submits a non-input-flow action.
	ExecuteDirect(ctx context.Context, actionID int64, opts ExecuteOptions) error

	// LastState reports the final pipeline state of the most recent
	// invocation.
	LastState() pipeline.State
}

type transitionServiceImpl struct {
	session  SessionService
	backend  port.BackendClient
	registry ComponentRegistry
	logger   *zap.Logger

	mu        sync.Mutex
	inFlight  map[int64]struct{}
	lastState pipeline.State
}

// NewTransitionService creates a transition service over the given session
// and backend client.
func NewTransitionService(
	session SessionService,
	backend port.BackendClient,
	registry ComponentRegistry,
	logger *zap.Logger,
) TransitionService {
	return &transitionServiceImpl{
		session:   session,
		backend:   backend,
		registry:  registry,
		logger:    logger,
		inFlight:  make(map[int64]struct{}),
		lastState: pipeline.StateIdle,
	}
}

func (s *transitionServiceImpl) BeginInput(ctx context.Context, actionID int64) (InputComponent, error) {
	_, action, err := s.lookupAction(actionID)
	if err != nil {
		return InputComponent{}, err
	}
	if !action.RequiresUpdateFlow() {
		return InputComponent{}, fmt.Errorf("%w: %s", ErrNoInputFlow, action.Name)
	}
	return s.registry.Resolve(action.Component)
}

func (s *transitionServiceImpl) SubmitInput(ctx context.Context, actionID int64, message string) error {
	snap, action, err := s.lookupAction(actionID)
	if err != nil {
		return err
	}
	if !action.RequiresUpdateFlow() {
		return fmt.Errorf("%w: %s", ErrNoInputFlow, action.Name)
	}
	if _, err := s.registry.Resolve(action.Component); err != nil {
		return err
	}

	draft := snap.Resolution.CurrentDraft
	release, err := s.acquire(draft.ID)
	if err != nil {
		return err
	}
	defer release()

	machine := pipeline.NewInvocation(true)
	if err := machine.Fire(ctx, pipeline.TriggerOpenInput); err != nil {
		return err
	}
	if err := machine.Fire(ctx, pipeline.TriggerSubmit); err != nil {
		return err
	}

	update := entity.DraftUpdate{
		DraftID:  draft.ID,
		ActionID: action.ID,
		Message:  message,
	}
	if err := s.backend.UpdateDraft(ctx, draft.ID, update); err != nil {
		s.fail(ctx, machine)
		s.logger.Error("draft update failed",
			zap.Int64("draft_id", draft.ID),
			zap.Int64("action_id", action.ID),
			zap.Error(err))
		return fmt.Errorf("update draft %d: %w", draft.ID, err)
	}

	s.succeed(ctx, machine)
	s.session.Clear()
	s.logger.Info("draft updated",
		zap.Int64("draft_id", draft.ID),
		zap.Int64("action_id", action.ID))
	return nil
}

func (s *transitionServiceImpl) ExecuteDirect(ctx context.Context, actionID int64, opts ExecuteOptions) error {
	snap, action, err := s.lookupAction(actionID)
	if err != nil {
		return err
	}
	if action.RequiresUpdateFlow() {
		return fmt.Errorf("%w: %s", ErrInputFlowRequired, action.Name)
	}
	if !opts.Confirmed {
		return ErrConfirmationRequired
	}

	service, err := approval.ServiceSlug(snap.Document.DocumentableType)
	if err != nil {
		return err
	}

	draft := snap.Resolution.CurrentDraft
	release, err := s.acquire(draft.ID)
	if err != nil {
		return err
	}
	defer release()

	machine := pipeline.NewInvocation(false)
	if err := machine.Fire(ctx, pipeline.TriggerConfirm); err != nil {
		return err
	}
	if err := machine.Fire(ctx, pipeline.TriggerSubmit); err != nil {
		return err
	}

	payload := s.composePayload(ctx, snap, action, service, opts)
	if err := s.backend.ExecuteAction(ctx, service, payload); err != nil {
		s.fail(ctx, machine)
		s.logger.Error("action submission failed",
			zap.String("service", service),
			zap.Int64("draft_id", draft.ID),
			zap.Int64("action_id", action.ID),
			zap.Error(err))
		return fmt.Errorf("execute action %d via %s: %w", action.ID, service, err)
	}

	s.succeed(ctx, machine)
	s.session.Clear()
	s.logger.Info("action submitted",
		zap.String("service", service),
		zap.Int64("action_id", action.ID),
		zap.String("idempotency_key", payload.IdempotencyKey))
	return nil
}

func (s *transitionServiceImpl) LastState() pipeline.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastState
}

// composePayload snapshots the session's server state into the outbound
// submission. The authorising staff id is looked up from the tracker's
// group when the caller left it unset; the lookup is best-effort.
func (s *transitionServiceImpl) composePayload(ctx context.Context, snap Snapshot, action entity.Action, service string, opts ExecuteOptions) entity.SubmissionPayload {
	state := snap.ServerState
	message := opts.Message
	if message == "" {
		message = state.Message
	}

	staffID := opts.AuthorisingStaffID
	if staffID == 0 && snap.Resolution.CurrentTracker != nil {
		staff, err := s.backend.FetchAuthorisingStaff(ctx, snap.Resolution.CurrentTracker.GroupID)
		if err != nil {
			s.logger.Warn("authorising staff lookup failed",
				zap.Int64("group_id", snap.Resolution.CurrentTracker.GroupID),
				zap.Error(err))
		} else if len(staff) > 0 {
			staffID = staff[0].ID
		}
	}

	return entity.SubmissionPayload{
		ID:                state.DocumentID,
		WorkflowID:        state.WorkflowID,
		DocumentID:        state.DocumentID,
		LastDraftID:       state.LastDraftID,
		DocumentActionID:  action.ID,
		ProgressTrackerID: state.ProgressTrackerID,
		Service:           service,
		Message:           message,
		Signature:         state.Signature,
		Amount:            opts.Amount,
		TaxableAmount:     opts.TaxableAmount,
		AuthorisingStaff:  staffID,
		ServerState: entity.NestedServerState{
			ResourceID: state.DocumentID,
			UserID:     snap.Actor.ID,
			Mode:       state.Mode,
			Data:       state.Data,
		},
		Component:      action.Component,
		IdempotencyKey: uuid.NewString(),
	}
}

// lookupAction finds the action among the current tracker's configuration.
// A disabled action is still executable here: availability is advisory for
// the UI, and the backend remains the authority.
func (s *transitionServiceImpl) lookupAction(actionID int64) (Snapshot, entity.Action, error) {
	snap := s.session.Snapshot()
	if !snap.Resolution.Ready() || snap.Document == nil || snap.Actor == nil {
		return Snapshot{}, entity.Action{}, ErrNotReady
	}
	for _, action := range snap.Resolution.CurrentTracker.Actions {
		if action.ID == actionID {
			if !snap.Verdict.Allowed {
				s.logger.Warn("executing action without access verdict",
					zap.Int64("action_id", actionID),
					zap.String("access_reason", string(snap.Verdict.Reason)))
			}
			return snap, action, nil
		}
	}
	return Snapshot{}, entity.Action{}, fmt.Errorf("%w: id %d", ErrActionNotFound, actionID)
}

// acquire takes the single-flight slot for a draft. The returned release
// must run whether the submission succeeds or fails.
func (s *transitionServiceImpl) acquire(draftID int64) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[draftID]; busy {
		return nil, fmt.Errorf("%w: draft %d", ErrSubmissionInFlight, draftID)
	}
	s.inFlight[draftID] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inFlight, draftID)
	}, nil
}

func (s *transitionServiceImpl) succeed(ctx context.Context, machine pipeline.Machine) {
	_ = machine.Fire(ctx, pipeline.TriggerSucceed)
	s.record(machine.State())
}

func (s *transitionServiceImpl) fail(ctx context.Context, machine pipeline.Machine) {
	_ = machine.Fire(ctx, pipeline.TriggerFail)
	s.record(machine.State())
}

func (s *transitionServiceImpl) record(state pipeline.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastState = state
}
