package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/domain/approval"
	"github.com/officedrive/approvalflow/internal/domain/entity"
)

// Snapshot is one consistent generation of derived state: the resolution
// and the server state seeded from the same document reference.
type Snapshot struct {
	Document    *entity.Document
	Workflow    *entity.Workflow
	Actor       *entity.Actor
	Resolution  approval.Resolution
	ServerState entity.ServerState
	Verdict     approval.Verdict
}

// NeedsSignature reports whether a countersignature is outstanding for the
// snapshot's current tracker.
func (s Snapshot) NeedsSignature() bool {
	return approval.NeedsSignature(s.Resolution.CurrentTracker)
}

// SignatureSatisfied reports whether the outstanding countersignature, if
// any, has been captured.
func (s Snapshot) SignatureSatisfied() bool {
	return approval.SignatureSatisfied(s.Resolution.CurrentTracker, s.ServerState)
}

// Actions returns the current tracker's actions annotated with their
// availability verdicts.
func (s Snapshot) Actions() []approval.AnnotatedAction {
	if s.Resolution.CurrentTracker == nil {
		return []approval.AnnotatedAction{}
	}
	status := ""
	if s.Resolution.CurrentDraft != nil {
		status = s.Resolution.CurrentDraft.Status
	}
	return approval.AnnotateActions(
		s.Resolution.CurrentTracker.Actions,
		s.Verdict,
		s.NeedsSignature(),
		s.SignatureSatisfied(),
		status,
	)
}

// SessionService holds the engine's per-document state. A document load
// recomputes the resolution and reseeds the server state as one atomic
// generation, so no derivation ever observes a stale document alongside a
// fresh one.
type SessionService interface {
	// LoadDocument swaps in a new document generation. Previously entered
	// signature/message survive the reseed.
	LoadDocument(doc *entity.Document, wf *entity.Workflow, actor *entity.Actor) Snapshot

	// Snapshot returns the current generation.
	Snapshot() Snapshot

	// ApplyInput merges user-entered fields into the server state.
	ApplyInput(partial entity.StatePartial) Snapshot

	// Clear drops all session state; called after a successful submission
	// so the reloaded document restarts derivation from scratch.
	Clear()
}

type sessionServiceImpl struct {
	mu       sync.RWMutex
	snapshot Snapshot
	logger   *zap.Logger
}

// NewSessionService creates an empty session.
func NewSessionService(logger *zap.Logger) SessionService {
	return &sessionServiceImpl{logger: logger}
}

func (s *sessionServiceImpl) LoadDocument(doc *entity.Document, wf *entity.Workflow, actor *entity.Actor) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := approval.Resolve(doc, wf)
	state := approval.ComposeForDocument(s.snapshot.ServerState, doc, wf, res)
	verdict := approval.EvaluateAccess(res.CurrentTracker, actor, res.CurrentDraft)

	s.snapshot = Snapshot{
		Document:    doc,
		Workflow:    wf,
		Actor:       actor,
		Resolution:  res,
		ServerState: state,
		Verdict:     verdict,
	}

	if s.logger != nil {
		s.logger.Info("document loaded",
			zap.Int64("document_id", state.DocumentID),
			zap.Int64("last_draft_id", state.LastDraftID),
			zap.Int64("progress_tracker_id", state.ProgressTrackerID),
			zap.Bool("has_access", verdict.Allowed),
			zap.String("access_reason", string(verdict.Reason)))
	}
	return s.snapshot
}

func (s *sessionServiceImpl) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *sessionServiceImpl) ApplyInput(partial entity.StatePartial) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ServerState = approval.Fill(s.snapshot.ServerState, partial)
	return s.snapshot
}

func (s *sessionServiceImpl) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}
