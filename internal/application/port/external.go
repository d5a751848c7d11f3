// Package port declares the outbound interfaces the application layer
// depends on. Implementations live under internal/infrastructure.
package port

import (
	"context"

	"github.com/officedrive/approvalflow/internal/domain/entity"
)

// BackendClient is the document service the engine submits actions to.
// All calls are synchronous; callers pass a context with a deadline.
type BackendClient interface {
	// ExecuteAction PUTs the composed payload to the service-execution
	// endpoint named by the service slug.
	ExecuteAction(ctx context.Context, service string, payload entity.SubmissionPayload) error

	// UpdateDraft commits an input-flow action's data against the draft.
	UpdateDraft(ctx context.Context, draftID int64, update entity.DraftUpdate) error

	// FetchDocumentByRef looks up a document by its reference string; used
	// by the parent-document attach flow.
	FetchDocumentByRef(ctx context.Context, reference string) (*entity.Document, error)

	// FetchAuthorisingStaff lists the staff who may authorise submissions
	// for a group.
	FetchAuthorisingStaff(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error)
}
