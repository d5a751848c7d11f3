// Package approval derives a document's current workflow position and the
// set of permitted operations from in-memory data. Every function in this
// package is pure: identical inputs always yield identical outputs, and
// missing inputs resolve to zero values rather than errors so the consuming
// layer can render a "not ready" state without crashing.
package approval

import (
	"github.com/officedrive/approvalflow/internal/domain/entity"
)

// Resolution is the derived position of a document inside its workflow.
// It is recomputed wholesale whenever the document reference changes,
// never patched incrementally.
type Resolution struct {
	Workflow       *entity.Workflow
	CurrentDraft   *entity.Draft
	CurrentTracker *entity.Tracker
	NextTracker    *entity.Tracker
	Stage          *entity.Stage
	GroupID        int64
	Uploads        []entity.Upload
	Signatories    []entity.Signatory
}

// Ready reports whether the document resolved to a tracker the engine can
// operate on.
func (r Resolution) Ready() bool {
	return r.CurrentTracker != nil && r.CurrentDraft != nil
}

// Resolve locates the document's current draft and the tracker it belongs
// to. The current draft is the one with the maximum id; the current tracker
// is the workflow tracker whose id matches the draft's progress tracker;
// the next tracker is the one at order+1, absent at the terminal stage.
func Resolve(doc *entity.Document, wf *entity.Workflow) Resolution {
	if doc == nil || wf == nil {
		return Resolution{}
	}

	res := Resolution{
		Workflow:    wf,
		Uploads:     doc.Uploads,
		Signatories: wf.Signatories,
	}

	res.CurrentDraft = latestDraft(doc.Drafts)
	if res.CurrentDraft == nil {
		return res
	}

	for i := range wf.Trackers {
		if wf.Trackers[i].ID == res.CurrentDraft.ProgressTrackerID {
			res.CurrentTracker = &wf.Trackers[i]
			break
		}
	}
	if res.CurrentTracker == nil {
		return res
	}

	res.Stage = &res.CurrentTracker.Stage
	res.GroupID = res.CurrentTracker.GroupID

	for i := range wf.Trackers {
		if wf.Trackers[i].Order == res.CurrentTracker.Order+1 {
			res.NextTracker = &wf.Trackers[i]
			break
		}
	}
	return res
}

// latestDraft returns the draft with the maximum id, nil when the slice is
// empty. Draft ids are monotonically assigned with no ties.
func latestDraft(drafts []entity.Draft) *entity.Draft {
	var latest *entity.Draft
	for i := range drafts {
		if latest == nil || drafts[i].ID > latest.ID {
			latest = &drafts[i]
		}
	}
	return latest
}
