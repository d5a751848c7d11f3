package entity

// Workflow is the static, ordered definition of stages a document type
// follows. Trackers are totally ordered by Order, starting at 1 and
// strictly increasing; exactly one tracker exists per order value.
type Workflow struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name,omitempty"`
	Trackers    []Tracker   `json:"trackers"`
	Signatories []Signatory `json:"signatories,omitempty"`
}

// Tracker is one instantiated stage of a workflow, carrying its authorized
// group, signatory requirement and configured actions.
type Tracker struct {
	ID          int64    `json:"id"`
	Order       int      `json:"order"`
	GroupID     int64    `json:"group_id"`
	SignatoryID int64    `json:"signatory_id"`
	Stage       Stage    `json:"stage"`
	Actions     []Action `json:"loadedActions,omitempty"`
	Widgets     any      `json:"widgets,omitempty"`
}

// Stage describes a tracker's behavior. AppendSignature is the backend's
// 0/1 flag for whether a countersignature must be appended at this stage.
type Stage struct {
	Name            string `json:"name"`
	AppendSignature int    `json:"append_signature"`
}

// Signatory is a party whose digital countersignature a stage may require.
type Signatory struct {
	ID       int64 `json:"id"`
	Position int   `json:"position,omitempty"`
}
