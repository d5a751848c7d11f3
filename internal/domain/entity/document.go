package entity

// Document is the business record moving through approval. It is loaded
// read-only from the backend; the engine only derives state from it.
type Document struct {
	ID               int64    `json:"id"`
	WorkflowID       int64    `json:"workflow_id"`
	Drafts           []Draft  `json:"drafts"`
	DocumentableType string   `json:"documentable_type"`
	Documentable     any      `json:"documentable,omitempty"`
	Owner            *Owner   `json:"owner,omitempty"`
	CreatedBy        int64    `json:"created_by"`
	Uploads          []Upload `json:"uploads,omitempty"`
}

// Owner identifies the party the document belongs to. Owner and creator
// may differ.
type Owner struct {
	ID int64 `json:"id"`
}

// Upload is a file attached to a document or draft.
type Upload struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name,omitempty"`
	Path     string `json:"path,omitempty"`
}

// Actor is the user currently operating on the document.
type Actor struct {
	ID           int64   `json:"id"`
	GroupIDs     []int64 `json:"group_ids"`
	DepartmentID int64   `json:"department_id"`
}

// InGroup reports whether the actor belongs to the given group.
func (a *Actor) InGroup(groupID int64) bool {
	for _, id := range a.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
