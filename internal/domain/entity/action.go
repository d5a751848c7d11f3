package entity

// Action status tags configured per action in the workflow definition.
const (
	ActionStatusStalled = "stalled"
	ActionStatusPassed  = "passed"
)

// Action is an operation a tracker permits. Actions are immutable per
// workflow definition; availability is annotated at evaluation time, never
// written back onto the action itself.
type Action struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	HasUpdate    int    `json:"has_update"`
	ActionStatus string `json:"action_status"`
	Category     string `json:"category,omitempty"`
	Component    string `json:"component,omitempty"`
	ButtonText   string `json:"button_text,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Variant      string `json:"variant,omitempty"`
}

// RequiresUpdateFlow reports whether invoking the action opens an
// action-specific input flow instead of a direct confirm-and-submit.
func (a *Action) RequiresUpdateFlow() bool {
	return a.HasUpdate == 1
}
