package entity

// AuthorisingStaff is a member of a tracker's group who may authorise the
// submission on its behalf.
type AuthorisingStaff struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}
