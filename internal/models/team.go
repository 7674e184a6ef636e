package models

// Team represents one filled seat in the draft. Team identity comes from the
// league contract and is opaque to the engine; it is stable for the life of a
// draft.
type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
