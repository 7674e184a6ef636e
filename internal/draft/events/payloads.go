// Package events defines the domain events the draft engine emits for
// viewers and activity feeds.
package events

import "time"

// EventType names a draft domain event.
type EventType string

const (
	TypeDraftStarted   EventType = "DraftStarted"
	TypeDraftPaused    EventType = "DraftPaused"
	TypeDraftResumed   EventType = "DraftResumed"
	TypeDraftCompleted EventType = "DraftCompleted"
	TypeDraftReset     EventType = "DraftReset"
	TypePickStarted    EventType = "PickStarted"
	TypePickMade       EventType = "PickMade"
	TypePickSkipped    EventType = "PickSkipped"
	TypeStateSynced    EventType = "StateSynced"
)

// Event is the envelope broadcast to viewers.
type Event struct {
	Type    EventType   `json:"type"`
	DraftID string      `json:"draft_id"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// PickStartedPayload announces that a seat has come on the clock.
type PickStartedPayload struct {
	TeamID           string `json:"team_id"`
	Round            int    `json:"round"`
	Slot             int    `json:"slot"`
	Label            string `json:"label"`
	SecondsPerPick   int    `json:"seconds_per_pick"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// PickMadePayload announces a completed selection, human or auto.
type PickMadePayload struct {
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Round      int    `json:"round"`
	Slot       int    `json:"slot"`
	Label      string `json:"label"`
	Auto       bool   `json:"auto"`
}

// PickSkippedPayload announces a turn that advanced with no pick recorded
// (the shared player pool was exhausted).
type PickSkippedPayload struct {
	TeamID string `json:"team_id"`
	Round  int    `json:"round"`
	Slot   int    `json:"slot"`
}

// DraftStartedPayload announces the start of the live window.
type DraftStartedPayload struct {
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftCompletedPayload announces the terminal state.
type DraftCompletedPayload struct {
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload announces a commissioner pause with the frozen clock.
type DraftPausedPayload struct {
	PausedAt         time.Time `json:"paused_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// DraftResumedPayload announces a commissioner resume.
type DraftResumedPayload struct {
	ResumedAt        time.Time `json:"resumed_at"`
	RemainingSeconds int       `json:"remaining_seconds"`
}
