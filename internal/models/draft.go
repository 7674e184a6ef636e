package models

import "time"

// OrderMode defines how the round-one order is produced.
type OrderMode string

const (
	OrderModeRandom OrderMode = "RANDOM"
	OrderModeManual OrderMode = "MANUAL"
)

// Phase defines the lifecycle phase of a draft as derived by the controller.
type Phase string

const (
	PhaseNotScheduled Phase = "NOT_SCHEDULED"
	PhaseScheduled    Phase = "SCHEDULED"
	PhaseGrace        Phase = "GRACE"
	PhaseLive         Phase = "LIVE"
	PhasePaused       Phase = "PAUSED"
	PhaseCompleted    Phase = "COMPLETED"
)

// EmptySeat marks an unfilled slot in the round-one order. An empty seat has
// no human to act for it, so its turns resolve straight from the shared pool.
const EmptySeat = ""

// DraftConfig is the external, read-only draft configuration. Changes to
// ManualOrder, the team roster, or ThirdRoundReversal invalidate any
// in-progress DraftState via the signature.
type DraftConfig struct {
	TotalTeams         int       `json:"total_teams"`
	TotalRounds        int       `json:"total_rounds"`
	SecondsPerPick     int       `json:"seconds_per_pick"` // 0 = unlimited
	ThirdRoundReversal bool      `json:"third_round_reversal"`
	OrderMode          OrderMode `json:"order_mode"`
	ManualOrder        []string  `json:"manual_order,omitempty"` // team IDs, EmptySeat for open slots
	ScheduledStart     time.Time `json:"scheduled_start"`
}

// Pick is one completed selection. Picks are append-only.
type Pick struct {
	Round          int    `json:"round"`
	Slot           int    `json:"slot"` // 1-based slot number within the round
	TeamID         string `json:"team_id"`
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	PlayerPosition string `json:"player_position"`
	PlayerTeam     string `json:"player_team"`
}

// DraftState is the mutable aggregate owned by the draft engine. It is valid
// only while Signature matches the signature of the current configuration;
// on mismatch it is discarded and rebuilt.
type DraftState struct {
	RoundOneOrder []string `json:"round_one_order"`
	Signature     string   `json:"signature"`
	TotalRounds   int      `json:"total_rounds"`

	StartedAtMs      int64  `json:"started_at_ms"` // 0 until the live window begins
	Paused           bool   `json:"paused"`
	CurrentRound     int    `json:"current_round"`      // 1-based
	CurrentPickIndex int    `json:"current_pick_index"` // 0-based
	Picks            []Pick `json:"picks"`
	Ended            bool   `json:"ended"`

	// Timer bookkeeping for the seat currently on the clock.
	PickStartedAtMs  int64 `json:"pick_started_at_ms"`
	RemainingAtPause int   `json:"remaining_at_pause"`
}

// PlayerDrafted reports whether the given player already appears in Picks.
func (s *DraftState) PlayerDrafted(playerID string) bool {
	for _, p := range s.Picks {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// DraftedIDs returns the set of player IDs already picked.
func (s *DraftState) DraftedIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Picks))
	for _, p := range s.Picks {
		ids[p.PlayerID] = true
	}
	return ids
}

// Clone returns a deep copy so components can operate on snapshots without
// sharing slices with the canonical state.
func (s *DraftState) Clone() *DraftState {
	out := *s
	out.RoundOneOrder = append([]string(nil), s.RoundOneOrder...)
	out.Picks = append([]Pick(nil), s.Picks...)
	return &out
}
