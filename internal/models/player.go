package models

// Player is ranked reference data used to resolve autopicks and populate
// queues. Loaded externally; read-only to the engine.
type Player struct {
	ID         string  `json:"id"`
	Rank       int     `json:"rank"`
	ADP        float64 `json:"adp"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	TeamAbbrev string  `json:"team_abbrev"`
}

// Queue is a team's personal autopick priority list, kept sorted ascending by
// ADP. It is owned and mutated only by that team's own client.
type Queue []Player
