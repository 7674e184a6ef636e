package controller

import (
	"fmt"

	"github.com/gridchain/fantasydraft/internal/draft/engine"
	"github.com/gridchain/fantasydraft/internal/draft/order"
	"github.com/gridchain/fantasydraft/internal/models"
)

// PickSummary is the {label, team} pair used by activity feeds and the
// "previous/next pick" panels.
type PickSummary struct {
	Label    string `json:"label"` // "round.slot"
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

// View is a render-ready snapshot: the state plus everything derived from it
// on this tick. It shares nothing with the canonical state.
type View struct {
	Phase            models.Phase       `json:"phase"`
	State            *models.DraftState `json:"state"`
	OnClockTeamID    string             `json:"on_clock_team_id"`
	OnClockColumn    int                `json:"on_clock_column"`
	RemainingSeconds int                `json:"remaining_seconds"` // engine.NoLimit when unlimited
	LastPick         *PickSummary       `json:"last_pick,omitempty"`
	NextPick         *PickSummary       `json:"next_pick,omitempty"`
}

// View computes the current visible state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	v := View{Phase: c.phaseLocked(now), State: c.st.Clone()}

	spp := c.cfg.Draft.SecondsPerPick
	switch {
	case c.st.Ended:
		v.RemainingSeconds = 0
	case c.st.StartedAtMs == 0:
		if spp == 0 {
			v.RemainingSeconds = engine.NoLimit
		} else {
			v.RemainingSeconds = spp
		}
	default:
		v.RemainingSeconds = engine.RemainingFor(c.st, now.UnixMilli(), spp)
	}

	if len(c.st.Picks) > 0 {
		last := c.st.Picks[len(c.st.Picks)-1]
		v.LastPick = &PickSummary{
			Label:    pickLabel(last),
			TeamID:   last.TeamID,
			TeamName: c.teamNames[last.TeamID],
		}
	}

	if !c.st.Ended {
		teamID := c.onClockTeamLocked()
		v.OnClockTeamID = teamID
		v.OnClockColumn = order.SeatForPointer(len(c.st.RoundOneOrder), c.st.CurrentRound, c.st.CurrentPickIndex, c.cfg.Draft.ThirdRoundReversal)
		v.NextPick = &PickSummary{
			Label:    fmt.Sprintf("%d.%d", c.st.CurrentRound, c.st.CurrentPickIndex+1),
			TeamID:   teamID,
			TeamName: c.teamNames[teamID],
		}
	}

	return v
}
