// Package autopick selects a player on behalf of a team whose pick clock has
// expired, or for an empty seat that comes on the clock.
package autopick

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/models"
)

// QueueSource provides a team's personal autopick queue. Queues are owned by
// the team's own client; the resolver only reads them.
type QueueSource interface {
	QueueFor(ctx context.Context, teamID string) (models.Queue, error)
}

// PlayerPool provides the shared ranked player list.
type PlayerPool interface {
	AvailablePlayers(ctx context.Context) ([]models.Player, error)
}

// Resolver picks from the team's queue first, then falls back to the shared
// pool. Both sources serve already-loaded reference data; nothing blocks.
type Resolver struct {
	queues QueueSource
	pool   PlayerPool
}

func NewResolver(queues QueueSource, pool PlayerPool) *Resolver {
	return &Resolver{queues: queues, pool: pool}
}

// Resolve chooses a player for the team on the clock, skipping anything in
// drafted. A nil player with nil error means the pool is exhausted; the
// caller advances the pointer without recording a pick.
func (r *Resolver) Resolve(ctx context.Context, teamID string, drafted map[string]bool) (*models.Player, error) {
	if teamID != models.EmptySeat && r.queues != nil {
		queue, err := r.queues.QueueFor(ctx, teamID)
		if err != nil {
			// Queue lookup failure falls through to the pool rather than
			// stalling the draft.
			log.Warn().Err(err).Str("team_id", teamID).Msg("queue lookup failed, falling back to pool")
		} else if choice := best(queue, drafted); choice != nil {
			return choice, nil
		}
	}

	players, err := r.pool.AvailablePlayers(ctx)
	if err != nil {
		return nil, err
	}
	return best(players, drafted), nil
}

// best returns the undrafted player with the lowest ADP, ties broken by
// lowest rank. Nil when every candidate is already drafted.
func best(players []models.Player, drafted map[string]bool) *models.Player {
	var choice *models.Player
	for i := range players {
		p := &players[i]
		if drafted[p.ID] {
			continue
		}
		if choice == nil || p.ADP < choice.ADP || (p.ADP == choice.ADP && p.Rank < choice.Rank) {
			choice = p
		}
	}
	if choice == nil {
		return nil
	}
	out := *choice
	return &out
}
