package autopick

import (
	"context"

	"github.com/gridchain/fantasydraft/internal/models"
)

// StaticPool serves a preloaded ranked player list. The surrounding product
// loads this once per draft from the league's player reference data.
type StaticPool struct {
	players []models.Player
}

func NewStaticPool(players []models.Player) *StaticPool {
	return &StaticPool{players: append([]models.Player(nil), players...)}
}

func (p *StaticPool) AvailablePlayers(ctx context.Context) ([]models.Player, error) {
	return p.players, nil
}

// StaticQueues is an in-memory QueueSource keyed by team ID, used by tests
// and by single-process deployments that keep queues client-side.
type StaticQueues map[string]models.Queue

func (q StaticQueues) QueueFor(ctx context.Context, teamID string) (models.Queue, error) {
	return q[teamID], nil
}
