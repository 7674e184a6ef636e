package autopick

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridchain/fantasydraft/internal/models"
)

var pool = []models.Player{
	{ID: "p1", Rank: 1, ADP: 1.2, Name: "Bijan Robinson", Position: "RB", TeamAbbrev: "ATL"},
	{ID: "p2", Rank: 2, ADP: 2.1, Name: "Ja'Marr Chase", Position: "WR", TeamAbbrev: "CIN"},
	{ID: "p3", Rank: 3, ADP: 3.4, Name: "Justin Jefferson", Position: "WR", TeamAbbrev: "MIN"},
}

func TestResolvePrefersQueueOverPool(t *testing.T) {
	queues := StaticQueues{
		"team-1": {pool[2]}, // wants Jefferson despite better ADP in pool
	}
	r := NewResolver(queues, NewStaticPool(pool))

	p, err := r.Resolve(context.Background(), "team-1", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p3", p.ID)
}

func TestResolveSkipsDraftedQueueEntries(t *testing.T) {
	queues := StaticQueues{
		"team-1": {
			{ID: "pA", Rank: 20, ADP: 12},
			{ID: "pB", Rank: 4, ADP: 5},
		},
	}
	r := NewResolver(queues, NewStaticPool(pool))

	// pB has the better ADP but is already drafted elsewhere.
	p, err := r.Resolve(context.Background(), "team-1", map[string]bool{"pB": true})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pA", p.ID)
}

func TestResolveFallsBackToPoolWhenQueueExhausted(t *testing.T) {
	queues := StaticQueues{
		"team-1": {{ID: "p1", Rank: 1, ADP: 1.2}},
	}
	r := NewResolver(queues, NewStaticPool(pool))

	p, err := r.Resolve(context.Background(), "team-1", map[string]bool{"p1": true})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID)
}

func TestResolveEmptySeatGoesStraightToPool(t *testing.T) {
	r := NewResolver(StaticQueues{}, NewStaticPool(pool))

	p, err := r.Resolve(context.Background(), models.EmptySeat, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ID)
}

func TestResolveExhaustedPoolReturnsNone(t *testing.T) {
	r := NewResolver(nil, NewStaticPool(pool))

	drafted := map[string]bool{"p1": true, "p2": true, "p3": true}
	p, err := r.Resolve(context.Background(), "team-1", drafted)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResolveTieBreaksOnRank(t *testing.T) {
	tied := []models.Player{
		{ID: "x1", Rank: 9, ADP: 7.0},
		{ID: "x2", Rank: 2, ADP: 7.0},
	}
	r := NewResolver(nil, NewStaticPool(tied))

	p, err := r.Resolve(context.Background(), "team-1", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "x2", p.ID)
}

type failingQueues struct{}

func (failingQueues) QueueFor(ctx context.Context, teamID string) (models.Queue, error) {
	return nil, errors.New("queue store offline")
}

func TestResolveQueueFailureFallsBackToPool(t *testing.T) {
	r := NewResolver(failingQueues{}, NewStaticPool(pool))

	p, err := r.Resolve(context.Background(), "team-1", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ID)
}
