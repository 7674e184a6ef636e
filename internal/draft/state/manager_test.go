package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridchain/fantasydraft/internal/models"
)

func TestLoadIsIdempotentForUnchangedConfig(t *testing.T) {
	ctx := context.Background()
	m := NewManager("draft-1", NewMemoryStore())

	first, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)

	first.Picks = append(first.Picks, models.Pick{Round: 1, Slot: 1, TeamID: "t1", PlayerID: "p1"})
	first.CurrentPickIndex = 1
	require.NoError(t, m.Save(ctx, first))

	second, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestLoadRebuildsOnManualOrderChange(t *testing.T) {
	ctx := context.Background()
	m := NewManager("draft-1", NewMemoryStore())

	st, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)

	st.Picks = []models.Pick{
		{Round: 1, Slot: 1, TeamID: "t1", PlayerID: "p1"},
		{Round: 1, Slot: 2, TeamID: "t2", PlayerID: "p2"},
		{Round: 1, Slot: 3, TeamID: "t3", PlayerID: "p3"},
	}
	st.CurrentPickIndex = 3
	require.NoError(t, m.Save(ctx, st))

	changed := manualConfig()
	changed.ManualOrder = []string{"t4", "t3", "t2", "t1"}

	rebuilt, err := m.Load(ctx, changed, teams())
	require.NoError(t, err)
	assert.Empty(t, rebuilt.Picks)
	assert.Equal(t, []string{"t4", "t3", "t2", "t1"}, rebuilt.RoundOneOrder)
	assert.Equal(t, 1, rebuilt.CurrentRound)
	assert.Equal(t, 0, rebuilt.CurrentPickIndex)
}

func TestResetKeepsOrderAndSignature(t *testing.T) {
	ctx := context.Background()
	m := NewManager("draft-1", NewMemoryStore())

	st, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)

	st.StartedAtMs = 1_000
	st.PickStartedAtMs = 2_000
	st.CurrentRound = 3
	st.CurrentPickIndex = 2
	st.Picks = []models.Pick{{Round: 1, Slot: 1, TeamID: "t1", PlayerID: "p1"}}
	require.NoError(t, m.Save(ctx, st))

	fresh, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, st.RoundOneOrder, fresh.RoundOneOrder)
	assert.Equal(t, st.Signature, fresh.Signature)
	assert.Empty(t, fresh.Picks)
	assert.Zero(t, fresh.StartedAtMs)
	assert.Zero(t, fresh.PickStartedAtMs)
	assert.Equal(t, 1, fresh.CurrentRound)
	assert.Equal(t, 0, fresh.CurrentPickIndex)
	assert.False(t, fresh.Ended)
}

func TestSubscribeFiltersForeignSignatures(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager("draft-1", store)

	st, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)

	var got []*models.DraftState
	unsub, err := m.Subscribe(ctx, st.Signature, func(s *models.DraftState) {
		got = append(got, s)
	})
	require.NoError(t, err)
	defer unsub()

	// A changed state with a matching signature is delivered.
	remote := st.Clone()
	remote.CurrentPickIndex = 1
	require.NoError(t, store.Put(ctx, "draft-1", remote))
	require.Len(t, got, 1)

	// Foreign signature is silently dropped.
	foreign := remote.Clone()
	foreign.Signature = "someone-elses-configuration"
	require.NoError(t, store.Put(ctx, "draft-1", foreign))
	assert.Len(t, got, 1)

	// An echo of this manager's own write is dropped as well.
	mine := remote.Clone()
	mine.CurrentPickIndex = 2
	require.NoError(t, m.Save(ctx, mine))
	assert.Len(t, got, 1)
}

// brokenStore fails every operation, standing in for an unreachable backend.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, draftID string) (*models.DraftState, error) {
	return nil, errors.New("store offline")
}
func (brokenStore) Put(ctx context.Context, draftID string, st *models.DraftState) error {
	return errors.New("store offline")
}
func (brokenStore) Delete(ctx context.Context, draftID string) error {
	return errors.New("store offline")
}
func (brokenStore) Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error) {
	return nil, errors.New("store offline")
}
func (brokenStore) Close() error { return nil }

func TestManagerDegradesToLocalStateWhenStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	m := NewManager("draft-1", brokenStore{})

	st, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)
	require.NotNil(t, st)

	st.Picks = append(st.Picks, models.Pick{Round: 1, Slot: 1, TeamID: "t1", PlayerID: "p1"})
	require.NoError(t, m.Save(ctx, st))

	// The local session keeps its progress even though nothing persisted.
	again, err := m.Load(ctx, manualConfig(), teams())
	require.NoError(t, err)
	assert.Len(t, again.Picks, 1)
}
