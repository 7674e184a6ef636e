package state

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/models"
)

// Manager owns the canonical DraftState for one draft instance. It validates
// persisted state against the current configuration signature, rebuilds on
// mismatch, and degrades to in-memory-only operation when the shared store is
// unreachable: the local session keeps working, it just stops propagating.
type Manager struct {
	draftID string
	store   Store

	mu     sync.Mutex
	cached *models.DraftState // last known-good local copy
}

func NewManager(draftID string, store Store) *Manager {
	return &Manager{draftID: draftID, store: store}
}

// Load returns the state for the current configuration. A persisted state
// with a matching signature is returned as-is; anything else (nothing
// persisted, or a stale signature after a roster/order/TRR change) is
// replaced by a fresh state with empty picks. Wiping progress on a
// configuration change is deliberate: order changes invalidate pick history.
func (m *Manager) Load(ctx context.Context, cfg models.DraftConfig, teams []models.Team) (*models.DraftState, error) {
	sig := ConfigSignature(cfg, teams)

	st, err := m.store.Get(ctx, m.draftID)
	switch {
	case err == nil && st.Signature == sig:
		return m.remember(st), nil
	case err == nil:
		log.Info().
			Str("draft_id", m.draftID).
			Str("old_signature", st.Signature).
			Str("new_signature", sig).
			Int("picks_discarded", len(st.Picks)).
			Msg("configuration changed, rebuilding draft state")
	case err == ErrNotFound:
		// First viewer of this configuration.
	default:
		log.Warn().Err(err).Str("draft_id", m.draftID).Msg("shared store unavailable, using local state")
		m.mu.Lock()
		cached := m.cached
		m.mu.Unlock()
		if cached != nil && cached.Signature == sig {
			return cached.Clone(), nil
		}
	}

	fresh := NewState(cfg, teams)
	if err := m.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh.Clone(), nil
}

// Save writes the state to the shared store and notifies other viewers. A
// store failure is absorbed: the local copy stays authoritative for this
// session and the write is logged, not surfaced.
func (m *Manager) Save(ctx context.Context, st *models.DraftState) error {
	m.remember(st)
	if err := m.store.Put(ctx, m.draftID, st); err != nil {
		log.Warn().Err(err).Str("draft_id", m.draftID).Msg("state not propagated, shared store unavailable")
	}
	return nil
}

// Reset discards picks, pointer and timer fields but keeps the same
// round-one order and signature: the same draft, re-run from scratch.
// Commissioner-gated by the caller.
func (m *Manager) Reset(ctx context.Context) (*models.DraftState, error) {
	st, err := m.store.Get(ctx, m.draftID)
	if err != nil {
		m.mu.Lock()
		st = m.cached
		m.mu.Unlock()
		if st == nil {
			return nil, err
		}
	}

	fresh := newStateFromOrder(st.RoundOneOrder, st.Signature, st.TotalRounds)
	if err := m.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh.Clone(), nil
}

// Subscribe registers fn for updates from other writers. Updates carrying a
// foreign or stale signature are silently dropped, never merged. Echoes of
// this manager's own writes are dropped too, so a subscriber may call back
// into the code path that saved without re-entering itself.
func (m *Manager) Subscribe(ctx context.Context, signature string, fn UpdateFunc) (func(), error) {
	return m.store.Subscribe(ctx, m.draftID, func(st *models.DraftState) {
		if st.Signature != signature {
			return
		}
		m.mu.Lock()
		echo := m.cached != nil && reflect.DeepEqual(st, m.cached)
		if !echo {
			m.cached = st.Clone()
		}
		m.mu.Unlock()
		if echo {
			return
		}
		fn(st)
	})
}

func (m *Manager) remember(st *models.DraftState) *models.DraftState {
	m.mu.Lock()
	m.cached = st.Clone()
	m.mu.Unlock()
	return st
}
