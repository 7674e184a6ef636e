package state

import (
	"context"
	"sync"

	"github.com/gridchain/fantasydraft/internal/models"
)

// MemoryStore keeps draft state and queues in process memory with an
// in-process fan-out for subscribers. It backs single-viewer sessions and is
// the degrade target when a shared store is unreachable.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*models.DraftState
	queues map[string]models.Queue
	subs   map[string]map[int]UpdateFunc
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*models.DraftState),
		queues: make(map[string]models.Queue),
		subs:   make(map[string]map[int]UpdateFunc),
	}
}

func (m *MemoryStore) Get(ctx context.Context, draftID string) (*models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[draftID]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *MemoryStore) Put(ctx context.Context, draftID string, state *models.DraftState) error {
	m.mu.Lock()
	m.states[draftID] = state.Clone()
	fns := make([]UpdateFunc, 0, len(m.subs[draftID]))
	for _, fn := range m.subs[draftID] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, draftID)
	return nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[draftID] == nil {
		m.subs[draftID] = make(map[int]UpdateFunc)
	}
	id := m.nextID
	m.nextID++
	m.subs[draftID][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[draftID], id)
		if len(m.subs[draftID]) == 0 {
			delete(m.subs, draftID)
		}
	}, nil
}

func (m *MemoryStore) QueueFor(ctx context.Context, teamID string) (models.Queue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(models.Queue(nil), m.queues[teamID]...), nil
}

func (m *MemoryStore) SaveQueue(ctx context.Context, teamID string, queue models.Queue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[teamID] = append(models.Queue(nil), queue...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
