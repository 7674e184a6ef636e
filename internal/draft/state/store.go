// Package state owns the canonical DraftState record: signature derivation,
// persistence to a shared store, and change notifications to other viewers.
package state

import (
	"context"
	"errors"

	"github.com/gridchain/fantasydraft/internal/models"
)

// ErrNotFound is returned by a Store when no state is persisted for a draft.
var ErrNotFound = errors.New("draft state not found")

// UpdateFunc receives the new state when another writer updates the store.
type UpdateFunc func(*models.DraftState)

// Store is the shared key-value record for one draft plus change
// notifications. Writes are last-writer-wins: if two viewers write for the
// same seat near-simultaneously, the later write silently overwrites the
// earlier one. Callers that need stronger guarantees must put a single
// authoritative writer in front of the store.
type Store interface {
	Get(ctx context.Context, draftID string) (*models.DraftState, error)
	Put(ctx context.Context, draftID string, state *models.DraftState) error
	Delete(ctx context.Context, draftID string) error

	// Subscribe registers fn for updates to the draft's record. The returned
	// func removes the subscription.
	Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error)

	Close() error
}

// QueueStore persists per-team autopick queues. Satisfies
// autopick.QueueSource.
type QueueStore interface {
	QueueFor(ctx context.Context, teamID string) (models.Queue, error)
	SaveQueue(ctx context.Context, teamID string, queue models.Queue) error
}
