package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/models"
)

const (
	natsMaxReconnects = 10
	natsReconnectWait = 2 * time.Second
)

// NATSStore layers cross-process change notifications over an inner store
// that has none of its own (typically MemoryStore, or PostgresStore when the
// deployment prefers a message bus over LISTEN/NOTIFY). Saves publish the
// full state on a per-draft subject; subscriptions consume the same subject.
type NATSStore struct {
	inner Store
	nc    *nats.Conn
}

func stateSubject(draftID string) string {
	return fmt.Sprintf("draft.state.%s", draftID)
}

// NewNATSStore connects to NATS and wraps inner.
func NewNATSStore(natsURL string, inner Store) (*NATSStore, error) {
	opts := []nats.Option{
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSStore{inner: inner, nc: nc}, nil
}

func (n *NATSStore) Get(ctx context.Context, draftID string) (*models.DraftState, error) {
	return n.inner.Get(ctx, draftID)
}

func (n *NATSStore) Put(ctx context.Context, draftID string, state *models.DraftState) error {
	if err := n.inner.Put(ctx, draftID, state); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}
	if err := n.nc.Publish(stateSubject(draftID), data); err != nil {
		log.Warn().Err(err).Str("draft_id", draftID).Msg("failed to publish state update")
	}
	return nil
}

func (n *NATSStore) Delete(ctx context.Context, draftID string) error {
	return n.inner.Delete(ctx, draftID)
}

func (n *NATSStore) Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error) {
	sub, err := n.nc.Subscribe(stateSubject(draftID), func(msg *nats.Msg) {
		var st models.DraftState
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			log.Warn().Err(err).Str("draft_id", draftID).Msg("dropping malformed state update")
			return
		}
		fn(&st)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to draft updates: %w", err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Str("draft_id", draftID).Msg("failed to unsubscribe")
		}
	}, nil
}

func (n *NATSStore) Close() error {
	n.nc.Close()
	return n.inner.Close()
}
