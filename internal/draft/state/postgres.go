package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/models"
)

const (
	notifyChannel        = "draft_state_events"
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// PostgresStore persists draft state in a single table keyed by draft ID and
// uses LISTEN/NOTIFY to push updates to subscribers in other processes.
type PostgresStore struct {
	pool     *pgxpool.Pool
	listener *pq.Listener

	mu   sync.Mutex
	subs map[string]map[int]UpdateFunc
	next int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPostgresStore connects, ensures the schema, and starts the notification
// listener. databaseURL serves both the pgx pool and the pq listener.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draft_states (
			draft_id   TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure draft_states table: %w", err)
	}

	l := pq.NewListener(
		databaseURL,
		listenerMinReconnect,
		listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("draft state listener event")
			}
		},
	)
	if err := l.Listen(notifyChannel); err != nil {
		pool.Close()
		return nil, fmt.Errorf("listen on %s: %w", notifyChannel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &PostgresStore{
		pool:     pool,
		listener: l,
		subs:     make(map[string]map[int]UpdateFunc),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(runCtx)

	log.Info().Str("channel", notifyChannel).Msg("listening for draft state notifications")
	return s, nil
}

func (s *PostgresStore) Get(ctx context.Context, draftID string) (*models.DraftState, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM draft_states WHERE draft_id = $1`, draftID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft state: %w", err)
	}
	var st models.DraftState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode draft state: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) Put(ctx context.Context, draftID string, state *models.DraftState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO draft_states (draft_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (draft_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		draftID, data); err != nil {
		return fmt.Errorf("put draft state: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, draftID); err != nil {
		log.Warn().Err(err).Str("draft_id", draftID).Msg("failed to notify state update")
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, draftID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM draft_states WHERE draft_id = $1`, draftID)
	return err
}

func (s *PostgresStore) Subscribe(ctx context.Context, draftID string, fn UpdateFunc) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[draftID] == nil {
		s.subs[draftID] = make(map[int]UpdateFunc)
	}
	id := s.next
	s.next++
	s.subs[draftID][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[draftID], id)
		if len(s.subs[draftID]) == 0 {
			delete(s.subs, draftID)
		}
	}, nil
}

// run pumps pq notifications to subscribers. The notification payload is the
// draft ID; the state itself is re-read from the table.
func (s *PostgresStore) run(ctx context.Context) {
	defer close(s.done)

	pingTicker := time.NewTicker(listenerPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case note := <-s.listener.Notify:
			if note == nil {
				// nil notification means the connection was lost and is being
				// re-established.
				continue
			}
			s.dispatch(ctx, note.Extra)
		case <-pingTicker.C:
			if err := s.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping draft state listener")
			}
		}
	}
}

func (s *PostgresStore) dispatch(ctx context.Context, draftID string) {
	s.mu.Lock()
	fns := make([]UpdateFunc, 0, len(s.subs[draftID]))
	for _, fn := range s.subs[draftID] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	st, err := s.Get(ctx, draftID)
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID).Msg("failed to fetch state after notification")
		return
	}
	for _, fn := range fns {
		fn(st.Clone())
	}
}

func (s *PostgresStore) Close() error {
	s.cancel()
	err := s.listener.Close()
	<-s.done
	s.pool.Close()
	return err
}
