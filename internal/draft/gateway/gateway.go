// Package gateway fans draft events out to websocket viewers. It renders
// nothing; every client re-derives its view from the broadcast state.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/draft/events"
)

// Config holds websocket connection tuning.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// Gateway manages viewer connections grouped by draft and broadcasts domain
// events to them. Publish never blocks, so it is safe to call from the
// controller's critical section; events to slow viewers are dropped.
type Gateway struct {
	mu       sync.RWMutex
	viewers  map[string]map[*conn]bool // draft ID -> connections
	upgrader websocket.Upgrader
	cfg      Config
	events   chan events.Event
}

type conn struct {
	id      string
	draftID string
	ws      *websocket.Conn
	send    chan []byte
	gw      *Gateway
}

func New(cfg Config) *Gateway {
	return &Gateway{
		viewers: make(map[string]map[*conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg:    cfg,
		events: make(chan events.Event, 256),
	}
}

// Publish queues an event for broadcast. Implements controller.Publisher.
func (g *Gateway) Publish(evt events.Event) {
	select {
	case g.events <- evt:
	default:
		log.Warn().Str("draft_id", evt.DraftID).Str("type", string(evt.Type)).Msg("event queue full, dropping broadcast")
	}
}

// Run drains the event queue until the context ends.
func (g *Gateway) Run(ctx context.Context) {
	log.Info().Msg("draft gateway started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("draft gateway shutting down")
			return
		case evt := <-g.events:
			g.broadcast(evt)
		}
	}
}

// Serve upgrades an HTTP request to a websocket viewer of the given draft.
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, draftID string) error {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade connection: %w", err)
	}

	c := &conn{
		id:      uuid.New().String()[:8],
		draftID: draftID,
		ws:      ws,
		send:    make(chan []byte, 64),
		gw:      g,
	}
	g.register(c)
	go c.writePump()
	go c.readPump()

	log.Info().Str("connection_id", c.id).Str("draft_id", draftID).Msg("viewer connected")
	return nil
}

func (g *Gateway) register(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.viewers[c.draftID] == nil {
		g.viewers[c.draftID] = make(map[*conn]bool)
	}
	g.viewers[c.draftID][c] = true
}

func (g *Gateway) unregister(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if viewers, ok := g.viewers[c.draftID]; ok {
		if viewers[c] {
			delete(viewers, c)
			close(c.send)
			if len(viewers) == 0 {
				delete(g.viewers, c.draftID)
			}
		}
	}
}

func (g *Gateway) broadcast(evt events.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("type", string(evt.Type)).Msg("failed to encode event")
		return
	}

	// Send while holding the read lock: unregister closes send channels under
	// the write lock, so a disconnect can never race a send here.
	var dropped []*conn
	g.mu.RLock()
	for c := range g.viewers[evt.DraftID] {
		select {
		case c.send <- data:
		default:
			dropped = append(dropped, c)
		}
	}
	g.mu.RUnlock()

	for _, c := range dropped {
		// Slow or dead viewer; drop it rather than stall the draft.
		log.Warn().Str("connection_id", c.id).Msg("viewer send buffer full, closing")
		g.unregister(c)
		c.ws.Close()
	}
}

func (c *conn) writePump() {
	ticker := time.NewTicker(c.gw.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		c.gw.unregister(c)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.gw.cfg.WriteTimeout))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Error().Err(err).Str("connection_id", c.id).Msg("viewer write failed")
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.gw.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) readPump() {
	defer func() {
		c.gw.unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.gw.cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.gw.cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.gw.cfg.ReadTimeout))
		return nil
	})

	// Viewers are read-only; inbound traffic is only pong/close handling.
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.id).Msg("unexpected viewer close")
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(c.gw.cfg.ReadTimeout))
	}
}
