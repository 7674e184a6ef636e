package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridchain/fantasydraft/internal/draft/events"
)

func newTestGateway(t *testing.T) (*Gateway, string) {
	t.Helper()
	g := New(DefaultConfig())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.Serve(w, r, "draft-1")
	}))
	t.Cleanup(srv.Close)
	return g, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (g *Gateway) viewerCount(draftID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.viewers[draftID])
}

func TestBroadcastReachesViewer(t *testing.T) {
	g, url := newTestGateway(t)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	require.Eventually(t, func() bool { return g.viewerCount("draft-1") == 1 }, time.Second, 10*time.Millisecond)

	g.broadcast(events.Event{Type: events.TypePickMade, DraftID: "draft-1", At: time.Now()})

	ws.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var evt events.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, events.TypePickMade, evt.Type)
	assert.Equal(t, "draft-1", evt.DraftID)
}

func TestBroadcastSkipsOtherDrafts(t *testing.T) {
	g, url := newTestGateway(t)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	require.Eventually(t, func() bool { return g.viewerCount("draft-1") == 1 }, time.Second, 10*time.Millisecond)

	g.broadcast(events.Event{Type: events.TypePickMade, DraftID: "draft-2", At: time.Now()})

	ws.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = ws.ReadMessage()
	assert.Error(t, err) // nothing arrives for a draft we are not watching
}

// Viewers disconnecting mid-broadcast must never crash the fan-out: sends and
// channel closes are serialized on the viewer lock.
func TestDisconnectDuringBroadcastDoesNotPanic(t *testing.T) {
	g, url := newTestGateway(t)

	const viewers = 8
	conns := make([]*websocket.Conn, 0, viewers)
	for i := 0; i < viewers; i++ {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		conns = append(conns, ws)
	}
	require.Eventually(t, func() bool { return g.viewerCount("draft-1") == viewers }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		evt := events.Event{Type: events.TypeStateSynced, DraftID: "draft-1", At: time.Now()}
		// Nobody reads, so send buffers fill and the slow-viewer drop path
		// runs concurrently with the pumps unregistering closed connections.
		for i := 0; i < 500; i++ {
			g.broadcast(evt)
		}
	}()

	for _, ws := range conns {
		ws.Close()
	}
	<-done

	require.Eventually(t, func() bool { return g.viewerCount("draft-1") == 0 }, time.Second, 10*time.Millisecond)
}
