package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depotray/depotray/internal/logging"
)

// pushServer is a minimal websocket push endpoint for tests. It records
// subscribe frames and lets tests broadcast message frames to the client.
type pushServer struct {
	t        *testing.T
	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
	subs     chan string
}

func newPushServer(t *testing.T) (*pushServer, *httptest.Server) {
	ps := &pushServer{
		t:     t,
		conns: make(chan *websocket.Conn, 1),
		subs:  make(chan string, 4),
	}
	srv := httptest.NewServer(http.HandlerFunc(ps.handle))
	t.Cleanup(srv.Close)
	return ps, srv
}

func (ps *pushServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := ps.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ps.t.Errorf("upgrade failed: %v", err)
		return
	}
	ps.conns <- conn
	go func() {
		for {
			var f struct {
				Type  string `json:"type"`
				Topic string `json:"topic"`
			}
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			if f.Type == "SUBSCRIBE" {
				ps.subs <- f.Topic
			}
		}
	}()
}

func (ps *pushServer) send(t *testing.T, topic string, body string) {
	t.Helper()
	conn := <-ps.conns
	ps.conns <- conn
	err := conn.WriteJSON(map[string]any{
		"type":  "MESSAGE",
		"topic": topic,
		"body":  json.RawMessage(body),
	})
	require.NoError(t, err)
}

func (ps *pushServer) sendRaw(t *testing.T, data string) {
	t.Helper()
	conn := <-ps.conns
	ps.conns <- conn
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(data)))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWebsocketDialer_Dial(t *testing.T) {
	t.Run("connects and subscribes", func(t *testing.T) {
		ps, srv := newPushServer(t)
		dialer := NewWebsocketDialer(logging.Noop())

		session, err := dialer.Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)
		defer session.Close()

		require.NoError(t, session.Subscribe("/topic/notifications/workers"))
		select {
		case topic := <-ps.subs:
			assert.Equal(t, "/topic/notifications/workers", topic)
		case <-time.After(time.Second):
			t.Fatal("server never saw the subscribe frame")
		}
	})

	t.Run("dial failure returns an error", func(t *testing.T) {
		dialer := NewWebsocketDialer(logging.Noop())
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, err := dialer.Dial(ctx, "ws://127.0.0.1:1/ws")
		assert.Error(t, err)
	})
}

func TestWsSession_Messages(t *testing.T) {
	t.Run("delivers message frames", func(t *testing.T) {
		ps, srv := newPushServer(t)
		dialer := NewWebsocketDialer(logging.Noop())
		session, err := dialer.Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)
		defer session.Close()

		ps.send(t, "/topic/notifications/supervisors", `{"id":9,"type":"ALERT"}`)

		select {
		case msg := <-session.Messages():
			assert.Equal(t, "/topic/notifications/supervisors", msg.Topic)
			assert.JSONEq(t, `{"id":9,"type":"ALERT"}`, string(msg.Body))
		case <-time.After(time.Second):
			t.Fatal("message never arrived")
		}
	})

	t.Run("skips unparseable and non-message frames", func(t *testing.T) {
		ps, srv := newPushServer(t)
		dialer := NewWebsocketDialer(logging.Noop())
		session, err := dialer.Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)
		defer session.Close()

		ps.sendRaw(t, `not json at all`)
		ps.sendRaw(t, `{"type":"PING"}`)
		ps.send(t, "/topic/notifications/workers", `{"id":1}`)

		select {
		case msg := <-session.Messages():
			assert.JSONEq(t, `{"id":1}`, string(msg.Body))
		case <-time.After(time.Second):
			t.Fatal("message never arrived")
		}
	})
}

func TestWsSession_Lifecycle(t *testing.T) {
	t.Run("server close ends the session with an error", func(t *testing.T) {
		ps, srv := newPushServer(t)
		dialer := NewWebsocketDialer(logging.Noop())
		session, err := dialer.Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)

		conn := <-ps.conns
		conn.Close()

		select {
		case <-session.Done():
		case <-time.After(time.Second):
			t.Fatal("session never ended")
		}
		assert.Error(t, session.Err())
	})

	t.Run("explicit close reports no error", func(t *testing.T) {
		_, srv := newPushServer(t)
		dialer := NewWebsocketDialer(logging.Noop())
		session, err := dialer.Dial(context.Background(), wsURL(srv))
		require.NoError(t, err)

		require.NoError(t, session.Close())
		select {
		case <-session.Done():
		case <-time.After(time.Second):
			t.Fatal("session never ended")
		}
		assert.NoError(t, session.Err())
	})
}
