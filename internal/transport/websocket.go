package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/depotray/depotray/internal/logging"
)

// Frame type values exchanged with the push endpoint.
const (
	frameSubscribe = "SUBSCRIBE"
	frameMessage   = "MESSAGE"
)

// frame is the JSON envelope for both directions of the push session.
type frame struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic,omitempty"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// messageBuffer bounds the inbound channel so a slow consumer cannot
// block the read loop indefinitely before messages start dropping.
const messageBuffer = 64

// WebsocketDialer dials push sessions over a websocket.
type WebsocketDialer struct {
	dialer *websocket.Dialer
	log    logging.Logger
}

// NewWebsocketDialer creates a dialer using the default websocket handshake
// settings.
func NewWebsocketDialer(log logging.Logger) *WebsocketDialer {
	if log == nil {
		log = logging.GetGlobal()
	}
	return &WebsocketDialer{dialer: websocket.DefaultDialer, log: log}
}

// Dial establishes a websocket session to the given URL and starts its
// read loop.
func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Session, error) {
	conn, _, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	s := &wsSession{
		conn: conn,
		msgs: make(chan Message, messageBuffer),
		done: make(chan struct{}),
		log:  d.log,
	}
	go s.readLoop()
	return s, nil
}

// wsSession is a websocket-backed push session.
type wsSession struct {
	conn *websocket.Conn
	msgs chan Message
	done chan struct{}
	log  logging.Logger

	writeMu sync.Mutex

	mu     sync.Mutex
	err    error
	closed bool
}

// Subscribe sends a subscribe frame for the given topic.
func (s *wsSession) Subscribe(topic string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(frame{Type: frameSubscribe, Topic: topic}); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

func (s *wsSession) Messages() <-chan Message {
	return s.msgs
}

func (s *wsSession) Done() <-chan struct{} {
	return s.done
}

func (s *wsSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.err
}

// Close terminates the session. The read loop notices the closed
// connection and finishes.
func (s *wsSession) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.conn.Close()
}

// readLoop pumps inbound frames onto the message channel until the
// connection ends. Frames that fail to parse are dropped and logged;
// only transport-level errors end the session.
func (s *wsSession) readLoop() {
	defer close(s.done)
	defer close(s.msgs)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.log.Warn("dropping unparseable push frame", "error", err)
			continue
		}
		if f.Type != frameMessage {
			continue
		}
		select {
		case s.msgs <- Message{Topic: f.Topic, Body: f.Body}:
		default:
			s.log.Warn("push message buffer full, dropping message", "topic", f.Topic)
		}
	}
}
