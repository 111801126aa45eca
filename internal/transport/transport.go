// Package transport provides the persistent push session used for live
// notification delivery. The concrete implementation speaks JSON frames
// over a websocket; the Dialer and Session interfaces exist so the
// connection lifecycle can be driven against an in-memory fake in tests.
package transport

import "context"

// Message is a single inbound push message delivered on a topic.
type Message struct {
	Topic string
	Body  []byte
}

// Session is a live push session. Inbound messages arrive on Messages()
// until the session ends. Done() is closed when the session ends for any
// reason; Err() reports the transport failure, or nil after an explicit
// Close.
type Session interface {
	// Subscribe registers interest in a broadcast topic.
	Subscribe(topic string) error
	// Messages returns the inbound message channel. It is closed when the
	// session ends.
	Messages() <-chan Message
	// Done is closed when the session ends.
	Done() <-chan struct{}
	// Err returns the error that ended the session, if any.
	Err() error
	// Close terminates the session.
	Close() error
}

// Dialer establishes push sessions.
type Dialer interface {
	Dial(ctx context.Context, url string) (Session, error)
}
