package transport

import (
	"context"
	"sync"
)

// MockSession is a scriptable Session for tests. Deliver pushes inbound
// messages; Fail simulates a transport-level loss.
type MockSession struct {
	// SubscribeErr is returned by Subscribe when set.
	SubscribeErr error

	mu     sync.Mutex
	topics []string
	msgs   chan Message
	done   chan struct{}
	err    error
	ended  bool
	closed bool
}

// NewMockSession creates an open MockSession.
func NewMockSession() *MockSession {
	return &MockSession{
		msgs: make(chan Message, 16),
		done: make(chan struct{}),
	}
}

// Subscribe records the topic.
func (s *MockSession) Subscribe(topic string) error {
	if s.SubscribeErr != nil {
		return s.SubscribeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	return nil
}

// Topics returns the topics subscribed so far.
func (s *MockSession) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.topics))
	copy(out, s.topics)
	return out
}

// Deliver queues an inbound message on the session.
func (s *MockSession) Deliver(topic string, body []byte) {
	s.msgs <- Message{Topic: topic, Body: body}
}

// Fail ends the session with a transport error.
func (s *MockSession) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.err = err
	close(s.msgs)
	close(s.done)
}

// Messages returns the inbound message channel.
func (s *MockSession) Messages() <-chan Message { return s.msgs }

// Done is closed when the session ends.
func (s *MockSession) Done() <-chan struct{} { return s.done }

// Err reports the transport error, or nil after an explicit Close.
func (s *MockSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.err
}

// Close ends the session without error.
func (s *MockSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ended {
		return nil
	}
	s.ended = true
	close(s.msgs)
	close(s.done)
	return nil
}

// Closed reports whether Close was called.
func (s *MockSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MockDialer is a scriptable Dialer for tests. The first FailFirst dials
// return DialErr; subsequent dials succeed with a fresh MockSession.
type MockDialer struct {
	// FailFirst is how many initial dials fail.
	FailFirst int
	// FailAll makes every dial fail.
	FailAll bool
	// DialErr is the error returned by failing dials. Defaults to
	// context.DeadlineExceeded when unset.
	DialErr error

	mu       sync.Mutex
	dials    int
	sessions []*MockSession
}

// Dial implements Dialer.
func (d *MockDialer) Dial(_ context.Context, _ string) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.FailAll || d.dials <= d.FailFirst {
		if d.DialErr != nil {
			return nil, d.DialErr
		}
		return nil, context.DeadlineExceeded
	}
	session := NewMockSession()
	d.sessions = append(d.sessions, session)
	return session, nil
}

// Dials returns how many times Dial was called.
func (d *MockDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// Session returns the i-th successfully dialed session, or nil.
func (d *MockDialer) Session(i int) *MockSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.sessions) {
		return nil
	}
	return d.sessions[i]
}
