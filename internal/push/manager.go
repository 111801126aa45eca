// Package push owns the lifecycle of the push transport session: connect,
// subscribe, failure detection, and bounded reconnection. There is at most
// one live session per Manager; establishing a new one supersedes the old.
package push

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/depotray/depotray/internal/logging"
	"github.com/depotray/depotray/internal/transport"
)

// State represents the lifecycle state of the push session.
type State string

const (
	StateDisconnected  State = "disconnected"
	StateConnecting    State = "connecting"
	StateConnected     State = "connected"
	StateReconnectWait State = "reconnect_wait"
	StateFailed        State = "failed"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Reconnection defaults.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 3 * time.Second
)

// ErrAttemptsExhausted is reported through OnError once every connection
// attempt has failed. It is non-fatal to the host: the rest of the
// application keeps running with stale counts.
var ErrAttemptsExhausted = errors.New("push: connection attempts exhausted")

// Options configures a Manager.
type Options struct {
	// URL is the push endpoint, e.g. "ws://host:8080/ws".
	URL string
	// Topic is the broadcast topic to subscribe after the handshake.
	Topic string
	// Dialer establishes transport sessions.
	Dialer transport.Dialer
	// Clock drives the reconnect-wait timer. Defaults to the wall clock.
	Clock clock.Clock
	// Logger receives lifecycle events. Defaults to the global logger.
	Logger logging.Logger
	// MaxAttempts bounds consecutive failed connection attempts.
	MaxAttempts int
	// BaseDelay is multiplied by the failed-attempt count for linear backoff.
	BaseDelay time.Duration
	// OnMessage receives every inbound message. It must not block.
	OnMessage func(msg transport.Message)
	// OnConnected fires each time the session reaches CONNECTED.
	OnConnected func()
	// OnError fires once when the attempt budget is exhausted.
	OnError func(err error)
}

// Manager maintains exactly one logical push session.
type Manager struct {
	opts Options

	mu       sync.Mutex
	state    State
	attempts int
	gen      int
	session  transport.Session
	timer    *clock.Timer
}

// NewManager creates a Manager in the DISCONNECTED state.
func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobal()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Manager{opts: opts, state: StateDisconnected}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect starts the connection lifecycle. It is idempotent: calling it
// while a session is live or an attempt is in flight is a no-op. Calling
// it from FAILED starts a fresh attempt budget.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateConnecting, StateConnected, StateReconnectWait:
		return
	}
	m.gen++
	m.attempts = 0
	m.state = StateConnecting
	go m.dial(m.gen)
}

// Stop tears the session down from any state. It cancels any pending
// reconnect timer, closes the live session, and resets the attempt count.
// A reconnect timer that fires after Stop is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.gen++
	m.attempts = 0
	m.state = StateDisconnected
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	session := m.session
	m.session = nil
	m.mu.Unlock()

	if session != nil {
		session.Close()
	}
}

// dial performs one connection attempt for the given generation.
func (m *Manager) dial(gen int) {
	session, err := m.opts.Dialer.Dial(context.Background(), m.opts.URL)
	if err == nil {
		if subErr := session.Subscribe(m.opts.Topic); subErr != nil {
			session.Close()
			err = subErr
		}
	}

	m.mu.Lock()
	if gen != m.gen {
		// Superseded by Stop or a newer Connect.
		m.mu.Unlock()
		if err == nil {
			session.Close()
		}
		return
	}
	if err != nil {
		m.opts.Logger.Warn("push connection attempt failed", "url", m.opts.URL, "error", err)
		m.scheduleRetryLocked(gen)
		m.mu.Unlock()
		return
	}
	m.state = StateConnected
	m.attempts = 0
	m.session = session
	m.mu.Unlock()

	m.opts.Logger.Info("push session connected", "topic", m.opts.Topic)
	if m.opts.OnConnected != nil {
		m.opts.OnConnected()
	}
	go m.pump(gen, session)
}

// pump forwards inbound messages until the session ends, then hands the
// disconnect back to the state machine.
func (m *Manager) pump(gen int, session transport.Session) {
	for msg := range session.Messages() {
		if m.opts.OnMessage != nil {
			m.opts.OnMessage(msg)
		}
	}
	<-session.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.session = nil
	if err := session.Err(); err != nil {
		m.opts.Logger.Warn("push session lost", "error", err)
	}
	m.scheduleRetryLocked(gen)
}

// scheduleRetryLocked records a failed attempt and either schedules the
// next one with linear backoff or gives up. Callers hold m.mu.
func (m *Manager) scheduleRetryLocked(gen int) {
	m.attempts++
	if m.attempts >= m.opts.MaxAttempts {
		m.state = StateFailed
		m.timer = nil
		m.opts.Logger.Error("push connection failed permanently", "attempts", m.attempts)
		if m.opts.OnError != nil {
			attempts := m.attempts
			go m.opts.OnError(fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, attempts))
		}
		return
	}
	delay := time.Duration(m.attempts) * m.opts.BaseDelay
	m.state = StateReconnectWait
	m.opts.Logger.Info("push reconnect scheduled", "attempt", m.attempts, "delay", delay)
	m.timer = m.opts.Clock.AfterFunc(delay, func() {
		m.onRetryTimer(gen)
	})
}

// onRetryTimer moves RECONNECT_WAIT back to CONNECTING when the backoff
// timer elapses. Stale generations (after Stop) are ignored.
func (m *Manager) onRetryTimer(gen int) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateReconnectWait {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.timer = nil
	m.mu.Unlock()
	m.dial(gen)
}
