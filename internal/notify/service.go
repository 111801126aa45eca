// Package notify wires the live notification subsystem together: the push
// connection manager, the topic router, the toast feed, and the unread-count
// reconciliation engine. Hosts construct a Service per authenticated session.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/logging"
	"github.com/depotray/depotray/internal/push"
	"github.com/depotray/depotray/internal/reconcile"
	"github.com/depotray/depotray/internal/router"
	"github.com/depotray/depotray/internal/toast"
	"github.com/depotray/depotray/internal/transport"
)

// rawBuffer bounds the decoded-message handoff between the transport
// callback and the dispatch goroutine. The callback never blocks: when the
// consumer lags behind the buffer, messages drop and the next resync
// corrects the count.
const rawBuffer = 64

// Deleter deletes notifications server-side.
type Deleter interface {
	DeleteNotification(ctx context.Context, id int64) error
}

// Options configures a Service.
type Options struct {
	// Role of the authenticated session. Roles outside supervisor/worker
	// receive no push subscription and no resync schedule.
	Role domain.Role
	// UserID identifies the local user for recipient filtering and fetches.
	UserID int64
	// WSURL is the push endpoint.
	WSURL string
	// Fetcher provides the authoritative unread set.
	Fetcher reconcile.UnreadFetcher
	// Deleter backs the mark-read flow. May equal Fetcher.
	Deleter Deleter
	// Dialer establishes push sessions.
	Dialer transport.Dialer
	// Clock drives every timer family. Defaults to the wall clock.
	Clock clock.Clock
	// Logger defaults to the global logger.
	Logger logging.Logger

	// ToastCapacity, ToastDuration, and AutoDismiss configure the feed.
	ToastCapacity int
	ToastDuration time.Duration
	AutoDismiss   bool
	// ToastEventBuffer sizes the feed's change-event channel.
	ToastEventBuffer int
	// Navigate performs host navigation for toast links.
	Navigate toast.NavigateFunc

	// ResyncInterval is the authoritative refresh period.
	ResyncInterval time.Duration
	// ReconnectBaseDelay and ReconnectMaxAttempts bound reconnection.
	ReconnectBaseDelay   time.Duration
	ReconnectMaxAttempts int

	// OnConnected fires when the push session is established.
	OnConnected func()
	// OnError fires when the push connection gives up. Non-fatal.
	OnError func(err error)
}

// Service owns the live notification subsystem for one session.
type Service struct {
	opts    Options
	log     logging.Logger
	feed    *toast.Feed
	counter *reconcile.Counter
	resync  *reconcile.Resyncer
	router  *router.Router
	manager *push.Manager

	mu      sync.Mutex
	started bool
	raw     chan transport.Message
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New assembles a Service from options. The push manager is only created
// when the role maps to a topic; other roles still get a feed and counter
// so the host UI renders consistently.
func New(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobal()
	}

	s := &Service{
		opts:    opts,
		log:     opts.Logger,
		counter: reconcile.NewCounter(),
	}
	s.feed = toast.NewFeed(toast.Options{
		Capacity:    opts.ToastCapacity,
		Duration:    opts.ToastDuration,
		AutoDismiss: opts.AutoDismiss,
		Clock:       opts.Clock,
		Navigate:    opts.Navigate,
		Logger:      opts.Logger,
		EventBuffer: opts.ToastEventBuffer,
	})
	s.router = router.New(opts.Role, opts.UserID, s.feed, s.counter, opts.Logger)
	s.resync = reconcile.NewResyncer(s.counter, opts.Fetcher, opts.UserID, opts.ResyncInterval, opts.Clock, opts.Logger)

	if topic, err := router.TopicFor(opts.Role); err == nil {
		s.manager = push.NewManager(push.Options{
			URL:         opts.WSURL,
			Topic:       topic,
			Dialer:      opts.Dialer,
			Clock:       opts.Clock,
			Logger:      opts.Logger,
			MaxAttempts: opts.ReconnectMaxAttempts,
			BaseDelay:   opts.ReconnectBaseDelay,
			OnMessage:   s.enqueue,
			OnConnected: opts.OnConnected,
			OnError:     opts.OnError,
		})
	} else {
		opts.Logger.Debug("role has no push topic, live delivery disabled", "role", opts.Role.String())
	}
	return s
}

// Start connects the push session and launches the reconciliation
// schedule. It is idempotent. An immediate refresh seeds the count; the
// periodic timer keeps it reconciled afterwards.
func (s *Service) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.raw = make(chan transport.Message, rawBuffer)
	s.stop = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.dispatch()

	if s.opts.Role.IsValid() {
		s.resync.Refresh(context.Background())
		s.resync.Start()
	}
	if s.manager != nil {
		s.manager.Connect()
	}
}

// Stop tears down all three timer families and the transport: the
// reconnect-wait timer, the resync ticker, and every pending auto-dismiss
// timer. Safe to call from any state, any number of times.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	stop := s.stop
	s.mu.Unlock()

	if s.manager != nil {
		s.manager.Stop()
	}
	s.resync.Stop()
	close(stop)
	s.wg.Wait()
	s.feed.Shutdown()
}

// enqueue hands a raw transport message to the dispatch goroutine without
// blocking the transport callback.
func (s *Service) enqueue(msg transport.Message) {
	s.mu.Lock()
	raw := s.raw
	started := s.started
	s.mu.Unlock()
	if !started || raw == nil {
		return
	}
	select {
	case raw <- msg:
	default:
		s.log.Warn("notification dispatch buffer full, dropping message", "topic", msg.Topic)
	}
}

// dispatch consumes raw messages and routes them. Decoding and filtering
// are synchronous and fast; the only slow operation (the resync fetch)
// runs on its own schedule and never blocks this loop.
func (s *Service) dispatch() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.raw:
			s.router.Route(msg.Body)
		case <-s.stop:
			return
		}
	}
}

// MarkRead deletes the given notifications server-side and optimistically
// decrements the unread count by the number of successful deletions. If any
// deletion fails, a corrective refresh re-syncs the count and an error is
// returned for the host to report.
func (s *Service) MarkRead(ctx context.Context, ids ...int64) error {
	if s.opts.Deleter == nil {
		return errors.New("notify: no deleter configured")
	}
	var errs []error
	deleted := 0
	for _, id := range ids {
		if err := s.opts.Deleter.DeleteNotification(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("notification %d: %w", id, err))
			continue
		}
		deleted++
	}
	s.counter.DecrementBy(deleted)
	if len(errs) > 0 {
		s.resync.Refresh(ctx)
		return errors.Join(errs...)
	}
	return nil
}

// UnreadCount returns the current unread count.
func (s *Service) UnreadCount() int {
	return s.counter.Value()
}

// Refresh forces an immediate authoritative resync.
func (s *Service) Refresh(ctx context.Context) {
	s.resync.Refresh(ctx)
}

// Feed returns the toast feed for host rendering.
func (s *Service) Feed() *toast.Feed {
	return s.feed
}

// ConnectionState reports the push session state, or DISCONNECTED when the
// role has no push topic.
func (s *Service) ConnectionState() push.State {
	if s.manager == nil {
		return push.StateDisconnected
	}
	return s.manager.State()
}
