// Package toast implements the bounded, time-evicting feed of transient
// alert items. The feed is independent of the unread count: dismissing a
// toast does not mark anything read.
package toast

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/logging"
)

// Feed defaults.
const (
	DefaultCapacity = 5
	DefaultDuration = 6 * time.Second
)

// Item is a transient alert queued for display. It is destroyed on
// timeout, explicit dismiss, or navigation via its link.
type Item struct {
	ID           uuid.UUID
	Notification domain.Notification
	InsertedAt   time.Time
	AutoDismiss  bool
	Duration     time.Duration
}

// EventType discriminates feed change events.
type EventType string

const (
	EventPushed    EventType = "pushed"
	EventDismissed EventType = "dismissed"
)

// Event reports a feed change to subscribers.
type Event struct {
	Type EventType
	Item Item
}

// NavigateFunc performs host navigation to a notification link.
type NavigateFunc func(link string) error

// Options configures a Feed.
type Options struct {
	// Capacity bounds the feed size. Defaults to DefaultCapacity.
	Capacity int
	// Duration is the auto-dismiss timeout per item. Defaults to DefaultDuration.
	Duration time.Duration
	// AutoDismiss controls whether pushed items schedule a dismiss timer.
	AutoDismiss bool
	// Clock drives auto-dismiss timers. Defaults to the wall clock.
	Clock clock.Clock
	// Navigate performs host navigation on ClickNavigate. May be nil.
	Navigate NavigateFunc
	// Logger receives feed events. Defaults to the global logger.
	Logger logging.Logger
	// EventBuffer sizes the change-event channel. Zero disables events.
	EventBuffer int
}

// Feed is a bounded, most-recent-first queue of transient alerts. Eviction
// is strict oldest-first at fixed capacity; a newly pushed item is never
// itself evicted by the same push.
type Feed struct {
	capacity    int
	duration    time.Duration
	autoDismiss bool
	clock       clock.Clock
	navigate    NavigateFunc
	log         logging.Logger

	mu     sync.Mutex
	items  []Item // index 0 = most recent
	timers map[uuid.UUID]*clock.Timer
	events chan Event
	closed bool
}

// NewFeed creates a Feed.
func NewFeed(opts Options) *Feed {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobal()
	}
	f := &Feed{
		capacity:    opts.Capacity,
		duration:    opts.Duration,
		autoDismiss: opts.AutoDismiss,
		clock:       opts.Clock,
		navigate:    opts.Navigate,
		log:         opts.Logger,
		timers:      make(map[uuid.UUID]*clock.Timer),
	}
	if opts.EventBuffer > 0 {
		f.events = make(chan Event, opts.EventBuffer)
	}
	return f
}

// Show wraps a notification in a new Item and pushes it.
func (f *Feed) Show(n domain.Notification) {
	f.Push(Item{
		ID:           uuid.New(),
		Notification: n,
		InsertedAt:   f.clock.Now(),
		AutoDismiss:  f.autoDismiss,
		Duration:     f.duration,
	})
}

// Push inserts an item at the front. If the feed exceeds its capacity, the
// oldest items are dropped until it fits. Items with AutoDismiss schedule a
// one-shot dismiss timer for their duration.
func (f *Feed) Push(item Item) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.items = append([]Item{item}, f.items...)
	var evicted []Item
	for len(f.items) > f.capacity {
		last := f.items[len(f.items)-1]
		f.items = f.items[:len(f.items)-1]
		f.cancelTimerLocked(last.ID)
		evicted = append(evicted, last)
	}
	if item.AutoDismiss {
		id := item.ID
		f.timers[id] = f.clock.AfterFunc(item.Duration, func() {
			f.Dismiss(id)
		})
	}
	f.emitLocked(Event{Type: EventPushed, Item: item})
	for _, e := range evicted {
		f.emitLocked(Event{Type: EventDismissed, Item: e})
	}
	f.mu.Unlock()
}

// Dismiss removes an item by id. It cancels the item's auto-dismiss timer
// so a manual dismiss followed by the timer firing has no duplicate effect.
// Dismissing an absent id is a no-op.
func (f *Feed) Dismiss(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelTimerLocked(id)
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			f.emitLocked(Event{Type: EventDismissed, Item: item})
			return true
		}
	}
	return false
}

// ClickNavigate performs host navigation for the item's link, then
// dismisses the item. Navigation and dismissal are not transactional: a
// failed navigation still dismisses the toast, and the navigation error is
// returned for the host to report.
func (f *Feed) ClickNavigate(id uuid.UUID) error {
	f.mu.Lock()
	var link string
	var found bool
	for _, item := range f.items {
		if item.ID == id {
			link = item.Notification.Link
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		return nil
	}

	var navErr error
	if link != "" && f.navigate != nil {
		navErr = f.navigate(link)
	}
	f.Dismiss(id)
	return navErr
}

// Items returns a most-recent-first snapshot of the feed.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

// Len returns the current feed size.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Events returns the change-event channel, or nil if events are disabled.
func (f *Feed) Events() <-chan Event {
	return f.events
}

// Shutdown cancels all pending auto-dismiss timers and closes the event
// channel. The feed accepts no further pushes.
func (f *Feed) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id := range f.timers {
		f.cancelTimerLocked(id)
	}
	if f.events != nil {
		close(f.events)
	}
}

// cancelTimerLocked stops and forgets the timer for id. Callers hold f.mu.
func (f *Feed) cancelTimerLocked(id uuid.UUID) {
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
}

// emitLocked delivers an event without blocking. A full subscriber channel
// drops the event; the feed itself remains the source of truth via Items.
func (f *Feed) emitLocked(e Event) {
	if f.events == nil || f.closed {
		return
	}
	select {
	case f.events <- e:
	default:
		f.log.Debug("toast event dropped, subscriber lagging", "type", string(e.Type))
	}
}
