package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/logging"
)

// DefaultInterval is how often the count is resynced against the server.
const DefaultInterval = 30 * time.Second

// UnreadFetcher fetches the authoritative unread set for a user.
type UnreadFetcher interface {
	UnreadNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
}

// Resyncer periodically overwrites the counter with the server's unread
// cardinality. Fetch failure is swallowed: the last known value is retained and
// no error surfaces to the user.
type Resyncer struct {
	counter  *Counter
	fetcher  UnreadFetcher
	userID   int64
	interval time.Duration
	clock    clock.Clock
	log      logging.Logger

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewResyncer creates a Resyncer. interval <= 0 falls back to DefaultInterval;
// a nil clock falls back to the wall clock.
func NewResyncer(counter *Counter, fetcher UnreadFetcher, userID int64, interval time.Duration, clk clock.Clock, log logging.Logger) *Resyncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = logging.GetGlobal()
	}
	return &Resyncer{
		counter:  counter,
		fetcher:  fetcher,
		userID:   userID,
		interval: interval,
		clock:    clk,
		log:      log,
	}
}

// Refresh fetches the current unread set and sets the counter to its exact
// size. It is idempotent and always wins over optimistic drift. On fetch
// failure the previous value is retained and no error is returned.
func (r *Resyncer) Refresh(ctx context.Context) {
	list, err := r.fetcher.UnreadNotifications(ctx, r.userID)
	if err != nil {
		r.log.Debug("unread resync failed, keeping last known count", "error", err)
		return
	}
	r.counter.Set(len(list))
}

// Start launches the periodic resync loop. Calling Start on a running
// Resyncer is a no-op.
func (r *Resyncer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return
	}
	stop := make(chan struct{})
	r.stop = stop
	ticker := r.clock.Ticker(r.interval)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Refresh(context.Background())
			case <-stop:
				return
			}
		}
	}()
}

// Stop cancels the periodic resync loop and waits for it to finish.
// Safe to call when not running.
func (r *Resyncer) Stop() {
	r.mu.Lock()
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	r.wg.Wait()
}
