// Package reconcile owns the unread count: fast optimistic updates from
// push delivery and user actions, periodically overwritten by the
// authoritative server-fetched value.
package reconcile

import "sync"

// Counter is the single owner of the unread count. The value is eventually
// consistent with the server: optimistic mutations may drift, and the next
// authoritative Set corrects them. It is never observed negative.
type Counter struct {
	mu    sync.Mutex
	value int
}

// NewCounter creates a Counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Value returns the current unread count.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Increment adds one, called when a pushed notification is accepted.
func (c *Counter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
}

// DecrementBy subtracts n, clamping at zero. Non-positive n is a no-op.
// Called when the UI marks notifications read or deletes them.
func (c *Counter) DecrementBy(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value -= n
	if c.value < 0 {
		c.value = 0
	}
}

// Set overwrites the count with an authoritative value, clamping at zero.
// It always wins over any pending optimistic delta.
func (c *Counter) Set(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.value = n
}
