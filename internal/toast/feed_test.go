package toast

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depotray/depotray/internal/domain"
)

func testNotification(id int64) domain.Notification {
	return domain.Notification{
		ID:      id,
		Title:   fmt.Sprintf("notification %d", id),
		Message: "test message",
		Kind:    domain.KindInfo,
	}
}

func testItem(id int64) Item {
	return Item{
		ID:           uuid.New(),
		Notification: testNotification(id),
		AutoDismiss:  false,
		Duration:     DefaultDuration,
	}
}

func TestFeed_Push_Bounded(t *testing.T) {
	t.Run("size never exceeds capacity", func(t *testing.T) {
		feed := NewFeed(Options{Capacity: 5})
		for i := int64(1); i <= 20; i++ {
			feed.Push(testItem(i))
			assert.LessOrEqual(t, feed.Len(), 5)
		}
	})

	t.Run("six pushes keep most recent five in order", func(t *testing.T) {
		feed := NewFeed(Options{Capacity: 5})
		for i := int64(1); i <= 6; i++ {
			feed.Push(testItem(i))
		}
		items := feed.Items()
		require.Len(t, items, 5)
		var ids []int64
		for _, item := range items {
			ids = append(ids, item.Notification.ID)
		}
		assert.Equal(t, []int64{6, 5, 4, 3, 2}, ids)
	})

	t.Run("newly pushed item is never evicted by its own push", func(t *testing.T) {
		feed := NewFeed(Options{Capacity: 1})
		for i := int64(1); i <= 3; i++ {
			item := testItem(i)
			feed.Push(item)
			items := feed.Items()
			require.Len(t, items, 1)
			assert.Equal(t, item.ID, items[0].ID)
		}
	})
}

func TestFeed_Dismiss(t *testing.T) {
	t.Run("removes by id", func(t *testing.T) {
		feed := NewFeed(Options{})
		item := testItem(1)
		feed.Push(item)
		assert.True(t, feed.Dismiss(item.ID))
		assert.Equal(t, 0, feed.Len())
	})

	t.Run("no-op for absent id", func(t *testing.T) {
		feed := NewFeed(Options{})
		feed.Push(testItem(1))
		assert.False(t, feed.Dismiss(uuid.New()))
		assert.Equal(t, 1, feed.Len())
	})
}

func TestFeed_AutoDismiss(t *testing.T) {
	t.Run("item dismissed after its duration", func(t *testing.T) {
		mock := clock.NewMock()
		feed := NewFeed(Options{AutoDismiss: true, Duration: 6 * time.Second, Clock: mock})
		feed.Show(testNotification(1))
		require.Equal(t, 1, feed.Len())

		mock.Add(5 * time.Second)
		assert.Equal(t, 1, feed.Len())

		mock.Add(time.Second)
		assert.Equal(t, 0, feed.Len())
	})

	t.Run("manual dismiss cancels the timer", func(t *testing.T) {
		mock := clock.NewMock()
		feed := NewFeed(Options{AutoDismiss: true, Duration: 6 * time.Second, Clock: mock, EventBuffer: 16})
		feed.Show(testNotification(1))
		items := feed.Items()
		require.Len(t, items, 1)

		assert.True(t, feed.Dismiss(items[0].ID))
		mock.Add(10 * time.Second)

		// One pushed and one dismissed event; the timer firing later must
		// not produce a second dismissal.
		var dismissed int
		for len(feed.Events()) > 0 {
			if ev := <-feed.Events(); ev.Type == EventDismissed {
				dismissed++
			}
		}
		assert.Equal(t, 1, dismissed)
	})

	t.Run("eviction cancels the evicted item's timer", func(t *testing.T) {
		mock := clock.NewMock()
		feed := NewFeed(Options{Capacity: 1, AutoDismiss: true, Duration: 6 * time.Second, Clock: mock})
		feed.Show(testNotification(1))
		feed.Show(testNotification(2))
		require.Equal(t, 1, feed.Len())

		// Only the live item's timer fires.
		mock.Add(6 * time.Second)
		assert.Equal(t, 0, feed.Len())
	})
}

func TestFeed_ClickNavigate(t *testing.T) {
	t.Run("navigates and dismisses", func(t *testing.T) {
		var visited string
		feed := NewFeed(Options{Navigate: func(link string) error {
			visited = link
			return nil
		}})
		n := testNotification(1)
		n.Link = "/shipments/881"
		feed.Show(n)
		items := feed.Items()
		require.Len(t, items, 1)

		require.NoError(t, feed.ClickNavigate(items[0].ID))
		assert.Equal(t, "/shipments/881", visited)
		assert.Equal(t, 0, feed.Len())
	})

	t.Run("failed navigation still dismisses", func(t *testing.T) {
		navErr := errors.New("route not found")
		feed := NewFeed(Options{Navigate: func(string) error { return navErr }})
		n := testNotification(1)
		n.Link = "/nowhere"
		feed.Show(n)
		items := feed.Items()
		require.Len(t, items, 1)

		err := feed.ClickNavigate(items[0].ID)
		assert.ErrorIs(t, err, navErr)
		assert.Equal(t, 0, feed.Len())
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		feed := NewFeed(Options{})
		assert.NoError(t, feed.ClickNavigate(uuid.New()))
	})

	t.Run("item without link only dismisses", func(t *testing.T) {
		called := false
		feed := NewFeed(Options{Navigate: func(string) error {
			called = true
			return nil
		}})
		feed.Show(testNotification(1))
		items := feed.Items()
		require.Len(t, items, 1)

		require.NoError(t, feed.ClickNavigate(items[0].ID))
		assert.False(t, called)
		assert.Equal(t, 0, feed.Len())
	})
}

func TestFeed_Events(t *testing.T) {
	feed := NewFeed(Options{EventBuffer: 8})
	item := testItem(1)
	feed.Push(item)
	feed.Dismiss(item.ID)

	ev := <-feed.Events()
	assert.Equal(t, EventPushed, ev.Type)
	assert.Equal(t, item.ID, ev.Item.ID)

	ev = <-feed.Events()
	assert.Equal(t, EventDismissed, ev.Type)
	assert.Equal(t, item.ID, ev.Item.ID)
}

func TestFeed_Shutdown(t *testing.T) {
	mock := clock.NewMock()
	feed := NewFeed(Options{AutoDismiss: true, Duration: 6 * time.Second, Clock: mock, EventBuffer: 8})
	feed.Show(testNotification(1))
	feed.Shutdown()

	// Events channel closes and later pushes are ignored.
	for range feed.Events() {
	}
	feed.Push(testItem(2))
	assert.Equal(t, 1, feed.Len())

	// Safe to call twice.
	feed.Shutdown()

	// Canceled timers do not fire after shutdown.
	mock.Add(time.Minute)
	assert.Equal(t, 1, feed.Len())
}
