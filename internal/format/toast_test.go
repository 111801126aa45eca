package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/toast"
)

func TestToast(t *testing.T) {
	tests := []struct {
		name     string
		item     toast.Item
		contains []string
		excludes []string
	}{
		{
			name: "title and message",
			item: toast.Item{Notification: domain.Notification{
				Kind: domain.KindWarning, Title: "Low stock", Message: "Aisle 4 below threshold",
			}},
			contains: []string{"[warning]", "Low stock", "Aisle 4 below threshold"},
		},
		{
			name: "link rendered when present",
			item: toast.Item{Notification: domain.Notification{
				Kind: domain.KindInfo, Title: "Pick task", Link: "/shipments/881",
			}},
			contains: []string{"[info]", "/shipments/881"},
		},
		{
			name: "no message separator without a message",
			item: toast.Item{Notification: domain.Notification{
				Kind: domain.KindError, Title: "Dock offline",
			}},
			contains: []string{"[error]", "Dock offline"},
			excludes: []string{": "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Toast(tt.item)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestUnreadBadge(t *testing.T) {
	assert.Equal(t, "no unread notifications", UnreadBadge(0))
	assert.Contains(t, UnreadBadge(7), "unread: 7")
}

func TestNotificationLine(t *testing.T) {
	unread := domain.Notification{ID: 42, Kind: domain.KindInfo, Title: "Pick task", Read: false}
	line := NotificationLine(unread)
	assert.Contains(t, line, "*")
	assert.Contains(t, line, "42")
	assert.Contains(t, line, "Pick task")

	read := unread
	read.Read = true
	assert.NotContains(t, NotificationLine(read), "*")
}
