package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire type values used by the backend. The backend vocabulary predates the
// local kinds and does not map one-to-one: both WARNING and ERROR render as
// error severity locally, while ALERT renders as warning.
const (
	WireAlert   = "ALERT"
	WireWarning = "WARNING"
	WireInfo    = "INFO"
	WireError   = "ERROR"
)

// wireNotification mirrors the JSON body published on the push topics.
type wireNotification struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Type      string      `json:"type"`
	Read      bool        `json:"read"`
	Link      string      `json:"link,omitempty"`
	WorkerID  RecipientID `json:"workerId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// KindFromWire maps a backend type value to a local kind.
func KindFromWire(wireType string) (Kind, error) {
	switch wireType {
	case WireAlert:
		return KindWarning, nil
	case WireWarning:
		return KindError, nil
	case WireInfo:
		return KindInfo, nil
	case WireError:
		return KindError, nil
	default:
		return "", fmt.Errorf("unknown notification type %q", wireType)
	}
}

// DecodeNotificationList parses a JSON array of notifications as returned
// by the list endpoints. Entries with an unknown type value are skipped so
// one bad record cannot poison a whole resync; malformed JSON is an error.
func DecodeNotificationList(data []byte) ([]Notification, error) {
	var wires []wireNotification
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("decode notification list: %w", err)
	}
	out := make([]Notification, 0, len(wires))
	for _, wire := range wires {
		kind, err := KindFromWire(wire.Type)
		if err != nil {
			continue
		}
		out = append(out, Notification{
			ID:        wire.ID,
			Title:     wire.Title,
			Message:   wire.Message,
			Kind:      kind,
			Read:      wire.Read,
			Link:      wire.Link,
			Recipient: wire.WorkerID,
			CreatedAt: wire.CreatedAt,
		})
	}
	return out, nil
}

// DecodeNotification parses a raw push message body into a Notification.
// Returns an error for malformed JSON or an unknown type value; callers
// drop and log such messages rather than propagating the failure.
func DecodeNotification(data []byte) (Notification, error) {
	var wire wireNotification
	if err := json.Unmarshal(data, &wire); err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	kind, err := KindFromWire(wire.Type)
	if err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	return Notification{
		ID:        wire.ID,
		Title:     wire.Title,
		Message:   wire.Message,
		Kind:      kind,
		Read:      wire.Read,
		Link:      wire.Link,
		Recipient: wire.WorkerID,
		CreatedAt: wire.CreatedAt,
	}, nil
}
