// Package domain provides the domain layer for live notifications.
// It contains the notification model, severity kinds, session roles,
// and the wire-format decoding rules for server-pushed messages.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Notification represents a single notification delivered to the client,
// either over the push transport or from a polled list fetch. It is
// immutable once delivered; the client only ever marks it read or deletes it.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	Kind      Kind
	Read      bool
	Link      string
	Recipient RecipientID
	CreatedAt time.Time
}

// Kind represents the severity kind of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindInfo, KindWarning, KindError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// RecipientID is an optional worker id a notification is addressed to.
// The server may encode it as a JSON number or a string; both forms
// normalize to the same comparable value.
type RecipientID struct {
	Value   int64
	Present bool
}

// Matches reports whether the recipient id targets the given user id.
// An absent recipient matches everyone.
func (r RecipientID) Matches(userID int64) bool {
	if !r.Present {
		return true
	}
	return r.Value == userID
}

// UnmarshalJSON accepts null, a JSON number, or a numeric string.
func (r *RecipientID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RecipientID{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*r = RecipientID{Value: int64(v), Present: true}
		return nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid recipient id %q: %w", v, err)
		}
		*r = RecipientID{Value: n, Present: true}
		return nil
	default:
		return fmt.Errorf("invalid recipient id type %T", raw)
	}
}

// MarshalJSON encodes the recipient as a number, or null when absent.
func (r RecipientID) MarshalJSON() ([]byte, error) {
	if !r.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(r.Value, 10)), nil
}
