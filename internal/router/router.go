// Package router turns raw push messages into filtered notifications routed
// to the right consumers. Topic selection and recipient filtering are
// centralized here so the policy stays in one place.
package router

import (
	"errors"
	"fmt"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/logging"
)

// Broadcast topics published by the backend.
const (
	TopicSupervisors = "/topic/notifications/supervisors"
	TopicWorkers     = "/topic/notifications/workers"
)

// ErrNoTopic indicates a role that does not participate in push delivery.
var ErrNoTopic = errors.New("no push topic for role")

// TopicFor returns the broadcast topic for a role. Roles outside the
// supervisor/worker pair subscribe to nothing.
func TopicFor(role domain.Role) (string, error) {
	switch role {
	case domain.RoleSupervisor:
		return TopicSupervisors, nil
	case domain.RoleWorker:
		return TopicWorkers, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNoTopic, role)
	}
}

// ToastSink receives notifications accepted for display.
type ToastSink interface {
	Show(n domain.Notification)
}

// CountSink receives the unread-count increment for accepted notifications.
type CountSink interface {
	Increment()
}

// Router decodes inbound message bodies and applies the recipient filter
// before fanning accepted notifications out to its sinks. Communication is
// strictly one-way: sinks never call back into the router.
type Router struct {
	role   domain.Role
	userID int64
	toasts ToastSink
	counts CountSink
	log    logging.Logger
}

// New creates a Router for the given session role and user.
func New(role domain.Role, userID int64, toasts ToastSink, counts CountSink, log logging.Logger) *Router {
	if log == nil {
		log = logging.GetGlobal()
	}
	return &Router{
		role:   role,
		userID: userID,
		toasts: toasts,
		counts: counts,
		log:    log,
	}
}

// Accepts applies the recipient filter. Worker sessions drop notifications
// addressed to a different worker; supervisor sessions see everything on
// their topic.
func (r *Router) Accepts(n domain.Notification) bool {
	if r.role != domain.RoleWorker {
		return true
	}
	return n.Recipient.Matches(r.userID)
}

// Route decodes a raw message body and forwards the notification to the
// toast and count sinks if it survives filtering. Malformed payloads are
// dropped and logged; nothing propagates to the caller.
func (r *Router) Route(body []byte) {
	n, err := domain.DecodeNotification(body)
	if err != nil {
		r.log.Warn("dropping undecodable push message", "error", err)
		return
	}
	if !r.Accepts(n) {
		r.log.Debug("dropping notification for another recipient",
			"notification_id", n.ID, "recipient", n.Recipient.Value)
		return
	}
	r.toasts.Show(n)
	r.counts.Increment()
}
