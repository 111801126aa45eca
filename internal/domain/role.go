package domain

import "fmt"

// Role represents the role of the authenticated session. Only supervisors
// and workers receive push notifications; other roles subscribe to nothing.
type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleWorker     Role = "worker"
)

// IsValid checks if the role is one that participates in push delivery.
func (r Role) IsValid() bool {
	switch r {
	case RoleSupervisor, RoleWorker:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role.
func ParseRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", role)
	}
	return r, nil
}
