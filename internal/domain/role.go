package domain

import (
	"fmt"
	"strings"
)

// Role is the side of the marketplace a User acts on.
type Role string

const (
	// RoleGuest owns products that need storage.
	RoleGuest Role = "GUEST"
	// RoleHost offers places where products are stored.
	RoleHost Role = "HOST"
)

// ParseRole converts s (case-insensitive) into a Role.
// Returns ErrValidation for anything other than GUEST or HOST.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleHost
}

// completeStorage marks r's side of m as complete.
func (r Role) completeStorage(m *Matching) error {
	switch r {
	case RoleGuest:
		if m.GuestCompleted {
			return ErrGuestAlreadyCompletedKeeping
		}
		m.GuestCompleted = true
	case RoleHost:
		if m.HostCompleted {
			return ErrHostAlreadyCompletedKeeping
		}
		m.HostCompleted = true
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, string(r))
	}
	return nil
}
