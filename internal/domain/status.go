package domain

import "fmt"

// Status is the lifecycle state of a Matching.
type Status string

const (
	// StatusUnassigned: the product is waiting for a place.
	StatusUnassigned Status = "UNASSIGNED"
	// StatusRequested: a place was chosen and the host has not answered yet.
	StatusRequested Status = "REQUESTED"
	// StatusPending: the host accepted and the guest has not handed over the product.
	StatusPending Status = "PENDING"
	// StatusStored: the guest confirmed the product is stored.
	StatusStored Status = "STORED"
	// StatusCompleted: both sides marked the storage complete.
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus converts s into a Status, rejecting unrecognised values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusUnassigned, StatusRequested, StatusPending, StatusStored, StatusCompleted:
		return true
	}
	return false
}
