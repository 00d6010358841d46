package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item a guest wants stored.
// IsPlaced is toggled by Matching transitions and must agree with whether the
// product's matching currently has a place.
type Product struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	User        User
	Title       string
	Category    string
	PeriodDays  int // requested storage period
	Description string
	IsPlaced    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkPlaced flags the product as assigned to a place.
func (p *Product) MarkPlaced() {
	p.IsPlaced = true
}

// Unassign clears the placed flag.
func (p *Product) Unassign() {
	p.IsPlaced = false
}

// ExpiryFrom returns the end of the storage period when it starts at t.
// Periods are whole calendar days.
func (p *Product) ExpiryFrom(t time.Time) time.Time {
	return t.AddDate(0, 0, p.PeriodDays)
}
