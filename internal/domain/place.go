package domain

import (
	"time"

	"github.com/google/uuid"
)

// Place is a storage space offered by a host.
type Place struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	User          User
	Title         string
	Category      string
	MaxPeriodDays int
	Location      string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
