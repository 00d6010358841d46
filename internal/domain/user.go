package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/geo"
)

// User is a marketplace participant. Latitude and Longitude are only used to
// compute the distance between a guest and a host.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

// Point returns the user's location.
func (u User) Point() geo.Point {
	return geo.Point{Latitude: u.Latitude, Longitude: u.Longitude}
}
