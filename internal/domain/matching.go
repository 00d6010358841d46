package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/geo"
)

// Matching pairs one guest product with (eventually) one host place and tracks
// the storage arrangement from request to completion.
//
// Place, Distance and ExpiryDate are nil exactly when Status is
// StatusUnassigned. Product never changes after creation.
type Matching struct {
	ID             uuid.UUID
	Product        *Product
	Place          *Place
	Status         Status
	HostCompleted  bool
	GuestCompleted bool
	Distance       *int // metres between guest and host
	StartDate      time.Time
	ExpiryDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUnassignedMatching starts a matching for product with no place chosen.
// The product is not modified.
func NewUnassignedMatching(product *Product, now time.Time) (*Matching, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is required", ErrValidation)
	}
	return &Matching{
		ID:        uuid.New(),
		Product:   product,
		Status:    StatusUnassigned,
		StartDate: now,
	}, nil
}

// NewRequestedMatching starts a matching that immediately requests place.
// Use NewUnassignedMatching when there is no place.
func NewRequestedMatching(product *Product, place *Place, now time.Time) (*Matching, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is required", ErrValidation)
	}
	if place == nil {
		return nil, fmt.Errorf("%w: place is required", ErrValidation)
	}

	distance := Distance(product.User, place.User)
	expiry := product.ExpiryFrom(now)
	m := &Matching{
		ID:         uuid.New(),
		Product:    product,
		Place:      place,
		Status:     StatusRequested,
		Distance:   &distance,
		StartDate:  now,
		ExpiryDate: &expiry,
	}
	product.MarkPlaced()
	return m, nil
}

// AssignPlace points the matching at place and re-opens it as a request.
// The expiry is measured from now, not from StartDate. The current status is
// not checked; callers decide when reassignment makes sense.
func (m *Matching) AssignPlace(place *Place, now time.Time) error {
	if place == nil {
		return fmt.Errorf("%w: place is required", ErrValidation)
	}

	distance := Distance(m.Product.User, place.User)
	expiry := m.Product.ExpiryFrom(now)
	m.Place = place
	m.Distance = &distance
	m.Status = StatusRequested
	m.ExpiryDate = &expiry
	m.Product.MarkPlaced()
	return nil
}

// AcceptRequest records the host's acceptance of a requested place.
func (m *Matching) AcceptRequest() error {
	if m.Status != StatusRequested {
		return ErrIncorrectStatusForHostAcceptance
	}
	m.Status = StatusPending
	return nil
}

// Cancel withdraws a pending request and frees the product for another place.
// The acting user is not used for authorisation here. Distance and ExpiryDate
// are cleared with the place.
func (m *Matching) Cancel(_ User) error {
	if m.Status != StatusPending {
		return ErrCancellationNotAllowed
	}

	m.Product.Unassign()
	m.Status = StatusUnassigned
	m.Place = nil
	m.Distance = nil
	m.ExpiryDate = nil
	return nil
}

// CompleteStorage marks the actor's side of the arrangement as finished.
// Each side completes once; the matching is COMPLETED when both have.
func (m *Matching) CompleteStorage(actor User) error {
	if err := actor.Role.completeStorage(m); err != nil {
		return err
	}
	if m.GuestCompleted && m.HostCompleted {
		m.Status = StatusCompleted
	}
	return nil
}

// ConfirmStorageByGuest records that the guest handed the product over.
func (m *Matching) ConfirmStorageByGuest() error {
	if m.Status != StatusPending {
		return ErrIncorrectStatusForGuestConfirmation
	}
	m.Status = StatusStored
	return nil
}

// CheckInvariants reports every structural inconsistency in m, or nil.
func (m *Matching) CheckInvariants() error {
	var errs []error
	if !m.Status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %q", m.Status))
	}
	if m.Product == nil {
		errs = append(errs, errors.New("product is missing"))
	} else if m.Product.IsPlaced != (m.Place != nil) {
		errs = append(errs, fmt.Errorf("product placed flag %t disagrees with place presence", m.Product.IsPlaced))
	}

	unassigned := m.Status == StatusUnassigned
	if unassigned != (m.Place == nil) {
		errs = append(errs, fmt.Errorf("status %s disagrees with place presence", m.Status))
	}
	if unassigned != (m.Distance == nil) {
		errs = append(errs, fmt.Errorf("status %s disagrees with distance presence", m.Status))
	}
	if unassigned != (m.ExpiryDate == nil) {
		errs = append(errs, fmt.Errorf("status %s disagrees with expiry presence", m.Status))
	}
	if (m.GuestCompleted && m.HostCompleted) != (m.Status == StatusCompleted) {
		errs = append(errs, fmt.Errorf("completion flags (guest=%t, host=%t) disagree with status %s",
			m.GuestCompleted, m.HostCompleted, m.Status))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("matching %s: %w", m.ID, errors.Join(errs...))
}

// Distance returns the metres between a guest and a host.
func Distance(guest, host User) int {
	return geo.Distance(guest.Point(), host.Point())
}
