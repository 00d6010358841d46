package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/repo"
)

// PlaceService implements business logic for Place operations.
type PlaceService struct {
	store repo.Store
}

// NewPlaceService constructs a PlaceService backed by the provided Store.
func NewPlaceService(store repo.Store) *PlaceService {
	return &PlaceService{store: store}
}

// Create validates a place, checks its owner is a host, then persists it.
// Returns domain.ErrValidation for invalid input or a non-host owner and
// domain.ErrNotFound if the owner does not exist.
func (s *PlaceService) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	if err := validatePlace(place); err != nil {
		return domain.Place{}, err
	}

	r := s.store.Repos()
	owner, err := r.Users.GetByID(ctx, place.UserID)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	if owner.Role != domain.RoleHost {
		return domain.Place{}, fmt.Errorf("%w: only hosts can offer places", domain.ErrValidation)
	}

	result, err := r.Places.Create(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	return result, nil
}

// Update replaces the editable fields of an existing place. The owner and
// creation time are left untouched.
// Returns domain.ErrValidation for invalid input and domain.ErrNotFound if
// the place does not exist.
func (s *PlaceService) Update(ctx context.Context, place domain.Place) (domain.Place, error) {
	if err := validatePlace(place); err != nil {
		return domain.Place{}, err
	}

	result, err := s.store.Repos().Places.Update(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", err)
	}
	return result, nil
}

// GetByID returns a single place and its owner.
func (s *PlaceService) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	result, err := s.store.Repos().Places.GetByID(ctx, id)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of places and the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlaceService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error) {
	places, total, err := s.store.Repos().Places.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PlaceService.ListPaged: %w", err)
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places, total, nil
}
