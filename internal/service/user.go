package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/repo"
)

// UserService implements business logic for User operations.
type UserService struct {
	store repo.Store
}

// NewUserService constructs a UserService backed by the provided Store.
func NewUserService(store repo.Store) *UserService {
	return &UserService{store: store}
}

// Create validates and persists a new user.
// Returns domain.ErrValidation if input violates business rules.
func (s *UserService) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := validateUser(user); err != nil {
		return domain.User{}, err
	}
	result, err := s.store.Repos().Users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	result, err := s.store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return result, nil
}

// validateUser enforces:
//   - Name must be non-empty.
//   - Email must be a bare address.
//   - Role must be GUEST or HOST.
//   - Coordinates must be within WGS84 bounds.
func validateUser(u domain.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, u.Role)
	}
	if u.Latitude < -90 || u.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if u.Longitude < -180 || u.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
