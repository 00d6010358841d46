package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/repo"
)

// ProductService implements business logic for Product operations.
type ProductService struct {
	store repo.Store
}

// NewProductService constructs a ProductService backed by the provided Store.
func NewProductService(store repo.Store) *ProductService {
	return &ProductService{store: store}
}

// Register validates a product, checks its owner is a guest, then persists it.
// Returns domain.ErrValidation for invalid input or a non-guest owner and
// domain.ErrNotFound if the owner does not exist.
func (s *ProductService) Register(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := validateTitle(product.Title); err != nil {
		return domain.Product{}, err
	}
	if product.PeriodDays < 1 {
		return domain.Product{}, fmt.Errorf("%w: period must be at least one day", domain.ErrValidation)
	}

	r := s.store.Repos()
	owner, err := r.Users.GetByID(ctx, product.UserID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Register: %w", err)
	}
	if owner.Role != domain.RoleGuest {
		return domain.Product{}, fmt.Errorf("%w: only guests can register products", domain.ErrValidation)
	}

	result, err := r.Products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.Register: %w", err)
	}
	return result, nil
}

// GetByID returns a single product and its owner.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	result, err := s.store.Repos().Products.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("service.ProductService.GetByID: %w", err)
	}
	return result, nil
}
