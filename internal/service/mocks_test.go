package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

type mockUserRepo struct {
	create  func(ctx context.Context, u domain.User) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

type mockProductRepo struct {
	create    func(ctx context.Context, p domain.Product) (domain.Product, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Product, error)
	setPlaced func(ctx context.Context, id uuid.UUID, placed bool) error
}

func (m *mockProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return m.create(ctx, p)
}
func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return m.getByID(ctx, id)
}
func (m *mockProductRepo) SetPlaced(ctx context.Context, id uuid.UUID, placed bool) error {
	return m.setPlaced(ctx, id, placed)
}

type mockPlaceRepo struct {
	create    func(ctx context.Context, p domain.Place) (domain.Place, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Place, error)
	update    func(ctx context.Context, p domain.Place) (domain.Place, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error)
}

func (m *mockPlaceRepo) Create(ctx context.Context, p domain.Place) (domain.Place, error) {
	return m.create(ctx, p)
}
func (m *mockPlaceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	return m.getByID(ctx, id)
}
func (m *mockPlaceRepo) Update(ctx context.Context, p domain.Place) (domain.Place, error) {
	return m.update(ctx, p)
}
func (m *mockPlaceRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error) {
	return m.listPaged(ctx, p)
}

type mockMatchingRepo struct {
	create       func(ctx context.Context, m domain.Matching) (domain.Matching, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	getForUpdate func(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	update       func(ctx context.Context, m domain.Matching) (domain.Matching, error)
	listPaged    func(ctx context.Context, s *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error)
	hasOpen      func(ctx context.Context, productID, excludeID uuid.UUID) (bool, error)
}

func (m *mockMatchingRepo) Create(ctx context.Context, mt domain.Matching) (domain.Matching, error) {
	return m.create(ctx, mt)
}
func (m *mockMatchingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return m.getByID(ctx, id)
}
func (m *mockMatchingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockMatchingRepo) Update(ctx context.Context, mt domain.Matching) (domain.Matching, error) {
	return m.update(ctx, mt)
}
func (m *mockMatchingRepo) HasOpenForProduct(ctx context.Context, productID, excludeID uuid.UUID) (bool, error) {
	return m.hasOpen(ctx, productID, excludeID)
}
func (m *mockMatchingRepo) ListPaged(ctx context.Context, s *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error) {
	return m.listPaged(ctx, s, p)
}

// fakeStore hands the same repos to Repos and WithTx.
// committed counts units of work that returned nil.
type fakeStore struct {
	repos     repo.Repos
	committed int
}

func (s *fakeStore) Repos() repo.Repos { return s.repos }

func (s *fakeStore) WithTx(_ context.Context, fn func(repo.Repos) error) error {
	if err := fn(s.repos); err != nil {
		return err
	}
	s.committed++
	return nil
}

// compile-time checks: the doubles must satisfy the repo interfaces.
var (
	_ repo.UserRepo     = (*mockUserRepo)(nil)
	_ repo.ProductRepo  = (*mockProductRepo)(nil)
	_ repo.PlaceRepo    = (*mockPlaceRepo)(nil)
	_ repo.MatchingRepo = (*mockMatchingRepo)(nil)
	_ repo.Store        = (*fakeStore)(nil)
)
