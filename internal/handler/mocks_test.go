package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/handler"
)

// Test doubles for the servicer interfaces.
// Set only the method fields your test needs.

type mockUserServicer struct {
	create  func(ctx context.Context, u domain.User) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserServicer) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

type mockProductServicer struct {
	register func(ctx context.Context, p domain.Product) (domain.Product, error)
	getByID  func(ctx context.Context, id uuid.UUID) (domain.Product, error)
}

func (m *mockProductServicer) Register(ctx context.Context, p domain.Product) (domain.Product, error) {
	return m.register(ctx, p)
}
func (m *mockProductServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return m.getByID(ctx, id)
}

type mockPlaceServicer struct {
	create    func(ctx context.Context, p domain.Place) (domain.Place, error)
	update    func(ctx context.Context, p domain.Place) (domain.Place, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Place, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error)
}

func (m *mockPlaceServicer) Create(ctx context.Context, p domain.Place) (domain.Place, error) {
	return m.create(ctx, p)
}
func (m *mockPlaceServicer) Update(ctx context.Context, p domain.Place) (domain.Place, error) {
	return m.update(ctx, p)
}
func (m *mockPlaceServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	return m.getByID(ctx, id)
}
func (m *mockPlaceServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error) {
	return m.listPaged(ctx, p)
}

type mockMatchingServicer struct {
	create          func(ctx context.Context, productID uuid.UUID, placeID *uuid.UUID) (domain.Matching, error)
	assignPlace     func(ctx context.Context, id, placeID uuid.UUID) (domain.Matching, error)
	accept          func(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	cancel          func(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error)
	completeStorage func(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error)
	confirm         func(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	listPaged       func(ctx context.Context, s *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error)
}

func (m *mockMatchingServicer) Create(ctx context.Context, productID uuid.UUID, placeID *uuid.UUID) (domain.Matching, error) {
	return m.create(ctx, productID, placeID)
}
func (m *mockMatchingServicer) AssignPlace(ctx context.Context, id, placeID uuid.UUID) (domain.Matching, error) {
	return m.assignPlace(ctx, id, placeID)
}
func (m *mockMatchingServicer) Accept(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return m.accept(ctx, id)
}
func (m *mockMatchingServicer) Cancel(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error) {
	return m.cancel(ctx, id, actorID)
}
func (m *mockMatchingServicer) CompleteStorage(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error) {
	return m.completeStorage(ctx, id, actorID)
}
func (m *mockMatchingServicer) ConfirmStorageByGuest(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return m.confirm(ctx, id)
}
func (m *mockMatchingServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return m.getByID(ctx, id)
}
func (m *mockMatchingServicer) ListPaged(ctx context.Context, s *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error) {
	return m.listPaged(ctx, s, p)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: the doubles must satisfy the handler interfaces.
var (
	_ handler.UserServicer     = (*mockUserServicer)(nil)
	_ handler.ProductServicer  = (*mockProductServicer)(nil)
	_ handler.PlaceServicer    = (*mockPlaceServicer)(nil)
	_ handler.MatchingServicer = (*mockMatchingServicer)(nil)
	_ handler.Pinger           = mockPinger{}
)

// ---- helpers ---------------------------------------------------------------

// do sends one request through a Server built from svc and returns the recorder.
func do(t *testing.T, svc handler.Services, method, target string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	handler.NewServer(svc).Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[handler.ErrorResponse](t, rec).Error.Code
}
