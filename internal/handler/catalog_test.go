package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/handler"
)

// ---- users -----------------------------------------------------------------

func TestCreateUser_201(t *testing.T) {
	var got domain.User
	svc := handler.Services{Users: &mockUserServicer{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			got = u
			u.ID = uuid.New()
			u.CreatedAt = time.Now().UTC()
			return u, nil
		},
	}}

	rec := do(t, svc, http.MethodPost, "/users", map[string]any{
		"name": "Kim", "email": "kim@example.com", "role": "host", "latitude": 37.5, "longitude": 127.0,
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.RoleHost, got.Role)
	resp := decodeBody[handler.UserResponse](t, rec)
	assert.Equal(t, "kim@example.com", resp.Email)
	assert.Equal(t, domain.RoleHost, resp.Role)
}

func TestCreateUser_422(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown role":  {"name": "Kim", "email": "kim@example.com", "role": "ADMIN"},
		"bad email":     {"name": "Kim", "email": "nope", "role": "GUEST"},
		"unknown field": {"name": "Kim", "email": "kim@example.com", "role": "GUEST", "admin": true},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := handler.Services{Users: &mockUserServicer{}}

			rec := do(t, svc, http.MethodPost, "/users", body, nil)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "validation_error", errorCode(t, rec))
		})
	}
}

func TestCreateUser_422_EmptyBody(t *testing.T) {
	rec := do(t, handler.Services{Users: &mockUserServicer{}}, http.MethodPost, "/users", nil, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetUser_404(t *testing.T) {
	svc := handler.Services{Users: &mockUserServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.User, error) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", domain.ErrNotFound)
		},
	}}

	rec := do(t, svc, http.MethodGet, "/users/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestGetUser_400_BadID(t *testing.T) {
	rec := do(t, handler.Services{Users: &mockUserServicer{}}, http.MethodGet, "/users/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

// ---- products --------------------------------------------------------------

func TestCreateProduct_201(t *testing.T) {
	owner := uuid.New()
	svc := handler.Services{Products: &mockProductServicer{
		register: func(_ context.Context, p domain.Product) (domain.Product, error) {
			p.ID = uuid.New()
			return p, nil
		},
	}}

	rec := do(t, svc, http.MethodPost, "/products", map[string]any{
		"user_id": owner, "title": "Bike", "category": "SPORTS", "period_days": 14,
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[handler.ProductResponse](t, rec)
	assert.Equal(t, owner, resp.UserID)
	assert.Equal(t, 14, resp.PeriodDays)
	assert.False(t, resp.IsPlaced)
}

func TestCreateProduct_422_ServiceValidation(t *testing.T) {
	svc := handler.Services{Products: &mockProductServicer{
		register: func(_ context.Context, _ domain.Product) (domain.Product, error) {
			return domain.Product{}, fmt.Errorf("service.ProductService.Register: %w: only guests can register products", domain.ErrValidation)
		},
	}}

	rec := do(t, svc, http.MethodPost, "/products", map[string]any{"user_id": uuid.New(), "title": "Bike", "period_days": 1}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "only guests can register products", resp.Error.Message)
}

func TestGetProduct_500_LogsAndHidesCause(t *testing.T) {
	svc := handler.Services{Products: &mockProductServicer{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Product, error) {
			return domain.Product{}, errors.New("connection reset by peer")
		},
	}}

	rec := do(t, svc, http.MethodGet, "/products/"+uuid.NewString(), nil, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection reset")
}

// ---- places ----------------------------------------------------------------

func TestCreatePlace_201(t *testing.T) {
	svc := handler.Services{Places: &mockPlaceServicer{
		create: func(_ context.Context, p domain.Place) (domain.Place, error) {
			p.ID = uuid.New()
			return p, nil
		},
	}}

	rec := do(t, svc, http.MethodPost, "/places", map[string]any{
		"user_id": uuid.New(), "title": "Garage", "max_period_days": 30, "location": "Mapo-gu",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[handler.PlaceResponse](t, rec)
	assert.Equal(t, 30, resp.MaxPeriodDays)
	assert.Equal(t, "Mapo-gu", resp.Location)
}

func TestListPlaces_Pagination(t *testing.T) {
	var gotParams domain.PaginationParams
	svc := handler.Services{Places: &mockPlaceServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Place, int64, error) {
			gotParams = p
			return []domain.Place{{ID: uuid.New(), Title: "Garage"}}, 41, nil
		},
	}}

	rec := do(t, svc, http.MethodGet, "/places?page=3&limit=500", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 100}, gotParams)
	resp := decodeBody[handler.ListResponse[handler.PlaceResponse]](t, rec)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 3, Limit: 100, Total: 41}, resp.Pagination)
}

func TestListPlaces_400_BadPage(t *testing.T) {
	rec := do(t, handler.Services{Places: &mockPlaceServicer{}}, http.MethodGet, "/places?page=abc", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlace_200(t *testing.T) {
	id := uuid.New()
	svc := handler.Services{Places: &mockPlaceServicer{
		getByID: func(_ context.Context, got uuid.UUID) (domain.Place, error) {
			return domain.Place{ID: got, Title: "Garage"}, nil
		},
	}}

	rec := do(t, svc, http.MethodGet, "/places/"+id.String(), nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decodeBody[handler.PlaceResponse](t, rec).ID)
}

func TestUpdatePlace_200(t *testing.T) {
	id := uuid.New()
	var got domain.Place
	svc := handler.Services{Places: &mockPlaceServicer{
		update: func(_ context.Context, p domain.Place) (domain.Place, error) {
			got = p
			return p, nil
		},
	}}

	rec := do(t, svc, http.MethodPut, "/places/"+id.String(), map[string]any{
		"title": "Basement", "category": "ROOM", "max_period_days": 14, "location": "Suyeong-gu", "description": "Cool and dry",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, got.ID, "the path id identifies the place")
	resp := decodeBody[handler.PlaceResponse](t, rec)
	assert.Equal(t, "Basement", resp.Title)
	assert.Equal(t, 14, resp.MaxPeriodDays)
}

func TestUpdatePlace_404(t *testing.T) {
	svc := handler.Services{Places: &mockPlaceServicer{
		update: func(_ context.Context, _ domain.Place) (domain.Place, error) {
			return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", domain.ErrNotFound)
		},
	}}

	rec := do(t, svc, http.MethodPut, "/places/"+uuid.NewString(), map[string]any{"title": "Basement"}, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestUpdatePlace_422(t *testing.T) {
	svc := handler.Services{Places: &mockPlaceServicer{
		update: func(_ context.Context, _ domain.Place) (domain.Place, error) {
			return domain.Place{}, fmt.Errorf("%w: location is required", domain.ErrValidation)
		},
	}}

	rec := do(t, svc, http.MethodPut, "/places/"+uuid.NewString(), map[string]any{"title": "Basement"}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "location is required", resp.Error.Message)
}

func TestUpdatePlace_400_BadID(t *testing.T) {
	rec := do(t, handler.Services{Places: &mockPlaceServicer{}}, http.MethodPut, "/places/not-a-uuid", map[string]any{"title": "Basement"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
