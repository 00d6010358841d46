package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// CreatePlaceRequest is the body of POST /places.
type CreatePlaceRequest struct {
	UserID        openapi_types.UUID `json:"user_id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	MaxPeriodDays int                `json:"max_period_days"`
	Location      string             `json:"location"`
	Description   string             `json:"description"`
}

// UpdatePlaceRequest is the body of PUT /places/{id}. Every editable field is
// replaced; the owner cannot change.
type UpdatePlaceRequest struct {
	Title         string `json:"title"`
	Category      string `json:"category"`
	MaxPeriodDays int    `json:"max_period_days"`
	Location      string `json:"location"`
	Description   string `json:"description"`
}

// PlaceResponse is the wire form of domain.Place.
type PlaceResponse struct {
	ID            openapi_types.UUID `json:"id"`
	UserID        openapi_types.UUID `json:"user_id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	MaxPeriodDays int                `json:"max_period_days"`
	Location      string             `json:"location"`
	Description   string             `json:"description"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CreatePlace handles POST /places.
func (s *Server) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.places.Create(r.Context(), domain.Place{
		UserID:        req.UserID,
		Title:         req.Title,
		Category:      req.Category,
		MaxPeriodDays: req.MaxPeriodDays,
		Location:      req.Location,
		Description:   req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "owner not found")
		return
	}
	writeJSON(w, http.StatusCreated, placeToResponse(created))
}

// ListPlaces handles GET /places.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	params, ok := pageParams(w, r)
	if !ok {
		return
	}
	places, total, err := s.places.ListPaged(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, "place not found")
		return
	}

	data := make([]PlaceResponse, len(places))
	for i, p := range places {
		data[i] = placeToResponse(p)
	}
	writeJSON(w, http.StatusOK, ListResponse[PlaceResponse]{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetPlace handles GET /places/{id}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	place, err := s.places.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "place not found")
		return
	}
	writeJSON(w, http.StatusOK, placeToResponse(place))
}

// UpdatePlace handles PUT /places/{id}.
func (s *Server) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdatePlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.places.Update(r.Context(), domain.Place{
		ID:            id,
		Title:         req.Title,
		Category:      req.Category,
		MaxPeriodDays: req.MaxPeriodDays,
		Location:      req.Location,
		Description:   req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "place not found")
		return
	}
	writeJSON(w, http.StatusOK, placeToResponse(updated))
}

func placeToResponse(p domain.Place) PlaceResponse {
	return PlaceResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		Category:      p.Category,
		MaxPeriodDays: p.MaxPeriodDays,
		Location:      p.Location,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
