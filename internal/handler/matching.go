package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// CreateMatchingRequest is the body of POST /matchings.
// Omitting place_id creates an UNASSIGNED matching.
type CreateMatchingRequest struct {
	ProductID openapi_types.UUID  `json:"product_id"`
	PlaceID   *openapi_types.UUID `json:"place_id,omitempty"`
}

// AssignPlaceRequest is the body of PUT /matchings/{id}/place.
type AssignPlaceRequest struct {
	PlaceID openapi_types.UUID `json:"place_id"`
}

// MatchingResponse is the wire form of domain.Matching.
// Distance is in metres.
type MatchingResponse struct {
	ID             openapi_types.UUID `json:"id"`
	Status         domain.Status      `json:"status"`
	Product        ProductResponse    `json:"product"`
	Place          *PlaceResponse     `json:"place"`
	HostCompleted  bool               `json:"host_completed"`
	GuestCompleted bool               `json:"guest_completed"`
	Distance       *int               `json:"distance"`
	StartDate      time.Time          `json:"start_date"`
	ExpiryDate     *time.Time         `json:"expiry_date"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CreateMatching handles POST /matchings.
func (s *Server) CreateMatching(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == uuid.Nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "product_id is required")
		return
	}

	created, err := s.matchings.Create(r.Context(), req.ProductID, req.PlaceID)
	if err != nil {
		writeServiceError(w, r, err, "product or place not found")
		return
	}
	writeJSON(w, http.StatusCreated, matchingToResponse(created))
}

// ListMatchings handles GET /matchings.
// Supports ?status=, ?page= and ?limit=.
func (s *Server) ListMatchings(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(w, r)
	if !ok {
		return
	}
	params, ok := pageParams(w, r)
	if !ok {
		return
	}
	matchings, total, err := s.matchings.ListPaged(r.Context(), status, params)
	if err != nil {
		writeServiceError(w, r, err, "matching not found")
		return
	}

	data := make([]MatchingResponse, len(matchings))
	for i, m := range matchings {
		data[i] = matchingToResponse(m)
	}
	writeJSON(w, http.StatusOK, ListResponse[MatchingResponse]{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetMatching handles GET /matchings/{id}.
func (s *Server) GetMatching(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := s.matchings.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "matching not found")
		return
	}
	writeJSON(w, http.StatusOK, matchingToResponse(m))
}

// AssignPlace handles PUT /matchings/{id}/place.
func (s *Server) AssignPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AssignPlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlaceID == uuid.Nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "place_id is required")
		return
	}
	s.respondTransition(w, r, func(ctx context.Context) (domain.Matching, error) {
		return s.matchings.AssignPlace(ctx, id, req.PlaceID)
	})
}

// AcceptMatching handles POST /matchings/{id}/accept.
func (s *Server) AcceptMatching(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.respondTransition(w, r, func(ctx context.Context) (domain.Matching, error) {
		return s.matchings.Accept(ctx, id)
	})
}

// CancelMatching handles POST /matchings/{id}/cancel. Requires X-User-ID.
func (s *Server) CancelMatching(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	s.respondTransition(w, r, func(ctx context.Context) (domain.Matching, error) {
		return s.matchings.Cancel(ctx, id, actor)
	})
}

// CompleteStorage handles POST /matchings/{id}/complete. Requires X-User-ID;
// the actor's role decides which side is marked complete.
func (s *Server) CompleteStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	s.respondTransition(w, r, func(ctx context.Context) (domain.Matching, error) {
		return s.matchings.CompleteStorage(ctx, id, actor)
	})
}

// ConfirmStorage handles POST /matchings/{id}/confirm.
func (s *Server) ConfirmStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.respondTransition(w, r, func(ctx context.Context) (domain.Matching, error) {
		return s.matchings.ConfirmStorageByGuest(ctx, id)
	})
}

func (s *Server) respondTransition(w http.ResponseWriter, r *http.Request, run func(context.Context) (domain.Matching, error)) {
	m, err := run(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "matching, place or user not found")
		return
	}
	writeJSON(w, http.StatusOK, matchingToResponse(m))
}

func matchingToResponse(m domain.Matching) MatchingResponse {
	resp := MatchingResponse{
		ID:             m.ID,
		Status:         m.Status,
		HostCompleted:  m.HostCompleted,
		GuestCompleted: m.GuestCompleted,
		Distance:       m.Distance,
		StartDate:      m.StartDate,
		ExpiryDate:     m.ExpiryDate,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Product != nil {
		resp.Product = productToResponse(*m.Product)
	}
	if m.Place != nil {
		p := placeToResponse(*m.Place)
		resp.Place = &p
	}
	return resp
}
