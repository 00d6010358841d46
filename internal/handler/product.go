package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	UserID      openapi_types.UUID `json:"user_id"`
	Title       string             `json:"title"`
	Category    string             `json:"category"`
	PeriodDays  int                `json:"period_days"`
	Description string             `json:"description"`
}

// ProductResponse is the wire form of domain.Product.
type ProductResponse struct {
	ID          openapi_types.UUID `json:"id"`
	UserID      openapi_types.UUID `json:"user_id"`
	Title       string             `json:"title"`
	Category    string             `json:"category"`
	PeriodDays  int                `json:"period_days"`
	Description string             `json:"description"`
	IsPlaced    bool               `json:"is_placed"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateProduct handles POST /products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.products.Register(r.Context(), domain.Product{
		UserID:      req.UserID,
		Title:       req.Title,
		Category:    req.Category,
		PeriodDays:  req.PeriodDays,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "owner not found")
		return
	}
	writeJSON(w, http.StatusCreated, productToResponse(created))
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, productToResponse(product))
}

func productToResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Category:    p.Category,
		PeriodDays:  p.PeriodDays,
		Description: p.Description,
		IsPlaced:    p.IsPlaced,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
