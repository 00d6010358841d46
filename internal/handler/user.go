package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name      string              `json:"name"`
	Email     openapi_types.Email `json:"email"`
	Role      string              `json:"role"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
}

// UserResponse is the wire form of domain.User.
type UserResponse struct {
	ID        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      domain.Role        `json:"role"`
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	CreatedAt time.Time          `json:"created_at"`
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
		return
	}

	created, err := s.users.Create(r.Context(), domain.User{
		Name:      req.Name,
		Email:     string(req.Email),
		Role:      role,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(created))
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		CreatedAt: u.CreatedAt,
	}
}
