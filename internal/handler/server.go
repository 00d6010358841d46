// Package handler implements the HTTP handlers for the Sharespace API.
// Handlers are methods on Server, split into one file per resource, and are
// mounted on a chi router by Server.Routes.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// UserServicer defines the user operations the handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// ProductServicer defines the product operations the handlers depend on.
type ProductServicer interface {
	Register(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
}

// PlaceServicer defines the place operations the handlers depend on.
type PlaceServicer interface {
	Create(ctx context.Context, place domain.Place) (domain.Place, error)
	Update(ctx context.Context, place domain.Place) (domain.Place, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error)
}

// MatchingServicer defines the matching lifecycle operations the handlers
// depend on. Cancel and CompleteStorage take the acting user's ID.
type MatchingServicer interface {
	Create(ctx context.Context, productID uuid.UUID, placeID *uuid.UUID) (domain.Matching, error)
	AssignPlace(ctx context.Context, id, placeID uuid.UUID) (domain.Matching, error)
	Accept(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error)
	CompleteStorage(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error)
	ConfirmStorageByGuest(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error)
	ListPaged(ctx context.Context, status *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error)
}

// Pinger reports whether a backing dependency is reachable.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the Server's dependencies. Any nil field disables the
// routes that need it.
type Services struct {
	Users     UserServicer
	Products  ProductServicer
	Places    PlaceServicer
	Matchings MatchingServicer
	DB        Pinger
	OpenAPI   []byte
}

// Server serves every API endpoint.
type Server struct {
	users     UserServicer
	products  ProductServicer
	places    PlaceServicer
	matchings MatchingServicer
	db        Pinger
	openAPI   []byte
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services) *Server {
	return &Server{
		users:     svc.Users,
		products:  svc.Products,
		places:    svc.Places,
		matchings: svc.Matchings,
		db:        svc.DB,
		openAPI:   svc.OpenAPI,
	}
}

// Routes registers the API routes on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	if s.db != nil {
		r.Get("/readyz", s.GetReady)
	}
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	if s.users != nil {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.CreateUser)
			r.Get("/{id}", s.GetUser)
		})
	}
	if s.products != nil {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.CreateProduct)
			r.Get("/{id}", s.GetProduct)
		})
	}
	if s.places != nil {
		r.Route("/places", func(r chi.Router) {
			r.Post("/", s.CreatePlace)
			r.Get("/", s.ListPlaces)
			r.Get("/{id}", s.GetPlace)
			r.Put("/{id}", s.UpdatePlace)
		})
	}
	if s.matchings != nil {
		r.Route("/matchings", func(r chi.Router) {
			r.Post("/", s.CreateMatching)
			r.Get("/", s.ListMatchings)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetMatching)
				r.Put("/place", s.AssignPlace)
				r.Post("/accept", s.AcceptMatching)
				r.Post("/cancel", s.CancelMatching)
				r.Post("/complete", s.CompleteStorage)
				r.Post("/confirm", s.ConfirmStorage)
			})
		})
	}
}

// Handler returns a standalone router serving the API. Production wiring in
// main.go adds middleware to its own router and calls Routes instead.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
