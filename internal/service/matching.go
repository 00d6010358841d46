package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pkordes/sharespace/backend/internal/domain"
	"github.com/pkordes/sharespace/backend/internal/metrics"
	"github.com/pkordes/sharespace/backend/internal/repo"
)

// Operation names used for spans and metric labels.
const (
	opCreate      = "create"
	opAssignPlace = "assign_place"
	opAccept      = "accept"
	opCancel      = "cancel"
	opComplete    = "complete_storage"
	opConfirm     = "confirm_storage"
)

// MatchingService loads a matching, applies one lifecycle transition and
// persists the result. Every transition runs in a single transaction that
// row-locks the matching and its product, so concurrent transitions on the
// same matching are serialised and the product's placed flag is written in
// the same commit as the matching.
type MatchingService struct {
	store   repo.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// MatchingOption configures a MatchingService.
type MatchingOption func(*MatchingService)

// WithClock overrides the time source used for start and expiry dates.
func WithClock(now func() time.Time) MatchingOption {
	return func(s *MatchingService) {
		s.now = now
	}
}

// NewMatchingService constructs a MatchingService. m may be nil.
func NewMatchingService(store repo.Store, m *metrics.Metrics, opts ...MatchingOption) *MatchingService {
	s := &MatchingService{store: store, metrics: m, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create starts a matching for productID. With a nil placeID the matching is
// UNASSIGNED; otherwise it immediately requests that place and the product is
// marked placed.
// Returns domain.ErrValidation if the product is already placed, already has a
// matching that is not COMPLETED, or the place cannot hold it for the
// requested period.
func (s *MatchingService) Create(ctx context.Context, productID uuid.UUID, placeID *uuid.UUID) (domain.Matching, error) {
	ctx, span := tracer.Start(ctx, "MatchingService.Create",
		trace.WithAttributes(attribute.String("product.id", productID.String())))
	defer span.End()
	start := time.Now()

	var out domain.Matching
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.IsPlaced {
			return fmt.Errorf("%w: product is already placed", domain.ErrValidation)
		}
		if err := checkNoOtherOpen(ctx, r, productID, uuid.Nil); err != nil {
			return err
		}

		var m *domain.Matching
		if placeID == nil {
			m, err = domain.NewUnassignedMatching(&product, s.now())
		} else {
			place, perr := r.Places.GetByID(ctx, *placeID)
			if perr != nil {
				return perr
			}
			if err := checkPeriodFits(product, place); err != nil {
				return err
			}
			m, err = domain.NewRequestedMatching(&product, &place, s.now())
		}
		if err != nil {
			return err
		}
		if err := checkInvariants(m); err != nil {
			return err
		}

		created, err := r.Matchings.Create(ctx, *m)
		if err != nil {
			return err
		}
		if product.IsPlaced {
			if err := r.Products.SetPlaced(ctx, product.ID, true); err != nil {
				return err
			}
		}
		out = created
		return nil
	})

	s.observe(opCreate, start, err)
	if err != nil {
		recordSpanError(span, err)
		return domain.Matching{}, fmt.Errorf("service.MatchingService.Create: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncrementCreated(out.Status)
	}
	span.SetAttributes(attribute.String("matching.id", out.ID.String()))
	return out, nil
}

// AssignPlace points the matching at placeID and re-opens it as a request.
// The expiry restarts from now.
// Returns domain.ErrValidation if the product is placed or open under a
// different matching.
func (s *MatchingService) AssignPlace(ctx context.Context, id, placeID uuid.UUID) (domain.Matching, error) {
	return s.transition(ctx, opAssignPlace, id, func(r repo.Repos, m *domain.Matching) error {
		if m.Product.IsPlaced && m.Place == nil {
			return fmt.Errorf("%w: product is placed under another matching", domain.ErrValidation)
		}
		if err := checkNoOtherOpen(ctx, r, m.Product.ID, m.ID); err != nil {
			return err
		}
		place, err := r.Places.GetByID(ctx, placeID)
		if err != nil {
			return err
		}
		if err := checkPeriodFits(*m.Product, place); err != nil {
			return err
		}
		return m.AssignPlace(&place, s.now())
	})
}

// Accept records the host's acceptance of a requested place.
func (s *MatchingService) Accept(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return s.transition(ctx, opAccept, id, func(_ repo.Repos, m *domain.Matching) error {
		return m.AcceptRequest()
	})
}

// Cancel withdraws a pending request on behalf of actorID.
// Returns domain.ErrCancellationNotAllowed unless the matching is PENDING.
func (s *MatchingService) Cancel(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error) {
	return s.transition(ctx, opCancel, id, func(r repo.Repos, m *domain.Matching) error {
		actor, err := r.Users.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		return m.Cancel(actor)
	})
}

// CompleteStorage marks actorID's side of the storage as finished.
// Returns domain.ErrGuestAlreadyCompletedKeeping or
// domain.ErrHostAlreadyCompletedKeeping on a repeat by the same side.
func (s *MatchingService) CompleteStorage(ctx context.Context, id, actorID uuid.UUID) (domain.Matching, error) {
	return s.transition(ctx, opComplete, id, func(r repo.Repos, m *domain.Matching) error {
		actor, err := r.Users.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		return m.CompleteStorage(actor)
	})
}

// ConfirmStorageByGuest records that the guest handed over the product.
// Returns domain.ErrIncorrectStatusForGuestConfirmation unless PENDING.
func (s *MatchingService) ConfirmStorageByGuest(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	return s.transition(ctx, opConfirm, id, func(_ repo.Repos, m *domain.Matching) error {
		return m.ConfirmStorageByGuest()
	})
}

// GetByID returns a single matching aggregate.
func (s *MatchingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	result, err := s.store.Repos().Matchings.GetByID(ctx, id)
	if err != nil {
		return domain.Matching{}, fmt.Errorf("service.MatchingService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of matchings, optionally filtered by status.
// Always returns a non-nil slice so callers can safely range over it.
func (s *MatchingService) ListPaged(ctx context.Context, status *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error) {
	matchings, total, err := s.store.Repos().Matchings.ListPaged(ctx, status, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.MatchingService.ListPaged: %w", err)
	}
	if matchings == nil {
		matchings = []domain.Matching{}
	}
	return matchings, total, nil
}

// transition runs apply against the locked matching and persists the result.
// Nothing is written if apply fails or leaves the aggregate inconsistent.
func (s *MatchingService) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	apply func(r repo.Repos, m *domain.Matching) error,
) (domain.Matching, error) {
	ctx, span := tracer.Start(ctx, "MatchingService."+op,
		trace.WithAttributes(attribute.String("matching.id", id.String())))
	defer span.End()
	start := time.Now()

	var out domain.Matching
	err := s.store.WithTx(ctx, func(r repo.Repos) error {
		m, err := r.Matchings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		wasPlaced := m.Product.IsPlaced

		if err := apply(r, &m); err != nil {
			return err
		}
		if err := checkInvariants(&m); err != nil {
			return err
		}

		updated, err := r.Matchings.Update(ctx, m)
		if err != nil {
			return err
		}
		if m.Product.IsPlaced != wasPlaced {
			if err := r.Products.SetPlaced(ctx, m.Product.ID, m.Product.IsPlaced); err != nil {
				return err
			}
		}
		out = updated
		return nil
	})

	s.observe(op, start, err)
	if err != nil {
		recordSpanError(span, err)
		return domain.Matching{}, fmt.Errorf("service.MatchingService.%s: %w", op, err)
	}
	span.SetAttributes(attribute.String("matching.status", string(out.Status)))
	return out, nil
}

func (s *MatchingService) observe(op string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(op, start, err)
	}
}

// checkInvariants turns a structural inconsistency into a validation error so
// the transaction rolls back instead of persisting it.
func checkInvariants(m *domain.Matching) error {
	if err := m.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// checkNoOtherOpen rejects a product that already has a live matching other
// than excludeID.
func checkNoOtherOpen(ctx context.Context, r repo.Repos, productID, excludeID uuid.UUID) error {
	open, err := r.Matchings.HasOpenForProduct(ctx, productID, excludeID)
	if err != nil {
		return err
	}
	if open {
		return fmt.Errorf("%w: product already has an open matching", domain.ErrValidation)
	}
	return nil
}

// checkPeriodFits rejects a place whose maximum period is shorter than the
// product's requested period.
func checkPeriodFits(product domain.Product, place domain.Place) error {
	if place.MaxPeriodDays > 0 && product.PeriodDays > place.MaxPeriodDays {
		return fmt.Errorf("%w: requested period of %d days exceeds the place's maximum of %d",
			domain.ErrValidation, product.PeriodDays, place.MaxPeriodDays)
	}
	return nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
