package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// MatchingRepo defines the persistence operations for Matchings.
// Reads return the full aggregate: the product with its guest and, when
// assigned, the place with its host.
type MatchingRepo interface {
	// Create inserts m using its pre-assigned ID and returns it with
	// created_at and updated_at populated. Returns domain.ErrValidation if the
	// product already has a matching that is not COMPLETED.
	Create(ctx context.Context, m domain.Matching) (domain.Matching, error)

	// GetByID retrieves a matching aggregate.
	// Returns domain.ErrNotFound if no matching with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error)

	// GetForUpdate is GetByID that also row-locks the matching and its product
	// until the surrounding transaction ends. Only meaningful inside Store.WithTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Matching, error)

	// Update writes the mutable fields of m (place, status, completion flags,
	// distance, expiry). Returns domain.ErrNotFound if it does not exist and
	// domain.ErrValidation if it would re-open a second live matching for
	// the product.
	Update(ctx context.Context, m domain.Matching) (domain.Matching, error)

	// HasOpenForProduct reports whether productID has a matching other than
	// excludeID whose status is not COMPLETED. Pass uuid.Nil to exclude none.
	HasOpenForProduct(ctx context.Context, productID, excludeID uuid.UUID) (bool, error)

	// ListPaged returns one page of matchings ordered by start_date descending,
	// optionally filtered by status, plus the total matching the filter.
	ListPaged(ctx context.Context, status *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error)
}

// pgMatchingRepo is the Postgres implementation of MatchingRepo.
type pgMatchingRepo struct {
	db db
}

// NewMatchingRepo constructs a MatchingRepo backed by the provided db connection.
func NewMatchingRepo(db db) MatchingRepo {
	return &pgMatchingRepo{db: db}
}

const matchingSelect = `
		SELECT m.id, m.status, m.host_completed, m.guest_completed, m.distance,
		       m.start_date, m.expiry_date, m.created_at, m.updated_at,
		       p.id, p.user_id, p.title, p.category, p.period_days, p.description, p.is_placed,
		       p.created_at, p.updated_at,
		       gu.id, gu.name, gu.email, gu.role, gu.latitude, gu.longitude, gu.created_at,
		       pl.id, pl.user_id, pl.title, pl.category, pl.max_period_days, pl.location, pl.description,
		       pl.created_at, pl.updated_at,
		       hu.id, hu.name, hu.email, hu.role, hu.latitude, hu.longitude, hu.created_at
		FROM matchings m
		JOIN products p ON p.id = m.product_id
		JOIN users gu ON gu.id = p.user_id
		LEFT JOIN places pl ON pl.id = m.place_id
		LEFT JOIN users hu ON hu.id = pl.user_id`

func (r *pgMatchingRepo) Create(ctx context.Context, m domain.Matching) (domain.Matching, error) {
	const q = `
		INSERT INTO matchings (id, product_id, place_id, status, host_completed, guest_completed,
		                       distance, start_date, expiry_date)
		VALUES (@id, @product_id, @place_id, @status, @host_completed, @guest_completed,
		        @distance, @start_date, @expiry_date)
		RETURNING created_at, updated_at`

	args := matchingArgs(m)
	args["product_id"] = m.Product.ID
	args["start_date"] = m.StartDate

	if err := r.db.QueryRow(ctx, q, args).Scan(&m.CreatedAt, &m.UpdatedAt); err != nil {
		if isOpenMatchingConflict(err) {
			return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.Create: %w: %s", domain.ErrValidation, errOpenMatchingExists)
		}
		return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.Create: %w", err)
	}
	return m, nil
}

func (r *pgMatchingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	const q = matchingSelect + `
		WHERE m.id = @id`

	result, err := scanMatching(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMatchingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Matching, error) {
	// Only the inner-joined tables can be locked; the place side is read as-is.
	const q = matchingSelect + `
		WHERE m.id = @id
		FOR UPDATE OF m, p`

	result, err := scanMatching(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgMatchingRepo) Update(ctx context.Context, m domain.Matching) (domain.Matching, error) {
	const q = `
		UPDATE matchings
		SET place_id        = @place_id,
		    status          = @status,
		    host_completed  = @host_completed,
		    guest_completed = @guest_completed,
		    distance        = @distance,
		    expiry_date     = @expiry_date,
		    updated_at      = now()
		WHERE id = @id
		RETURNING updated_at`

	if err := r.db.QueryRow(ctx, q, matchingArgs(m)).Scan(&m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.Update: %w", domain.ErrNotFound)
		}
		if isOpenMatchingConflict(err) {
			return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.Update: %w: %s", domain.ErrValidation, errOpenMatchingExists)
		}
		return domain.Matching{}, fmt.Errorf("repo.MatchingRepo.Update: %w", err)
	}
	return m, nil
}

func (r *pgMatchingRepo) HasOpenForProduct(ctx context.Context, productID, excludeID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM matchings
			WHERE product_id = @product_id
			  AND status <> 'COMPLETED'
			  AND id <> @exclude_id
		)`

	var open bool
	args := pgx.NamedArgs{"product_id": productID, "exclude_id": excludeID}
	if err := r.db.QueryRow(ctx, q, args).Scan(&open); err != nil {
		return false, fmt.Errorf("repo.MatchingRepo.HasOpenForProduct: %w", err)
	}
	return open, nil
}

// openMatchingIndex is the partial unique index allowing one live matching
// per product.
const openMatchingIndex = "matchings_one_open_per_product"

const errOpenMatchingExists = "product already has an open matching"

func isOpenMatchingConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == openMatchingIndex
}

func (r *pgMatchingRepo) ListPaged(ctx context.Context, status *domain.Status, p domain.PaginationParams) ([]domain.Matching, int64, error) {
	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}

	const countQ = `
		SELECT count(*) FROM matchings m
		WHERE (@status::text IS NULL OR m.status = @status::text)`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"status": statusArg}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.MatchingRepo.ListPaged: count: %w", err)
	}

	const q = matchingSelect + `
		WHERE (@status::text IS NULL OR m.status = @status::text)
		ORDER BY m.start_date DESC, m.id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"status": statusArg, "limit": p.Limit, "offset": p.Offset()}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MatchingRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	matchings := []domain.Matching{}
	for rows.Next() {
		m, err := scanMatching(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.MatchingRepo.ListPaged: scan: %w", err)
		}
		matchings = append(matchings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.MatchingRepo.ListPaged: rows: %w", err)
	}
	return matchings, total, nil
}

// matchingArgs builds the named args shared by Create and Update.
// Nil place, distance and expiry become NULL.
func matchingArgs(m domain.Matching) pgx.NamedArgs {
	var placeID *uuid.UUID
	if m.Place != nil {
		placeID = &m.Place.ID
	}
	return pgx.NamedArgs{
		"id":              m.ID,
		"place_id":        placeID,
		"status":          string(m.Status),
		"host_completed":  m.HostCompleted,
		"guest_completed": m.GuestCompleted,
		"distance":        m.Distance,
		"expiry_date":     m.ExpiryDate,
	}
}

// nullablePlace holds the LEFT JOINed place and host columns.
type nullablePlace struct {
	id, userID    pgtype.UUID
	title         pgtype.Text
	category      pgtype.Text
	maxPeriodDays pgtype.Int4
	location      pgtype.Text
	description   pgtype.Text
	createdAt     pgtype.Timestamptz
	updatedAt     pgtype.Timestamptz

	hostID        pgtype.UUID
	hostName      pgtype.Text
	hostEmail     pgtype.Text
	hostRole      pgtype.Text
	hostLatitude  pgtype.Float8
	hostLongitude pgtype.Float8
	hostCreatedAt pgtype.Timestamptz
}

func (n *nullablePlace) dest() []any {
	return []any{
		&n.id, &n.userID, &n.title, &n.category, &n.maxPeriodDays, &n.location, &n.description,
		&n.createdAt, &n.updatedAt,
		&n.hostID, &n.hostName, &n.hostEmail, &n.hostRole, &n.hostLatitude, &n.hostLongitude, &n.hostCreatedAt,
	}
}

// place returns nil when the matching has no place.
func (n *nullablePlace) place() (*domain.Place, error) {
	if !n.id.Valid {
		return nil, nil
	}
	role, err := domain.ParseRole(n.hostRole.String)
	if err != nil {
		return nil, err
	}
	return &domain.Place{
		ID:            uuid.UUID(n.id.Bytes),
		UserID:        uuid.UUID(n.userID.Bytes),
		Title:         n.title.String,
		Category:      n.category.String,
		MaxPeriodDays: int(n.maxPeriodDays.Int32),
		Location:      n.location.String,
		Description:   n.description.String,
		CreatedAt:     n.createdAt.Time,
		UpdatedAt:     n.updatedAt.Time,
		User: domain.User{
			ID:        uuid.UUID(n.hostID.Bytes),
			Name:      n.hostName.String,
			Email:     n.hostEmail.String,
			Role:      role,
			Latitude:  n.hostLatitude.Float64,
			Longitude: n.hostLongitude.Float64,
			CreatedAt: n.hostCreatedAt.Time,
		},
	}, nil
}

// scanMatching maps one row of matchingSelect into a domain.Matching.
func scanMatching(s scanner) (domain.Matching, error) {
	var (
		m          domain.Matching
		p          domain.Product
		id         pgtype.UUID
		status     string
		distance   pgtype.Int4
		expiry     pgtype.Timestamptz
		productID  pgtype.UUID
		productUID pgtype.UUID
		guestID    pgtype.UUID
		guestRole  string
		np         nullablePlace
	)

	dest := []any{
		&id, &status, &m.HostCompleted, &m.GuestCompleted, &distance,
		&m.StartDate, &expiry, &m.CreatedAt, &m.UpdatedAt,
		&productID, &productUID, &p.Title, &p.Category, &p.PeriodDays, &p.Description, &p.IsPlaced,
		&p.CreatedAt, &p.UpdatedAt,
		&guestID, &p.User.Name, &p.User.Email, &guestRole, &p.User.Latitude, &p.User.Longitude, &p.User.CreatedAt,
	}
	dest = append(dest, np.dest()...)

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Matching{}, domain.ErrNotFound
		}
		return domain.Matching{}, err
	}

	var err error
	m.ID = uuid.UUID(id.Bytes)
	if m.Status, err = domain.ParseStatus(status); err != nil {
		return domain.Matching{}, err
	}
	if distance.Valid {
		d := int(distance.Int32)
		m.Distance = &d
	}
	if expiry.Valid {
		e := expiry.Time
		m.ExpiryDate = &e
	}

	p.ID = uuid.UUID(productID.Bytes)
	p.UserID = uuid.UUID(productUID.Bytes)
	p.User.ID = uuid.UUID(guestID.Bytes)
	if p.User.Role, err = domain.ParseRole(guestRole); err != nil {
		return domain.Matching{}, err
	}
	m.Product = &p

	if m.Place, err = np.place(); err != nil {
		return domain.Matching{}, err
	}
	return m, nil
}
