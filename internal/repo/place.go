package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// PlaceRepo defines the persistence operations for Places.
// Places returned by this repo carry their owning host in Place.User.
type PlaceRepo interface {
	// Create inserts a new place and returns the persisted record.
	Create(ctx context.Context, place domain.Place) (domain.Place, error)

	// GetByID retrieves a place and its owner.
	// Returns domain.ErrNotFound if no place with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error)

	// Update overwrites the editable fields of a place and bumps updated_at.
	// Returns domain.ErrNotFound if no place with that ID exists.
	Update(ctx context.Context, place domain.Place) (domain.Place, error)

	// ListPaged returns one page of places ordered by created_at descending,
	// plus the total number of places.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

const placeColumns = `
		pl.id, pl.user_id, pl.title, pl.category, pl.max_period_days, pl.location, pl.description,
		pl.created_at, pl.updated_at,
		u.id, u.name, u.email, u.role, u.latitude, u.longitude, u.created_at`

func (r *pgPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		WITH pl AS (
			INSERT INTO places (user_id, title, category, max_period_days, location, description)
			VALUES (@user_id, @title, @category, @max_period_days, @location, @description)
			RETURNING *
		)
		SELECT` + placeColumns + `
		FROM pl JOIN users u ON u.id = pl.user_id`

	args := pgx.NamedArgs{
		"user_id":         place.UserID,
		"title":           place.Title,
		"category":        place.Category,
		"max_period_days": place.MaxPeriodDays,
		"location":        place.Location,
		"description":     place.Description,
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	const q = `
		SELECT` + placeColumns + `
		FROM places pl
		JOIN users u ON u.id = pl.user_id
		WHERE pl.id = @id`

	result, err := scanPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) Update(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		WITH pl AS (
			UPDATE places
			SET title           = @title,
			    category        = @category,
			    max_period_days = @max_period_days,
			    location        = @location,
			    description     = @description,
			    updated_at      = now()
			WHERE id = @id
			RETURNING *
		)
		SELECT` + placeColumns + `
		FROM pl JOIN users u ON u.id = pl.user_id`

	args := pgx.NamedArgs{
		"id":              place.ID,
		"title":           place.Title,
		"category":        place.Category,
		"max_period_days": place.MaxPeriodDays,
		"location":        place.Location,
		"description":     place.Description,
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Place, int64, error) {
	const countQ = `SELECT count(*) FROM places`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PlaceRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT` + placeColumns + `
		FROM places pl
		JOIN users u ON u.id = pl.user_id
		ORDER BY pl.created_at DESC, pl.id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PlaceRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		pl, err := scanPlace(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PlaceRepo.ListPaged: scan: %w", err)
		}
		places = append(places, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PlaceRepo.ListPaged: rows: %w", err)
	}
	return places, total, nil
}

// scanPlace maps a places row joined with its owner into a domain.Place.
func scanPlace(s scanner) (domain.Place, error) {
	var (
		pl         domain.Place
		id, userID pgtype.UUID
		ownerID    pgtype.UUID
		ownerRole  string
	)
	err := s.Scan(
		&id, &userID, &pl.Title, &pl.Category, &pl.MaxPeriodDays, &pl.Location, &pl.Description,
		&pl.CreatedAt, &pl.UpdatedAt,
		&ownerID, &pl.User.Name, &pl.User.Email, &ownerRole, &pl.User.Latitude, &pl.User.Longitude, &pl.User.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}

	pl.ID = uuid.UUID(id.Bytes)
	pl.UserID = uuid.UUID(userID.Bytes)
	pl.User.ID = uuid.UUID(ownerID.Bytes)
	if pl.User.Role, err = domain.ParseRole(ownerRole); err != nil {
		return domain.Place{}, err
	}
	return pl, nil
}
