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

// ProductRepo defines the persistence operations for Products.
// Products returned by GetByID carry their owning guest in Product.User.
type ProductRepo interface {
	// Create inserts a new product and returns the persisted record.
	Create(ctx context.Context, product domain.Product) (domain.Product, error)

	// GetByID retrieves a product and its owner.
	// Returns domain.ErrNotFound if no product with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)

	// SetPlaced writes the product's placed flag.
	// Returns domain.ErrNotFound if no product with that ID exists.
	SetPlaced(ctx context.Context, id uuid.UUID, placed bool) error
}

// pgProductRepo is the Postgres implementation of ProductRepo.
type pgProductRepo struct {
	db db
}

// NewProductRepo constructs a ProductRepo backed by the provided db connection.
func NewProductRepo(db db) ProductRepo {
	return &pgProductRepo{db: db}
}

func (r *pgProductRepo) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	const q = `
		WITH p AS (
			INSERT INTO products (user_id, title, category, period_days, description)
			VALUES (@user_id, @title, @category, @period_days, @description)
			RETURNING id, user_id, title, category, period_days, description, is_placed, created_at, updated_at
		)
		SELECT p.id, p.user_id, p.title, p.category, p.period_days, p.description, p.is_placed,
		       p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.role, u.latitude, u.longitude, u.created_at
		FROM p JOIN users u ON u.id = p.user_id`

	args := pgx.NamedArgs{
		"user_id":     product.UserID,
		"title":       product.Title,
		"category":    product.Category,
		"period_days": product.PeriodDays,
		"description": product.Description,
	}

	result, err := scanProduct(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.ProductRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	const q = `
		SELECT p.id, p.user_id, p.title, p.category, p.period_days, p.description, p.is_placed,
		       p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.role, u.latitude, u.longitude, u.created_at
		FROM products p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = @id`

	result, err := scanProduct(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.ProductRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgProductRepo) SetPlaced(ctx context.Context, id uuid.UUID, placed bool) error {
	const q = `
		UPDATE products
		SET is_placed  = @is_placed,
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "is_placed": placed})
	if err != nil {
		return fmt.Errorf("repo.ProductRepo.SetPlaced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ProductRepo.SetPlaced: %w", domain.ErrNotFound)
	}
	return nil
}

// scanProduct maps a products row joined with its owner into a domain.Product.
func scanProduct(s scanner) (domain.Product, error) {
	var (
		p          domain.Product
		id, userID pgtype.UUID
		ownerID    pgtype.UUID
		ownerRole  string
	)
	err := s.Scan(
		&id, &userID, &p.Title, &p.Category, &p.PeriodDays, &p.Description, &p.IsPlaced,
		&p.CreatedAt, &p.UpdatedAt,
		&ownerID, &p.User.Name, &p.User.Email, &ownerRole, &p.User.Latitude, &p.User.Longitude, &p.User.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	p.User.ID = uuid.UUID(ownerID.Bytes)
	if p.User.Role, err = domain.ParseRole(ownerRole); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
