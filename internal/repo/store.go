// Package repo contains all database access logic for the ShareSpace API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txBeginner is a db that can also open a transaction. *pgxpool.Pool and pgx.Tx
// (as a savepoint) both satisfy it.
type txBeginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Users     UserRepo
	Products  ProductRepo
	Places    PlaceRepo
	Matchings MatchingRepo
}

// NewRepos builds all repositories on top of db.
func NewRepos(db db) Repos {
	return Repos{
		Users:     NewUserRepo(db),
		Products:  NewProductRepo(db),
		Places:    NewPlaceRepo(db),
		Matchings: NewMatchingRepo(db),
	}
}

// Store runs units of work that must commit atomically.
// Services depend on this interface so they can be unit-tested with a fake.
type Store interface {
	// Repos returns repositories that run outside any explicit transaction.
	Repos() Repos

	// WithTx calls fn with repositories bound to a single transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Repos) error) error
}

// pgStore is the Postgres implementation of Store.
type pgStore struct {
	db txBeginner
}

// NewStore constructs a Store backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx so that the inner
// transaction becomes a savepoint that is discarded with the outer rollback.
func NewStore(db txBeginner) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Repos() Repos {
	return NewRepos(s.db)
}

func (s *pgStore) WithTx(ctx context.Context, fn func(Repos) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.WithTx: %w", err)
	}
	return nil
}
