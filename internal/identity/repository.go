package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mdevers/yachtroom/internal/models"
)

// ErrNotFound reports a missing identity row.
var ErrNotFound = errors.New("identity not found")

// DB defines what the repository needs from the database layer; a
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements identity data access operations.
type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateIdentity(ctx context.Context, ident models.Identity) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO identities (id, handle, display_name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, handle, display_name, created_at`,
		ident.ID, ident.Handle, ident.DisplayName, ident.CreatedAt,
	)
	return scanIdentity(row)
}

func (r *Repository) GetIdentity(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, handle, display_name, created_at
		FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

func (r *Repository) GetIdentityByHandle(ctx context.Context, handle string) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, handle, display_name, created_at
		FROM identities WHERE handle = $1`, handle)
	return scanIdentity(row)
}

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var ident models.Identity
	if err := row.Scan(&ident.ID, &ident.Handle, &ident.DisplayName, &ident.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	return &ident, nil
}
