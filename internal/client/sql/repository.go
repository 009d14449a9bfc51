package clientsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zenorapm/zenora/internal/client"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

var _ client.Repository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, profile client.Profile) error {
	_, err := r.db.Exec(ctx, `INSERT INTO clients (id, email, full_name, phone, address)
VALUES ($1, $2, $3, $4, $5);`,
		profile.ID, profile.Email, profile.FullName, profile.Phone, profile.Address,
	)
	if err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into clients: %w", err)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (profile client.Profile, _ error) {
	if err := r.db.QueryRow(ctx, `SELECT id, email, full_name, phone, address, created_at, updated_at
FROM clients
WHERE id = $1;`,
		id,
	).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Phone, &profile.Address, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client.Profile{}, serviceerr.ErrNotFound
		}

		return client.Profile{}, fmt.Errorf("selecting from clients: %w", err)
	}

	return profile, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (profile client.Profile, _ error) {
	if err := r.db.QueryRow(ctx, `SELECT id, email, full_name, phone, address, created_at, updated_at
FROM clients
WHERE lower(email) = lower($1);`,
		email,
	).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Phone, &profile.Address, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client.Profile{}, serviceerr.ErrNotFound
		}

		return client.Profile{}, fmt.Errorf("selecting from clients: %w", err)
	}

	return profile, nil
}
