package client

import "context"

type Repository interface {
	// Create inserts a profile row. serviceerr.ErrConflict when a row with
	// the same id already exists.
	Create(ctx context.Context, profile Profile) error
	// Get returns the profile for the user id. serviceerr.ErrNotFound when
	// absent.
	Get(ctx context.Context, id string) (Profile, error)
	// GetByEmail returns the profile for the email. serviceerr.ErrNotFound
	// when absent.
	GetByEmail(ctx context.Context, email string) (Profile, error)
}
