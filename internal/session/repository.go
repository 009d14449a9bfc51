package session

import "context"

type Repository interface {
	// Load returns the mirror for the id. serviceerr.ErrNotFound when
	// absent.
	Load(ctx context.Context, id string) (Mirror, error)
	// Store writes the mirror, overwriting a previous copy with the same
	// id.
	Store(ctx context.Context, mirror Mirror) error
	// List returns all stored mirrors.
	List(ctx context.Context) ([]Mirror, error)
	// Delete removes the mirror for the id. serviceerr.ErrNotFound when
	// absent.
	Delete(ctx context.Context, id string) error
}
