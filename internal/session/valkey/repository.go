package sessionvalkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/zenorapm/zenora/internal/session"
)

const objectTypeMirror = "session"

type Repository struct {
	store *store
}

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		store: newStore(valkeyClient, prefix),
	}
}

var _ session.Repository = (*Repository)(nil)

func (r *Repository) Load(ctx context.Context, id string) (mirror session.Mirror, _ error) {
	if err := r.store.Get(ctx, objectTypeMirror, id, &mirror); err != nil {
		return session.Mirror{}, fmt.Errorf("getting session from store: %w", err)
	}

	return mirror, nil
}

func (r *Repository) Store(ctx context.Context, mirror session.Mirror) error {
	if err := r.store.Set(ctx, objectTypeMirror, mirror.ID, mirror); err != nil {
		return fmt.Errorf("setting session into storage: %w", err)
	}

	return nil
}

func (r *Repository) List(ctx context.Context) ([]session.Mirror, error) {
	var mirrors []session.Mirror
	if err := getStoreObjects(ctx, r.store, objectTypeMirror, "*", &mirrors); err != nil {
		return nil, fmt.Errorf("getting sessions from store: %w", err)
	}

	return mirrors, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Destroy(ctx, objectTypeMirror, id); err != nil {
		return fmt.Errorf("deleting session from store: %w", err)
	}

	return nil
}
