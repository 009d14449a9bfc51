package sessionmock

import (
	"context"
	"sync"

	"github.com/zenorapm/zenora/internal/serviceerr"
	"github.com/zenorapm/zenora/internal/session"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu      sync.Mutex
	mirrors map[string]session.Mirror

	loadErr, storeErr, listErr, deleteErr error
}

func WithMirror(mirror session.Mirror) RepositoryOption {
	return func(r *Repository) { r.mirrors[mirror.ID] = mirror }
}

func WithLoadError(err error) RepositoryOption {
	return func(r *Repository) { r.loadErr = err }
}

func WithStoreError(err error) RepositoryOption {
	return func(r *Repository) { r.storeErr = err }
}

func WithListError(err error) RepositoryOption {
	return func(r *Repository) { r.listErr = err }
}

func WithDeleteError(err error) RepositoryOption {
	return func(r *Repository) { r.deleteErr = err }
}

var _ session.Repository = (*Repository)(nil)

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{mirrors: make(map[string]session.Mirror)}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

func (r *Repository) Load(_ context.Context, id string) (session.Mirror, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return session.Mirror{}, r.loadErr
	}
	if mirror, ok := r.mirrors[id]; ok {
		return mirror, nil
	}

	return session.Mirror{}, serviceerr.ErrNotFound
}

func (r *Repository) Store(_ context.Context, mirror session.Mirror) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storeErr != nil {
		return r.storeErr
	}
	r.mirrors[mirror.ID] = mirror

	return nil
}

func (r *Repository) List(_ context.Context) ([]session.Mirror, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	mirrors := make([]session.Mirror, 0, len(r.mirrors))
	for _, m := range r.mirrors {
		mirrors = append(mirrors, m)
	}

	return mirrors, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.mirrors[id]; !ok {
		return serviceerr.ErrNotFound
	}
	delete(r.mirrors, id)

	return nil
}
