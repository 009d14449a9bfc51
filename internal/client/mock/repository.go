package clientmock

import (
	"context"
	"strings"
	"sync"

	"github.com/zenorapm/zenora/internal/client"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu       sync.Mutex
	profiles map[string]client.Profile

	createErr, getErr error
}

func WithProfile(profile client.Profile) RepositoryOption {
	return func(r *Repository) { r.profiles[profile.ID] = profile }
}

func WithCreateError(err error) RepositoryOption {
	return func(r *Repository) { r.createErr = err }
}

func WithGetError(err error) RepositoryOption {
	return func(r *Repository) { r.getErr = err }
}

var _ client.Repository = (*Repository)(nil)

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{profiles: make(map[string]client.Profile)}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

func (r *Repository) Create(_ context.Context, profile client.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.profiles[profile.ID]; ok {
		return serviceerr.ErrConflict
	}
	r.profiles[profile.ID] = profile

	return nil
}

func (r *Repository) Get(_ context.Context, id string) (client.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return client.Profile{}, r.getErr
	}
	if profile, ok := r.profiles[id]; ok {
		return profile, nil
	}

	return client.Profile{}, serviceerr.ErrNotFound
}

func (r *Repository) GetByEmail(_ context.Context, email string) (client.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return client.Profile{}, r.getErr
	}
	for _, profile := range r.profiles {
		if strings.EqualFold(profile.Email, email) {
			return profile, nil
		}
	}

	return client.Profile{}, serviceerr.ErrNotFound
}

// Len reports the number of stored profiles.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.profiles)
}
