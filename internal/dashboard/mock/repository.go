package dashboardmock

import (
	"context"
	"sort"
	"sync"

	"github.com/zenorapm/zenora/internal/dashboard"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type RepositoryOption func(*Repository)

type Repository struct {
	mu         sync.Mutex
	settings   map[string]dashboard.Settings
	properties []dashboard.Property
	documents  []dashboard.Document

	settingsErr, propertiesErr, documentsErr error

	settingsCalls, propertiesCalls, documentsCalls int
}

func WithSettings(s dashboard.Settings) RepositoryOption {
	return func(r *Repository) { r.settings[s.ClientID] = s }
}

func WithProperty(p dashboard.Property) RepositoryOption {
	return func(r *Repository) { r.properties = append(r.properties, p) }
}

func WithDocument(d dashboard.Document) RepositoryOption {
	return func(r *Repository) { r.documents = append(r.documents, d) }
}

func WithSettingsError(err error) RepositoryOption {
	return func(r *Repository) { r.settingsErr = err }
}

func WithPropertiesError(err error) RepositoryOption {
	return func(r *Repository) { r.propertiesErr = err }
}

func WithDocumentsError(err error) RepositoryOption {
	return func(r *Repository) { r.documentsErr = err }
}

var _ dashboard.Repository = (*Repository)(nil)

func NewInMemRepository(opts ...RepositoryOption) *Repository {
	r := &Repository{settings: make(map[string]dashboard.Settings)}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

func (r *Repository) GetSettings(_ context.Context, clientID string) (dashboard.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settingsCalls++

	if r.settingsErr != nil {
		return dashboard.Settings{}, r.settingsErr
	}
	if s, ok := r.settings[clientID]; ok {
		return s, nil
	}

	return dashboard.Settings{}, serviceerr.ErrNotFound
}

func (r *Repository) ListProperties(_ context.Context, clientID string) ([]dashboard.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.propertiesCalls++

	if r.propertiesErr != nil {
		return nil, r.propertiesErr
	}

	var properties []dashboard.Property
	for _, p := range r.properties {
		if p.ClientID == clientID {
			properties = append(properties, p)
		}
	}
	sort.Slice(properties, func(i, j int) bool {
		return properties[i].CreatedAt.After(properties[j].CreatedAt)
	})

	return properties, nil
}

func (r *Repository) ListVisibleDocuments(_ context.Context, clientID string) ([]dashboard.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.documentsCalls++

	if r.documentsErr != nil {
		return nil, r.documentsErr
	}

	var documents []dashboard.Document
	for _, d := range r.documents {
		if d.ClientID == clientID && d.Visible {
			documents = append(documents, d)
		}
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].CreatedAt.After(documents[j].CreatedAt)
	})

	return documents, nil
}

func (r *Repository) SettingsCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.settingsCalls
}

func (r *Repository) PropertiesCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.propertiesCalls
}

func (r *Repository) DocumentsCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.documentsCalls
}
