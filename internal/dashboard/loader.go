package dashboard

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/serviceerr"
)

// Loader composes the dashboard read path. It is triggered whenever a
// signed-in user becomes available.
type Loader struct {
	repo          Repository
	settingsCache *gocache.Cache
}

func NewLoader(repo Repository, settingsTTL time.Duration) *Loader {
	return &Loader{
		repo:          repo,
		settingsCache: gocache.New(settingsTTL, 2*settingsTTL),
	}
}

// Load runs one dashboard load cycle for the client. A missing settings row
// means "use defaults", not an error. The first failed read aborts the
// remaining reads for the cycle and is returned as a DataLoadError; the
// overview keeps whatever was fetched before the failure and is never nil.
func (l *Loader) Load(ctx context.Context, clientID string) (*Overview, error) {
	overview := &Overview{}

	settings, err := l.settings(ctx, clientID)
	if err != nil {
		return overview, &serviceerr.DataLoadError{Collection: "client_settings", Err: err}
	}
	overview.Settings = settings

	if settings.ShowProperties {
		properties, err := l.repo.ListProperties(ctx, clientID)
		if err != nil {
			return overview, &serviceerr.DataLoadError{Collection: "properties", Err: err}
		}
		overview.Properties = properties
	}

	if settings.ShowDocuments {
		documents, err := l.repo.ListVisibleDocuments(ctx, clientID)
		if err != nil {
			return overview, &serviceerr.DataLoadError{Collection: "documents", Err: err}
		}
		overview.Documents = documents
	}

	return overview, nil
}

func (l *Loader) settings(ctx context.Context, clientID string) (Settings, error) {
	if cached, ok := l.settingsCache.Get(clientID); ok {
		return cached.(Settings), nil
	}

	settings, err := l.repo.GetSettings(ctx, clientID)
	switch {
	case errors.Is(err, serviceerr.ErrNotFound):
		slogctx.Debug(ctx, "No settings row for client, using defaults", "client_id", clientID)
		settings = DefaultSettings(clientID)
	case err != nil:
		return Settings{}, err
	}

	l.settingsCache.SetDefault(clientID, settings)

	return settings, nil
}

// InvalidateSettings drops the cached settings for a client, e.g. after an
// admin changes the client's feature flags.
func (l *Loader) InvalidateSettings(clientID string) {
	l.settingsCache.Delete(clientID)
}
