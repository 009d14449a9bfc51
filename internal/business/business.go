package business

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/authops"
	"github.com/zenorapm/zenora/internal/business/server"
	clientsql "github.com/zenorapm/zenora/internal/client/sql"
	"github.com/zenorapm/zenora/internal/config"
	"github.com/zenorapm/zenora/internal/dashboard"
	dashboardsql "github.com/zenorapm/zenora/internal/dashboard/sql"
	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/identity/httpapi"
	"github.com/zenorapm/zenora/internal/session"
	sessionvalkey "github.com/zenorapm/zenora/internal/session/valkey"
)

// Main starts the public HTTP API server.
func Main(ctx context.Context, cfg *config.Config) error {
	deps, closeFn, err := initDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the portal dependencies: %w", err)
	}

	defer closeFn()

	for _, warning := range cfg.Portal.SessionCookie.Check() {
		slogctx.Warn(ctx, "Session cookie template", "warning", warning)
	}

	registry := prometheus.NewRegistry()
	collector := server.NewCollector(registry)

	handler := server.NewHandler(
		deps.auth,
		deps.loader,
		deps.admins,
		deps.sessions,
		cfg.Portal.SessionCookie,
		collector,
	)

	return server.StartHTTPServer(ctx, cfg, server.NewRouter(handler, collector, registry))
}

// portalDeps bundles the wired domain services the commands run on.
type portalDeps struct {
	provider identity.Provider
	auth     *authops.Service
	loader   *dashboard.Loader
	admins   *allowlist.List
	sessions session.Repository
}

func initDeps(ctx context.Context, cfg *config.Config) (_ *portalDeps, closeFn func(), _ error) {
	db, err := pgxpool.New(ctx, config.MakeConnStr(cfg.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.ValKey.Host},
		Username:    cfg.ValKey.User,
		Password:    cfg.ValKey.Password,
	})
	if err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	provider, err := httpapi.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey)
	if err != nil {
		valkeyClient.Close()
		db.Close()

		return nil, nil, fmt.Errorf("creating identity client: %w", err)
	}

	admins := allowlist.New(append(allowlist.DefaultAdminEmails, cfg.Portal.AdminEmails...)...)

	deps := &portalDeps{
		provider: provider,
		auth:     authops.NewService(provider, clientsql.NewRepository(db), admins),
		loader:   dashboard.NewLoader(dashboardsql.NewRepository(db), cfg.Dashboard.SettingsCacheTTL),
		admins:   admins,
		sessions: sessionvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix),
	}

	return deps, func() {
		valkeyClient.Close()
		db.Close()
	}, nil
}
