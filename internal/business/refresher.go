package business

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/config"
	"github.com/zenorapm/zenora/internal/session"
)

// RefresherMain starts the session maintenance job: refresh tokens nearing
// expiry, sweep mirrors past it.
func RefresherMain(ctx context.Context, cfg *config.Config) error {
	deps, closeFn, err := initDeps(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the portal dependencies: %w", err)
	}

	defer closeFn()

	refresher := session.NewRefresher(deps.sessions, deps.provider, cfg.Refresher.Window)

	slogctx.Info(ctx, "Starting session refresh job")

	c := time.Tick(cfg.Refresher.Interval)
	for {
		slogctx.Info(ctx, "Triggering session refresh")

		if err := refresher.RefreshExpiring(ctx); err != nil {
			slogctx.Error(ctx, "Failed to refresh sessions", "error", err)
		}
		if err := refresher.SweepExpired(ctx); err != nil {
			slogctx.Error(ctx, "Failed to sweep expired sessions", "error", err)
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}
