package session

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/identity"
)

// Refresher keeps mirrored sessions alive: tokens nearing expiry are
// exchanged through the provider's refresh grant, and mirrors past their
// expiry are swept.
type Refresher struct {
	sessions Repository
	provider identity.Provider
	window   time.Duration
}

func NewRefresher(sessions Repository, provider identity.Provider, window time.Duration) *Refresher {
	return &Refresher{
		sessions: sessions,
		provider: provider,
		window:   window,
	}
}

// RefreshExpiring refreshes every mirror whose expiry falls inside the
// refresh window. A failed refresh is logged and skipped; the sweep gets
// the mirror later.
func (r *Refresher) RefreshExpiring(ctx context.Context) error {
	mirrors, err := r.sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	for _, m := range mirrors {
		if !r.shouldRefresh(m) {
			continue
		}

		refreshed, err := r.provider.Refresh(ctx, m.RefreshToken)
		if err != nil {
			slogctx.Warn(ctx, "Could not refresh session", "session_id", m.ID, "error", err)
			continue
		}

		m.AccessToken = refreshed.AccessToken
		m.RefreshToken = refreshed.RefreshToken
		m.Expiry = refreshed.Expiry
		if err := r.sessions.Store(ctx, m); err != nil {
			slogctx.Warn(ctx, "Could not store refreshed session", "session_id", m.ID, "error", err)
		}
	}

	return nil
}

func (r *Refresher) shouldRefresh(m Mirror) bool {
	return time.Until(m.Expiry) < r.window
}

// SweepExpired deletes mirrors past their expiry.
func (r *Refresher) SweepExpired(ctx context.Context) error {
	mirrors, err := r.sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	now := time.Now()
	for _, m := range mirrors {
		if !m.Expired(now) {
			continue
		}

		if err := r.sessions.Delete(ctx, m.ID); err != nil {
			slogctx.Warn(ctx, "Could not delete expired session", "session_id", m.ID, "error", err)
			continue
		}

		slogctx.Debug(ctx, "Swept expired session", "session_id", m.ID)
	}

	return nil
}
