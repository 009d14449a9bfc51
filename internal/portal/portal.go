// Package portal wires the session store, the auth operations, the
// role/redirect gate and the dashboard loader into the application
// lifecycle: provider events update the store, the gate reacts with
// navigation, and the loader runs whenever a signed-in user is present.
package portal

import (
	"context"
	"errors"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/authops"
	"github.com/zenorapm/zenora/internal/authstate"
	"github.com/zenorapm/zenora/internal/dashboard"
	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/routegate"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a toast-style user notification. Every failure in the portal
// resolves to one of these; none of them terminate the process.
type Notice struct {
	Severity Severity
	Title    string
	Detail   string
}

type Notifier interface {
	Notify(notice Notice)
}

type NotifierFunc func(notice Notice)

func (f NotifierFunc) Notify(notice Notice) {
	f(notice)
}

type Deps struct {
	Provider  identity.Provider
	Auth      *authops.Service
	Loader    *dashboard.Loader
	Admins    *allowlist.List
	Navigator routegate.Navigator
	Notifier  Notifier

	// InitialRoute is the route active when the portal starts, used for
	// the restore-redirect decision.
	InitialRoute string
}

type Portal struct {
	store    *authstate.Store
	auth     *authops.Service
	gate     *routegate.Gate
	nav      routegate.Navigator
	loader   *dashboard.Loader
	notifier Notifier

	mu           sync.Mutex
	currentRoute string
	overview     *dashboard.Overview

	storeSub identity.Subscription
}

// New bootstraps the portal: the session store is initialized (subscribe,
// then read), a restored session is redirected off entry routes, and the
// dashboard loads when a user is already present.
func New(ctx context.Context, deps Deps) *Portal {
	p := &Portal{
		auth:         deps.Auth,
		loader:       deps.Loader,
		notifier:     deps.Notifier,
		currentRoute: deps.InitialRoute,
	}
	if p.currentRoute == "" {
		p.currentRoute = routegate.RouteLanding
	}

	// The gate drives the caller's navigator through the portal so the
	// current route stays tracked.
	p.nav = routegate.NavigatorFunc(func(route string) {
		p.setRoute(route)
		deps.Navigator.Navigate(route)
	})
	p.gate = routegate.New(deps.Admins, p.nav)

	p.store = authstate.New(ctx, deps.Provider)
	p.storeSub = p.store.Subscribe(func(event identity.Event) {
		p.onSessionChange(ctx, event)
	})

	if snap := p.store.Snapshot(); snap.Session != nil {
		p.gate.RestoreRoute(p.Route(), snap.Session)
		p.loadDashboard(ctx, snap.User.ID)
	}

	return p
}

func (p *Portal) onSessionChange(ctx context.Context, event identity.Event) {
	p.gate.OnEvent(event, p.Route())

	if event.Type == identity.EventSignedIn && event.Session != nil {
		p.loadDashboard(ctx, event.Session.User.ID)
	}
	if event.Type == identity.EventSignedOut {
		p.mu.Lock()
		p.overview = nil
		p.mu.Unlock()
	}
}

func (p *Portal) loadDashboard(ctx context.Context, clientID string) {
	overview, err := p.loader.Load(ctx, clientID)
	if err != nil {
		slogctx.Error(ctx, "Dashboard load cycle failed", "client_id", clientID, "error", err)
		p.notify(Notice{
			Severity: SeverityError,
			Title:    "Failed to load data",
			Detail:   "Could not retrieve your dashboard information. Please try again.",
		})
	}

	// Partial data fetched before a failure is still displayed.
	p.mu.Lock()
	p.overview = overview
	p.mu.Unlock()
}

// SignIn runs the credential exchange. The error is returned so the caller
// can stop its spinner; navigation happens through the session-change
// reaction, never here.
func (p *Portal) SignIn(ctx context.Context, email, password string, adminAttempt bool) error {
	_, err := p.auth.SignIn(ctx, email, password, adminAttempt)
	if err != nil {
		p.notify(Notice{
			Severity: SeverityError,
			Title:    "Authentication failed",
			Detail:   err.Error(),
		})

		return err
	}

	return nil
}

// SignUp creates the identity and its profile row, then sends the user to
// the login page. A profile-provisioning failure is a degraded success:
// reported, not fatal.
func (p *Portal) SignUp(ctx context.Context, email, password, fullName string) error {
	outcome, err := p.auth.SignUp(ctx, email, password, fullName)
	if err != nil {
		title := "Authentication failed"
		if errors.Is(err, serviceerr.ErrReservedIdentifier) {
			title = "Email not available"
		}
		p.notify(Notice{Severity: SeverityError, Title: title, Detail: err.Error()})

		return err
	}

	if outcome.Warning != nil {
		p.notify(Notice{
			Severity: SeverityWarning,
			Title:    "Account created with warnings",
			Detail:   "Your account exists but the profile setup did not complete. Support can finish it for you.",
		})
	} else {
		p.notify(Notice{Severity: SeverityInfo, Title: "Account created", Detail: "You can log in now."})
	}

	p.navigate(routegate.RouteLogin)

	return nil
}

func (p *Portal) SignOut(ctx context.Context) error {
	if err := p.auth.SignOut(ctx); err != nil {
		p.notify(Notice{Severity: SeverityError, Title: "Sign out failed", Detail: err.Error()})

		return err
	}

	return nil
}

// Snapshot exposes the session store's read-only view.
func (p *Portal) Snapshot() authstate.Snapshot {
	return p.store.Snapshot()
}

// Overview returns the latest dashboard load result, nil before the first
// load or after sign-out.
func (p *Portal) Overview() *dashboard.Overview {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.overview
}

// Route returns the route the portal last navigated to.
func (p *Portal) Route() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentRoute
}

// Navigate records a route change initiated by the user rather than the
// gate, e.g. following a link.
func (p *Portal) Navigate(route string) {
	p.navigate(route)
}

// Close releases the store's provider subscription and the portal's own
// listener. Safe to call more than once.
func (p *Portal) Close() {
	p.storeSub.Unsubscribe()
	p.store.Close()
}

func (p *Portal) navigate(route string) {
	p.nav.Navigate(route)
}

func (p *Portal) setRoute(route string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentRoute = route
}

func (p *Portal) notify(notice Notice) {
	if p.notifier != nil {
		p.notifier.Notify(notice)
	}
}
