// Package routegate decides where the application routes a user when the
// session changes: the admin area, the client dashboard, or the public
// landing page.
package routegate

import (
	"strings"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/identity"
)

const (
	RouteLanding   = "/"
	RouteLogin     = "/login"
	RouteSignup    = "/signup"
	RouteDashboard = "/dashboard"
	RouteAdmin     = "/admin"
)

// publicEntryRoutes are the routes a restored session is redirected away
// from on initial load. Deep links into protected areas are left alone.
var publicEntryRoutes = map[string]struct{}{
	RouteLanding:           {},
	RouteLogin:             {},
	RouteSignup:            {},
	RouteSignup + "/admin": {},
}

// Navigator is the routing port the gate drives. Implementations must
// tolerate repeated navigation to the current route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}

type Gate struct {
	admins *allowlist.List
	nav    Navigator
}

func New(admins *allowlist.List, nav Navigator) *Gate {
	return &Gate{
		admins: admins,
		nav:    nav,
	}
}

// TargetArea returns the protected area for the session's role.
func (g *Gate) TargetArea(session *identity.Session) string {
	if session != nil && g.admins.IsAdmin(session.User.Email) {
		return RouteAdmin
	}

	return RouteDashboard
}

// OnEvent reacts to a session-change event. SIGNED_IN navigates to the
// role's area unless the current route is already inside a protected area;
// SIGNED_OUT always navigates to the landing page. Other events never
// navigate.
func (g *Gate) OnEvent(event identity.Event, currentRoute string) {
	switch event.Type {
	case identity.EventSignedIn:
		if inProtectedArea(currentRoute) {
			return
		}
		g.nav.Navigate(g.TargetArea(event.Session))
	case identity.EventSignedOut:
		g.nav.Navigate(RouteLanding)
	}
}

// RestoreRoute handles the initial load with a pre-existing session: only
// the login/signup/landing routes are redirected, so a session restored on
// a protected page never loses its deep link. The asymmetry with OnEvent is
// deliberate; it prevents redirect loops on restore.
func (g *Gate) RestoreRoute(currentRoute string, session *identity.Session) {
	if session == nil {
		return
	}
	if _, ok := publicEntryRoutes[currentRoute]; !ok {
		return
	}

	g.nav.Navigate(g.TargetArea(session))
}

func inProtectedArea(route string) bool {
	return isUnder(route, RouteDashboard) || isUnder(route, RouteAdmin)
}

func isUnder(route, area string) bool {
	return route == area || strings.HasPrefix(route, area+"/")
}
