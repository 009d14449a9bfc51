package portal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/authops"
	clientmock "github.com/zenorapm/zenora/internal/client/mock"
	"github.com/zenorapm/zenora/internal/dashboard"
	dashboardmock "github.com/zenorapm/zenora/internal/dashboard/mock"
	"github.com/zenorapm/zenora/internal/identity"
	identitymock "github.com/zenorapm/zenora/internal/identity/mock"
	"github.com/zenorapm/zenora/internal/portal"
	"github.com/zenorapm/zenora/internal/routegate"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

const adminEmail = "zenoramgmt@gmail.com"

type recordingNav struct {
	routes []string
}

func (n *recordingNav) Navigate(route string) {
	n.routes = append(n.routes, route)
}

type fixture struct {
	provider *identitymock.Provider
	profiles *clientmock.Repository
	repo     *dashboardmock.Repository
	nav      *recordingNav
	notices  []portal.Notice
	portal   *portal.Portal
}

func newFixture(t *testing.T, initialRoute string, providerOpts []identitymock.ProviderOption, repoOpts []dashboardmock.RepositoryOption) *fixture {
	t.Helper()

	f := &fixture{
		provider: identitymock.NewInMemProvider(providerOpts...),
		profiles: clientmock.NewInMemRepository(),
		repo:     dashboardmock.NewInMemRepository(repoOpts...),
		nav:      &recordingNav{},
	}

	admins := allowlist.New(adminEmail)
	f.portal = portal.New(context.Background(), portal.Deps{
		Provider:     f.provider,
		Auth:         authops.NewService(f.provider, f.profiles, admins),
		Loader:       dashboard.NewLoader(f.repo, time.Minute),
		Admins:       admins,
		Navigator:    f.nav,
		Notifier:     portal.NotifierFunc(func(n portal.Notice) { f.notices = append(f.notices, n) }),
		InitialRoute: initialRoute,
	})
	t.Cleanup(f.portal.Close)

	return f
}

func TestPortal_SignInFlow_RegularUser(t *testing.T) {
	f := newFixture(t, "/login",
		[]identitymock.ProviderOption{identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe")},
		[]dashboardmock.RepositoryOption{},
	)

	require.NoError(t, f.portal.SignIn(context.Background(), "tenant@example.com", "secret123", false))

	assert.Equal(t, []string{"/dashboard"}, f.nav.routes)
	assert.Equal(t, "/dashboard", f.portal.Route())

	snap := f.portal.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "tenant@example.com", snap.User.Email)

	// Dashboard loaded on user presence.
	require.NotNil(t, f.portal.Overview())
	assert.True(t, f.portal.Overview().Settings.ShowProperties)
}

func TestPortal_SignInFlow_AdminBootstrap(t *testing.T) {
	f := newFixture(t, "/login", nil, nil)

	require.NoError(t, f.portal.SignIn(context.Background(), adminEmail, "Zenora101!", true))

	assert.Equal(t, []string{"/admin"}, f.nav.routes)

	user, ok := f.provider.Identity(adminEmail)
	require.True(t, ok)
	assert.Equal(t, "Zenora Admin", user.FullName)
}

func TestPortal_SignIn_BadCredentials_Notifies(t *testing.T) {
	f := newFixture(t, "/login",
		[]identitymock.ProviderOption{identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe")},
		nil,
	)

	err := f.portal.SignIn(context.Background(), "tenant@example.com", "wrong", false)

	var authErr *serviceerr.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Len(t, f.notices, 1)
	assert.Equal(t, portal.SeverityError, f.notices[0].Severity)
	assert.Equal(t, "Invalid login credentials", f.notices[0].Detail)
	assert.Empty(t, f.nav.routes)
}

func TestPortal_SignUpFlow(t *testing.T) {
	f := newFixture(t, "/signup", nil, nil)

	require.NoError(t, f.portal.SignUp(context.Background(), "new@x.com", "secret123", "Jane Doe"))

	// Identity created, profile row inserted, navigation to /login.
	assert.True(t, f.provider.HasIdentity("new@x.com"))
	assert.Equal(t, 1, f.profiles.Len())
	assert.Equal(t, []string{"/login"}, f.nav.routes)

	require.Len(t, f.notices, 1)
	assert.Equal(t, portal.SeverityInfo, f.notices[0].Severity)
}

func TestPortal_SignUp_ReservedEmail(t *testing.T) {
	f := newFixture(t, "/signup", nil, nil)

	err := f.portal.SignUp(context.Background(), adminEmail, "secret123", "Someone")

	assert.ErrorIs(t, err, serviceerr.ErrReservedIdentifier)
	assert.Zero(t, f.provider.SignUpCalls())
	assert.Empty(t, f.nav.routes)
}

func TestPortal_SignOutFlow(t *testing.T) {
	f := newFixture(t, "/login",
		[]identitymock.ProviderOption{identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe")},
		nil,
	)

	require.NoError(t, f.portal.SignIn(context.Background(), "tenant@example.com", "secret123", false))
	require.NoError(t, f.portal.SignOut(context.Background()))

	assert.Equal(t, []string{"/dashboard", "/"}, f.nav.routes)

	snap := f.portal.Snapshot()
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Loading)
	assert.Nil(t, f.portal.Overview())
}

func TestPortal_RestoredSession_RedirectsOffEntryRoutes(t *testing.T) {
	sess := identity.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
		User:         identity.User{ID: "user-1", Email: "tenant@example.com"},
	}
	f := newFixture(t, "/login",
		[]identitymock.ProviderOption{identitymock.WithSession(sess)},
		nil,
	)

	assert.Equal(t, []string{"/dashboard"}, f.nav.routes)
	require.NotNil(t, f.portal.Overview())
}

func TestPortal_RestoredSession_KeepsDeepLink(t *testing.T) {
	sess := identity.Session{
		AccessToken: "access",
		Expiry:      time.Now().Add(time.Hour),
		User:        identity.User{ID: "user-1", Email: "tenant@example.com"},
	}
	f := newFixture(t, "/dashboard/properties/123",
		[]identitymock.ProviderOption{identitymock.WithSession(sess)},
		nil,
	)

	assert.Empty(t, f.nav.routes)
	assert.Equal(t, "/dashboard/properties/123", f.portal.Route())
	// The dashboard still loads for the restored user.
	require.NotNil(t, f.portal.Overview())
}

func TestPortal_DashboardLoadFailure_NotifiesOnce(t *testing.T) {
	f := newFixture(t, "/login",
		[]identitymock.ProviderOption{identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe")},
		[]dashboardmock.RepositoryOption{dashboardmock.WithSettingsError(errors.New("connection reset"))},
	)

	require.NoError(t, f.portal.SignIn(context.Background(), "tenant@example.com", "secret123", false))

	require.Len(t, f.notices, 1)
	assert.Equal(t, "Failed to load data", f.notices[0].Title)
	// The store still reached a terminal state.
	require.NotNil(t, f.portal.Snapshot().User)
}

func TestPortal_UserNavigation_TracksRoute(t *testing.T) {
	f := newFixture(t, "/", nil, nil)

	f.portal.Navigate(routegate.RouteLogin)

	assert.Equal(t, "/login", f.portal.Route())
	assert.Equal(t, []string{"/login"}, f.nav.routes)
}
