package authops_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/authops"
	clientmock "github.com/zenorapm/zenora/internal/client/mock"
	identitymock "github.com/zenorapm/zenora/internal/identity/mock"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

const adminEmail = "zenoramgmt@gmail.com"

func newAdmins() *allowlist.List {
	return allowlist.New(adminEmail)
}

func TestService_SignUp(t *testing.T) {
	provider := identitymock.NewInMemProvider()
	profiles := clientmock.NewInMemRepository()
	svc := authops.NewService(provider, profiles, newAdmins())

	outcome, err := svc.SignUp(context.Background(), "new@x.com", "secret123", "Jane Doe")
	require.NoError(t, err)
	require.Nil(t, outcome.Warning)

	assert.Equal(t, "new@x.com", outcome.Email)
	assert.NotEmpty(t, outcome.UserID)

	profile, err := profiles.Get(context.Background(), outcome.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", profile.Email)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Nil(t, profile.Phone)
	assert.Nil(t, profile.Address)
}

func TestService_SignUp_ReservedEmail(t *testing.T) {
	provider := identitymock.NewInMemProvider()
	profiles := clientmock.NewInMemRepository()
	svc := authops.NewService(provider, profiles, newAdmins())

	_, err := svc.SignUp(context.Background(), adminEmail, "secret123", "Someone")

	assert.ErrorIs(t, err, serviceerr.ErrReservedIdentifier)
	// Rejected before any network call.
	assert.Zero(t, provider.SignUpCalls())
	assert.Zero(t, profiles.Len())
}

func TestService_SignUp_ReservedEmail_DifferentCase(t *testing.T) {
	provider := identitymock.NewInMemProvider()
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	_, err := svc.SignUp(context.Background(), "ZenoraMgmt@Gmail.com", "secret123", "Someone")

	assert.ErrorIs(t, err, serviceerr.ErrReservedIdentifier)
	assert.Zero(t, provider.SignUpCalls())
}

func TestService_SignUp_ProfileInsertFails_DegradedSuccess(t *testing.T) {
	provider := identitymock.NewInMemProvider()
	profiles := clientmock.NewInMemRepository(clientmock.WithCreateError(errors.New("insert failed")))
	svc := authops.NewService(provider, profiles, newAdmins())

	outcome, err := svc.SignUp(context.Background(), "new@x.com", "secret123", "Jane Doe")

	// The identity stands even though the profile row does not.
	require.NoError(t, err)
	require.NotNil(t, outcome.Warning)
	assert.Equal(t, outcome.UserID, outcome.Warning.UserID)
	assert.True(t, provider.HasIdentity("new@x.com"))
}

func TestService_SignUp_ExistingIdentity(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithIdentity("new@x.com", "secret123", "Jane Doe"))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	_, err := svc.SignUp(context.Background(), "new@x.com", "other456", "Jane Doe")
	assert.ErrorIs(t, err, serviceerr.ErrConflict)
}

func TestService_SignIn(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe"))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	session, err := svc.SignIn(context.Background(), "tenant@example.com", "secret123", false)
	require.NoError(t, err)
	assert.Equal(t, "tenant@example.com", session.User.Email)
}

func TestService_SignIn_BadCredentials(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe"))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	_, err := svc.SignIn(context.Background(), "tenant@example.com", "wrong", false)

	var authErr *serviceerr.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid login credentials", authErr.Message)
}

func TestService_SignIn_AdminBootstrap(t *testing.T) {
	// No prior identity for the admin email.
	provider := identitymock.NewInMemProvider()
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	session, err := svc.SignIn(context.Background(), adminEmail, "Zenora101!", true)
	require.NoError(t, err)

	assert.Equal(t, adminEmail, session.User.Email)
	assert.Equal(t, "Zenora Admin", session.User.FullName)

	user, ok := provider.Identity(adminEmail)
	require.True(t, ok)
	assert.Equal(t, "Zenora Admin", user.FullName)
}

func TestService_SignIn_AdminBootstrap_ExistingIdentity(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithIdentity(adminEmail, "Zenora101!", "Zenora Admin"))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	_, err := svc.SignIn(context.Background(), adminEmail, "Zenora101!", true)
	require.NoError(t, err)

	// The probe hit the conflict and moved on to the credential exchange.
	assert.Equal(t, 1, provider.SignUpCalls())
	assert.Equal(t, 1, provider.SignInCalls())
}

func TestService_SignIn_AdminAttempt_NotAllowListed(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithIdentity("tenant@example.com", "secret123", "Jane Doe"))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	_, err := svc.SignIn(context.Background(), "tenant@example.com", "secret123", true)
	require.NoError(t, err)

	// No bootstrap provisioning for emails outside the allow-list.
	assert.Zero(t, provider.SignUpCalls())
}

func TestService_SignOut(t *testing.T) {
	provider := identitymock.NewInMemProvider()
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, 1, provider.SignOutCalls())
}

func TestService_SignOut_Error(t *testing.T) {
	provider := identitymock.NewInMemProvider(identitymock.WithSignOutError(errors.New("provider down")))
	svc := authops.NewService(provider, clientmock.NewInMemRepository(), newAdmins())

	assert.Error(t, svc.SignOut(context.Background()))
}
