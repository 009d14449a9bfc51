// Package authops layers the portal's business rules on top of the
// identity provider: reserved admin emails, self-service admin bootstrap,
// and client-profile provisioning at signup.
package authops

import (
	"context"
	"errors"
	"fmt"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/allowlist"
	"github.com/zenorapm/zenora/internal/client"
	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

// adminFullName is the profile name attached to a self-provisioned admin
// identity.
const adminFullName = "Zenora Admin"

type Service struct {
	provider identity.Provider
	profiles client.Repository
	admins   *allowlist.List

	// Overlapping sign-in attempts are serialized: the last completed
	// attempt owns the resulting session state.
	signInMu sync.Mutex
}

func NewService(provider identity.Provider, profiles client.Repository, admins *allowlist.List) *Service {
	return &Service{
		provider: provider,
		profiles: profiles,
		admins:   admins,
	}
}

// SignIn exchanges credentials for a session. When adminAttempt is set and
// the email is allow-listed, a missing admin identity is provisioned
// transparently before the credential exchange (self-service bootstrap).
// Navigation is not performed here; the session store's event reaction owns
// routing, so a sign-in never double-routes.
func (s *Service) SignIn(ctx context.Context, email, password string, adminAttempt bool) (*identity.Session, error) {
	s.signInMu.Lock()
	defer s.signInMu.Unlock()

	if adminAttempt && s.admins.IsAdmin(email) {
		if err := s.bootstrapAdmin(ctx, email, password); err != nil {
			return nil, fmt.Errorf("bootstrapping admin identity: %w", err)
		}
	}

	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		var authErr *serviceerr.AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}

		return nil, fmt.Errorf("exchanging credentials: %w", err)
	}

	return session, nil
}

// bootstrapAdmin probes for an existing admin identity by attempting to
// provision one; an ErrConflict means it is already there.
func (s *Service) bootstrapAdmin(ctx context.Context, email, password string) error {
	_, err := s.provider.SignUp(ctx, email, password, identity.Metadata{"full_name": adminFullName})
	switch {
	case err == nil:
		slogctx.Info(ctx, "Provisioned admin identity", "email", email)
		return nil
	case errors.Is(err, serviceerr.ErrConflict):
		return nil
	default:
		return err
	}
}

// SignUpOutcome reports a completed signup. Warning is non-nil when the
// client-profile insert failed after the identity was created; the signup
// still counts as a success.
type SignUpOutcome struct {
	UserID  string
	Email   string
	Warning *serviceerr.ProfileProvisioningError
}

// SignUp provisions a new identity plus its client profile row. Allow-listed
// emails are rejected before any network call: admin accounts go through
// SignIn's bootstrap path, never public signup. The profile insert is the
// second step of a two-step saga with no rollback; its failure is reported
// as a warning on the outcome.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*SignUpOutcome, error) {
	if s.admins.IsAdmin(email) {
		return nil, serviceerr.ErrReservedIdentifier
	}

	result, err := s.provider.SignUp(ctx, email, password, identity.Metadata{"full_name": fullName})
	if err != nil {
		var authErr *serviceerr.AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		if errors.Is(err, serviceerr.ErrConflict) {
			return nil, serviceerr.ErrConflict
		}

		return nil, fmt.Errorf("creating identity: %w", err)
	}

	outcome := &SignUpOutcome{UserID: result.UserID, Email: result.Email}

	profile := client.Profile{
		ID:       result.UserID,
		Email:    email,
		FullName: fullName,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		outcome.Warning = &serviceerr.ProfileProvisioningError{UserID: result.UserID, Err: err}
		slogctx.Warn(ctx, "Client profile insert failed after identity creation", "user_id", result.UserID, "error", err)
	}

	return outcome, nil
}

// SignOut delegates to the provider. Beyond error reporting the caller
// treats it as fire-and-forget.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}

	return nil
}
