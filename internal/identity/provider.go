// Package identity defines the narrow interface through which the portal
// consumes the hosted identity provider. Credential storage, session
// issuance and password recovery live on the provider side; this package
// only mirrors what it returns.
package identity

import (
	"context"
	"time"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventUserUpdated    EventType = "USER_UPDATED"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// User is derived from the session claims. It is never mutated locally
// except through explicit update operations delegated to the provider.
type User struct {
	ID       string
	Email    string
	FullName string
}

// Session is the time-bounded proof of authentication issued by the
// provider. Consumers treat it as read-only.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	User         User
}

type SignUpResult struct {
	UserID string
	Email  string
}

// Metadata carries free-form profile attributes attached to an identity at
// signup time, e.g. full_name.
type Metadata map[string]string

// Event is delivered to session-change subscribers. Session is nil for
// EventSignedOut.
type Event struct {
	Type    EventType
	Session *Session
}

type Subscription interface {
	// Unsubscribe releases the subscription. No callbacks are delivered
	// after it returns.
	Unsubscribe()
}

type Provider interface {
	// GetSession returns the current session, or nil when anonymous.
	GetSession(ctx context.Context) (*Session, error)

	// OnSessionChange registers a callback for session-change events.
	// Events are delivered synchronously from the operation causing them.
	OnSessionChange(fn func(Event)) Subscription

	// SignInWithPassword exchanges credentials for a session. A rejection
	// is returned as *serviceerr.AuthError with the provider's message.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp provisions a new identity. serviceerr.ErrConflict is returned
	// when the email already has one.
	SignUp(ctx context.Context, email, password string, meta Metadata) (*SignUpResult, error)

	// SignOut revokes the current session.
	SignOut(ctx context.Context) error

	// Refresh exchanges a refresh token for a fresh session.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}
