package identitymock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenorapm/zenora/internal/identity"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type account struct {
	password string
	user     identity.User
}

type ProviderOption func(*Provider)

// Provider is an in-memory identity provider for tests.
type Provider struct {
	hub *identity.Hub

	mu       sync.Mutex
	accounts map[string]*account
	current  *identity.Session

	getSessionErr, signInErr, signUpErr, signOutErr, refreshErr error

	signInCalls, signUpCalls, signOutCalls int
}

func WithIdentity(email, password, fullName string) ProviderOption {
	return func(p *Provider) {
		p.accounts[email] = &account{
			password: password,
			user: identity.User{
				ID:       uuid.NewString(),
				Email:    email,
				FullName: fullName,
			},
		}
	}
}

func WithSession(sess identity.Session) ProviderOption {
	return func(p *Provider) { p.current = &sess }
}

func WithGetSessionError(err error) ProviderOption {
	return func(p *Provider) { p.getSessionErr = err }
}

func WithSignInError(err error) ProviderOption {
	return func(p *Provider) { p.signInErr = err }
}

func WithSignUpError(err error) ProviderOption {
	return func(p *Provider) { p.signUpErr = err }
}

func WithSignOutError(err error) ProviderOption {
	return func(p *Provider) { p.signOutErr = err }
}

func WithRefreshError(err error) ProviderOption {
	return func(p *Provider) { p.refreshErr = err }
}

var _ identity.Provider = (*Provider)(nil)

func NewInMemProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		hub:      identity.NewHub(),
		accounts: make(map[string]*account),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *Provider) GetSession(_ context.Context) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.getSessionErr != nil {
		return nil, p.getSessionErr
	}
	if p.current == nil {
		return nil, nil
	}

	s := *p.current

	return &s, nil
}

func (p *Provider) OnSessionChange(fn func(identity.Event)) identity.Subscription {
	return p.hub.Subscribe(fn)
}

func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	p.mu.Lock()
	p.signInCalls++

	if p.signInErr != nil {
		p.mu.Unlock()
		return nil, p.signInErr
	}

	acc, ok := p.accounts[email]
	if !ok || acc.password != password {
		p.mu.Unlock()
		return nil, &serviceerr.AuthError{Message: "Invalid login credentials"}
	}

	session := &identity.Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		TokenType:    "bearer",
		Expiry:       time.Now().Add(time.Hour),
		User:         acc.user,
	}
	p.current = session
	p.mu.Unlock()

	p.hub.Emit(identity.Event{Type: identity.EventSignedIn, Session: session})

	return session, nil
}

func (p *Provider) SignUp(_ context.Context, email, password string, meta identity.Metadata) (*identity.SignUpResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.signUpCalls++

	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	if _, ok := p.accounts[email]; ok {
		return nil, serviceerr.ErrConflict
	}

	acc := &account{
		password: password,
		user: identity.User{
			ID:       uuid.NewString(),
			Email:    email,
			FullName: meta["full_name"],
		},
	}
	p.accounts[email] = acc

	return &identity.SignUpResult{UserID: acc.user.ID, Email: email}, nil
}

func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.signOutCalls++

	if p.signOutErr != nil {
		p.mu.Unlock()
		return p.signOutErr
	}

	p.current = nil
	p.mu.Unlock()

	p.hub.Emit(identity.Event{Type: identity.EventSignedOut, Session: nil})

	return nil
}

func (p *Provider) Refresh(_ context.Context, refreshToken string) (*identity.Session, error) {
	p.mu.Lock()

	if p.refreshErr != nil {
		p.mu.Unlock()
		return nil, p.refreshErr
	}

	if p.current == nil || p.current.RefreshToken != refreshToken {
		p.mu.Unlock()
		return nil, &serviceerr.AuthError{Message: "Invalid Refresh Token"}
	}

	refreshed := *p.current
	refreshed.AccessToken = uuid.NewString()
	refreshed.RefreshToken = uuid.NewString()
	refreshed.Expiry = time.Now().Add(time.Hour)
	p.current = &refreshed
	p.mu.Unlock()

	p.hub.Emit(identity.Event{Type: identity.EventTokenRefreshed, Session: &refreshed})

	return &refreshed, nil
}

// Emit delivers an arbitrary event to subscribers, for tests that drive the
// session-change stream directly.
func (p *Provider) Emit(event identity.Event) {
	if event.Type == identity.EventSignedOut {
		p.mu.Lock()
		p.current = nil
		p.mu.Unlock()
	} else if event.Session != nil {
		p.mu.Lock()
		s := *event.Session
		p.current = &s
		p.mu.Unlock()
	}

	p.hub.Emit(event)
}

func (p *Provider) SignInCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.signInCalls
}

func (p *Provider) SignUpCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.signUpCalls
}

func (p *Provider) SignOutCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.signOutCalls
}

// HasIdentity reports whether an identity exists for the email.
func (p *Provider) HasIdentity(email string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.accounts[email]

	return ok
}

// Identity returns the stored user for the email.
func (p *Provider) Identity(email string) (identity.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok {
		return identity.User{}, false
	}

	return acc.user, true
}
