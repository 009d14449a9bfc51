// Package authstate holds the process-wide session state: the current
// session and user mirrored from the identity provider, plus a loading flag
// covering store initialization.
package authstate

import (
	"context"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/zenorapm/zenora/internal/identity"
)

type Phase string

const (
	PhaseLoading       Phase = "LOADING"
	PhaseAuthenticated Phase = "AUTHENTICATED"
	PhaseAnonymous     Phase = "ANONYMOUS"
)

// Snapshot is the read-only view of the store exposed to the rest of the
// application.
type Snapshot struct {
	Session *identity.Session
	User    *identity.User
	Loading bool
}

// Store subscribes to the provider's session-change stream and mirrors
// {session, user}. Only the provider callback and the one-time initial read
// mutate it; everything else reads snapshots.
type Store struct {
	mu       sync.Mutex
	session  *identity.Session
	user     *identity.User
	phase    Phase
	resolved bool
	closed   bool

	providerSub identity.Subscription
	listeners   *identity.Hub
}

// New constructs the store: it subscribes to the session-change stream
// first and then performs one explicit session read, so a session that was
// already active before the subscription went live is not missed. Loading
// is true until the first of the two resolves and never again afterwards.
// A failed initial read still lands the store in a terminal ANONYMOUS state.
func New(ctx context.Context, provider identity.Provider) *Store {
	s := &Store{
		phase:     PhaseLoading,
		listeners: identity.NewHub(),
	}

	// Subscription before the read, so no event can fall in the gap.
	s.providerSub = provider.OnSessionChange(s.handleEvent)

	session, err := provider.GetSession(ctx)
	if err != nil {
		slogctx.Warn(ctx, "Reading the current session failed, starting anonymous", "error", err)
		session = nil
	}
	s.applyInitial(session)

	return s
}

// handleEvent is the only mutation path after initialization.
func (s *Store) handleEvent(event identity.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.resolved = true
	switch {
	case event.Type == identity.EventSignedOut || event.Session == nil:
		s.session = nil
		s.user = nil
		s.phase = PhaseAnonymous
	default:
		sess := *event.Session
		s.session = &sess
		user := sess.User
		s.user = &user
		s.phase = PhaseAuthenticated
	}
	s.mu.Unlock()

	s.listeners.Emit(event)
}

// applyInitial applies the explicit session read, unless an event already
// resolved the store first; the event is the newer truth.
func (s *Store) applyInitial(session *identity.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved || s.closed {
		return
	}

	s.resolved = true
	if session == nil {
		s.phase = PhaseAnonymous
		return
	}

	sess := *session
	s.session = &sess
	user := sess.User
	s.user = &user
	s.phase = PhaseAuthenticated
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Session: s.session,
		User:    s.user,
		Loading: !s.resolved,
	}
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Subscribe registers a downstream reaction to session-change events the
// store has already absorbed. Listeners observe events after the store's
// own state is updated.
func (s *Store) Subscribe(fn func(identity.Event)) identity.Subscription {
	return s.listeners.Subscribe(fn)
}

// Close releases the provider subscription. No callbacks are processed
// after it returns; closing twice is safe.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.resolved = true
	s.mu.Unlock()

	s.providerSub.Unsubscribe()
}
