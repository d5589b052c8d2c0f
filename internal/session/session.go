// Package session owns the bearer credential. No other component reads the
// store directly: the token reaches the rest of the app only through an
// explicit *Session handed in by the caller.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookapp/internal/token"
)

// State is the two-state machine of the auth flow.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Session holds the current credential and its decoded claims.
type Session struct {
	mu        sync.Mutex
	store     Store
	now       func() time.Time
	tok       string
	claims    token.Claims
	state     State
	listeners []func(State)
}

// New loads the persisted token. A missing, malformed or expired token means
// anonymous; malformed and expired tokens are also erased from the store, an
// implicit logout.
func New(store Store) (*Session, error) {
	s := &Session{store: store, now: time.Now, state: StateAnonymous}

	raw, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == "" {
		return s, nil
	}

	claims, err := token.Decode(raw)
	if err != nil || claims.Expired(s.now()) {
		if clearErr := store.Clear(); clearErr != nil {
			return nil, fmt.Errorf("clear stale session: %w", clearErr)
		}
		return s, nil
	}

	s.tok = raw
	s.claims = claims
	s.state = StateAuthenticated
	return s, nil
}

// OnChange registers fn to run after every state transition.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login persists tok and transitions to authenticated. A token that does not
// decode is treated like an absent one: the store is cleared, the session
// stays (or becomes) anonymous and the decode error is returned.
func (s *Session) Login(tok string) error {
	claims, err := token.Decode(tok)
	if err != nil {
		s.mu.Lock()
		s.tok = ""
		s.claims = token.Claims{}
		s.state = StateAnonymous
		s.mu.Unlock()
		_ = s.store.Clear()
		return err
	}

	if err := s.store.Save(tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.tok = tok
	s.claims = claims
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.notify(StateAuthenticated)
	return nil
}

// Logout erases the persisted token and transitions to anonymous. Safe to
// call when already anonymous.
func (s *Session) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.state == StateAuthenticated
	s.tok = ""
	s.claims = token.Claims{}
	s.state = StateAnonymous
	s.mu.Unlock()

	if changed {
		s.notify(StateAnonymous)
	}
	return nil
}

// Invalidate is the 401 hook of the HTTP layer: it forces logout, but
// transitions at most once no matter how many rejected responses arrive.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	s.tok = ""
	s.claims = token.Claims{}
	s.state = StateAnonymous
	s.mu.Unlock()

	_ = s.store.Clear()
	s.notify(StateAnonymous)
}

// Reload re-reads the store, picking up changes made outside this process
// by another session sharing the same token file. A cleared store forces
// anonymous here too; a replaced token is adopted if still valid.
func (s *Session) Reload() error {
	raw, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("reload session: %w", err)
	}

	s.mu.Lock()
	if raw == s.tok {
		s.mu.Unlock()
		return nil
	}

	if raw == "" {
		changed := s.state == StateAuthenticated
		s.tok = ""
		s.claims = token.Claims{}
		s.state = StateAnonymous
		s.mu.Unlock()
		if changed {
			s.notify(StateAnonymous)
		}
		return nil
	}

	claims, err := token.Decode(raw)
	if err != nil || claims.Expired(s.now()) {
		changed := s.state == StateAuthenticated
		s.tok = ""
		s.claims = token.Claims{}
		s.state = StateAnonymous
		s.mu.Unlock()
		_ = s.store.Clear()
		if changed {
			s.notify(StateAnonymous)
		}
		return nil
	}

	s.tok = raw
	s.claims = claims
	s.state = StateAuthenticated
	s.mu.Unlock()
	s.notify(StateAuthenticated)
	return nil
}

// Watch polls the store until ctx is done, applying external changes.
func (s *Session) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Reload()
		}
	}
}

// Token returns the current credential and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, s.state == StateAuthenticated
}

// Claims returns the decoded display claims of the current credential.
func (s *Session) Claims() (token.Claims, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims, s.state == StateAuthenticated
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Session) notify(state State) {
	s.mu.Lock()
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}
