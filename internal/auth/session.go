package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/khrees2412/jobdash/internal/storage"
)

// Session is the logged-in identity. The token and email live in the store so
// they survive across invocations; the in-memory pair is always swapped as one.
type Session struct {
	store storage.Store

	mu    sync.RWMutex
	token string
	email string
}

// Load restores the session persisted in store
func Load(ctx context.Context, store storage.Store) (*Session, error) {
	s := &Session{store: store}

	token, _, err := store.Get(ctx, storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	email, _, err := store.Get(ctx, storage.KeyUserEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to read session email: %w", err)
	}

	s.token, s.email = token, email
	return s, nil
}

// Login persists token and email, then makes them current
func (s *Session) Login(ctx context.Context, token, email string) error {
	if err := s.store.SetMany(ctx, map[string]string{
		storage.KeyToken:     token,
		storage.KeyUserEmail: email,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.token, s.email = token, email
	s.mu.Unlock()
	return nil
}

// Logout forgets the token and email. The in-memory session is cleared even
// when the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.email = "", ""
	s.mu.Unlock()

	if err := s.store.Remove(ctx, storage.KeyToken, storage.KeyUserEmail); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Guard runs view when the session is authenticated and redirect otherwise.
// Exactly one of them runs.
func Guard(s *Session, view, redirect func() error) error {
	if s != nil && s.IsAuthenticated() {
		return view()
	}
	return redirect()
}
