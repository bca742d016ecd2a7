// Package session holds the signed-in user as an explicit value owned by
// the presentation layer. The domain API and the mutation coordinator are
// stateless with respect to identity.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/model"
)

// Session tracks the authenticated user for one client instance. Auth is
// mock-backed: any email signs in as the seeded profile.
type Session struct {
	mu     sync.Mutex
	client *api.Client
	user   *model.User
}

func New(client *api.Client) *Session {
	return &Session{client: client}
}

// Login seeds first-launch data if needed and loads the profile.
func (s *Session) Login(ctx context.Context, email string) (*model.User, error) {
	if err := s.client.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize data: %w", err)
	}
	user, err := s.client.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Signup behaves like Login against the mock backend.
func (s *Session) Signup(ctx context.Context, email string) (*model.User, error) {
	return s.Login(ctx, email)
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// Current returns the signed-in user, or ok=false when logged out.
func (s *Session) Current() (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != nil
}

type contextKey struct{}

// WithUser attaches the signed-in user to a request context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom extracts the signed-in user from a context.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok
}
