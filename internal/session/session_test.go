package session

import (
	"context"
	"testing"

	"github.com/upwardia/upwardia/internal/api"
	"github.com/upwardia/upwardia/internal/localstore"
	"github.com/upwardia/upwardia/internal/model"
)

func setupSession(t *testing.T) *Session {
	t.Helper()
	client := api.NewClient(localstore.NewMemoryStore(), nil)
	return New(client)
}

func TestLoginSeedsAndLoads(t *testing.T) {
	s := setupSession(t)

	if _, ok := s.Current(); ok {
		t.Fatal("fresh session should be logged out")
	}

	user, err := s.Login(context.Background(), "alex@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Name != "Alex" {
		t.Errorf("user = %+v", user)
	}

	current, ok := s.Current()
	if !ok || current.ID != user.ID {
		t.Errorf("current = %+v ok=%v", current, ok)
	}
}

func TestSignupMatchesLogin(t *testing.T) {
	s := setupSession(t)
	user, err := s.Signup(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID != model.SeedUser().ID {
		t.Errorf("signup user = %+v, want seeded profile", user)
	}
}

func TestLogoutClearsCurrent(t *testing.T) {
	s := setupSession(t)
	if _, err := s.Login(context.Background(), "alex@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.Logout()
	if _, ok := s.Current(); ok {
		t.Error("session should be logged out")
	}
}

func TestUserContextRoundTrip(t *testing.T) {
	u := model.SeedUser()
	ctx := WithUser(context.Background(), &u)

	got, ok := UserFrom(ctx)
	if !ok || got.ID != u.ID {
		t.Errorf("UserFrom = %+v ok=%v", got, ok)
	}

	if _, ok := UserFrom(context.Background()); ok {
		t.Error("empty context should carry no user")
	}
}
