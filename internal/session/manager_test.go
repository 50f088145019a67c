package session

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"naulify_agent/internal/identity"
	"naulify_agent/internal/models"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/store"
	"naulify_agent/internal/viewmodel"
)

func newTestManager(t *testing.T, idle time.Duration) (*Manager, *identity.Provider) {
	t.Helper()
	mem := store.NewMemory()
	provider, err := identity.NewProvider(
		store.Open[identity.Account](mem, store.CollectionAccounts),
		identity.LogMailer{},
		identity.Config{BcryptCost: bcrypt.MinCost, VerificationSecret: "verify-secret"},
	)
	if err != nil {
		t.Fatal(err)
	}
	deps := Dependencies{
		Identity: provider,
		Profiles: repository.NewProfileRepository(
			store.Open[models.User](mem, store.CollectionUsers),
			store.Open[models.Vehicle](mem, store.CollectionVehicles),
		),
		Routes: repository.NewRouteRepository(
			store.Open[models.Route](mem, store.CollectionRoutes),
			store.Open[models.FareCollection](mem, store.CollectionFareCollections),
		),
	}
	return NewManager(deps, idle), provider
}

func TestManager_OpenGetClose(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	s := m.Open(context.Background(), Resume{})

	if _, ok := s.Auth.State().(viewmodel.AuthUnauthenticated); !ok {
		t.Fatalf("new session state = %#v", s.Auth.State())
	}
	if got, ok := m.Get(s.ID); !ok || got != s {
		t.Fatal("session not registered")
	}
	if !m.Close(s.ID) || m.Close(s.ID) {
		t.Fatal("close should succeed exactly once")
	}
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("closed session still reachable")
	}
}

func TestManager_ResumeRestoresPrincipal(t *testing.T) {
	ctx := context.Background()
	m, provider := newTestManager(t, time.Minute)
	p, err := provider.CreateUser(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}

	s := m.Open(ctx, Resume{UserID: p.ID, Generation: p.Generation})
	if got, ok := s.Auth.State().(viewmodel.AuthAuthenticated); !ok || got.UserID != p.ID {
		t.Fatalf("state = %#v", s.Auth.State())
	}
	if s.UserID() != p.ID {
		t.Fatalf("user id = %q", s.UserID())
	}

	unknown := m.Open(ctx, Resume{UserID: "no-such-user"})
	if unknown.UserID() != "" {
		t.Fatal("unknown principal should start signed out")
	}
}

func TestManager_ResumeAfterSignOutStartsSignedOut(t *testing.T) {
	ctx := context.Background()
	m, provider := newTestManager(t, time.Minute)
	p, err := provider.CreateUser(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	remembered := Resume{UserID: p.ID, Generation: p.Generation}

	s := m.Open(ctx, remembered)
	if _, ok := s.Auth.SignOut(ctx).(viewmodel.AuthUnauthenticated); !ok {
		t.Fatalf("sign out state = %#v", s.Auth.State())
	}

	again := m.Open(ctx, remembered)
	if again.UserID() != "" {
		t.Fatalf("signed-out principal resumed as %q", again.UserID())
	}
	if _, ok := again.Auth.State().(viewmodel.AuthUnauthenticated); !ok {
		t.Fatalf("state = %#v", again.Auth.State())
	}

	signedIn, err := provider.SignInWithPassword(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	fresh := m.Open(ctx, Resume{UserID: signedIn.ID, Generation: signedIn.Generation})
	if fresh.UserID() != p.ID {
		t.Fatal("a session issued after the sign-out should resume")
	}
}

func TestManager_SweepClosesIdle(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	clock := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle := m.Open(context.Background(), Resume{})
	active := m.Open(context.Background(), Resume{})

	clock = clock.Add(45 * time.Second)
	m.Get(active.ID)
	clock = clock.Add(30 * time.Second)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("swept %d sessions", n)
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Fatal("idle session survived")
	}
	if _, ok := m.Get(active.ID); !ok {
		t.Fatal("active session was swept")
	}
}

func TestManager_RunClosesAllOnShutdown(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	m.Open(context.Background(), Resume{})
	m.Open(context.Background(), Resume{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	if m.Len() != 0 {
		t.Fatalf("%d sessions left", m.Len())
	}
}
