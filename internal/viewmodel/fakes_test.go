package viewmodel_test

import (
	"context"
	"sync"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/identity"
	"naulify_agent/internal/models"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/store"
)

// fakeAuth is an in-memory AuthRepository keyed by email.
type fakeAuth struct {
	mu        sync.Mutex
	passwords map[string]string
	current   *identity.Principal
	verified  bool
	sendErr   error
	sent      int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{passwords: map[string]string{"owner@naulify.com": "secret123"}}
}

func (f *fakeAuth) SignInWithEmail(_ context.Context, email, password string) (*identity.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[email] != password || password == "" {
		return nil, apperror.NewRepositoryError(identity.ErrInvalidCredentials.Error(), identity.ErrInvalidCredentials)
	}
	f.current = &identity.Principal{ID: "uid-" + email, Email: email, EmailVerified: f.verified}
	return f.current, nil
}

func (f *fakeAuth) SignUpWithEmail(_ context.Context, email, password string) (*identity.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.passwords[email]; taken {
		return nil, apperror.NewRepositoryError(identity.ErrEmailInUse.Error(), identity.ErrEmailInUse)
	}
	f.passwords[email] = password
	f.current = &identity.Principal{ID: "uid-" + email, Email: email}
	return f.current, nil
}

func (f *fakeAuth) SignInWithGoogle(_ context.Context, idToken string) (*identity.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idToken != "good-token" {
		return nil, apperror.NewRepositoryError("", nil)
	}
	f.current = &identity.Principal{ID: "uid-google", Email: "g@naulify.com", EmailVerified: true}
	return f.current, nil
}

func (f *fakeAuth) SendEmailVerification(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent++
	return nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	return nil
}

func (f *fakeAuth) GetCurrentUser() *identity.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeAuth) IsEmailVerified(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verified, nil
}

func (f *fakeAuth) setVerified(v bool) {
	f.mu.Lock()
	f.verified = v
	f.mu.Unlock()
}

func memoryRepos() (repository.ProfileRepository, repository.RouteRepository, store.Collection[models.FareCollection]) {
	mem := store.NewMemory()
	fares := store.Open[models.FareCollection](mem, store.CollectionFareCollections)
	profiles := repository.NewProfileRepository(
		store.Open[models.User](mem, store.CollectionUsers),
		store.Open[models.Vehicle](mem, store.CollectionVehicles),
	)
	routes := repository.NewRouteRepository(store.Open[models.Route](mem, store.CollectionRoutes), fares)
	return profiles, routes, fares
}

// gatedRoutes holds GetRoutesForVehicle for gated vehicles until the gate closes.
// The held call ignores cancellation, like a slow backend that answers late.
type gatedRoutes struct {
	repository.RouteRepository
	gates   map[string]chan struct{}
	entered chan string
}

func (g *gatedRoutes) GetRoutesForVehicle(_ context.Context, vehicleID string) []models.Route {
	if gate, ok := g.gates[vehicleID]; ok {
		g.entered <- vehicleID
		<-gate
	}
	return g.RouteRepository.GetRoutesForVehicle(context.Background(), vehicleID)
}

// blockingProfiles holds CreateUserProfile until its context is done.
type blockingProfiles struct {
	repository.ProfileRepository
	entered chan struct{}
}

func (b *blockingProfiles) CreateUserProfile(ctx context.Context, _ models.User) bool {
	close(b.entered)
	<-ctx.Done()
	return false
}
