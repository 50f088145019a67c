package repository_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/identity"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/store"
)

func newAuthRepo(t *testing.T) (*repository.IdentityAuthRepository, *identity.Provider) {
	t.Helper()
	accounts := store.Open[identity.Account](store.NewMemory(), store.CollectionAccounts)
	p, err := identity.NewProvider(accounts, nopMailer{}, identity.Config{
		BcryptCost:         bcrypt.MinCost,
		VerificationSecret: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	return repository.NewIdentityAuthRepository(p), p
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }

func TestAuthRepository_SignUpCachesPrincipal(t *testing.T) {
	ctx := context.Background()
	repo, _ := newAuthRepo(t)

	if repo.GetCurrentUser() != nil {
		t.Fatal("expected no current user")
	}
	p, err := repo.SignUpWithEmail(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if cur := repo.GetCurrentUser(); cur == nil || cur.ID != p.ID {
		t.Fatalf("current = %+v", cur)
	}
	if err := repo.SendEmailVerification(ctx); err != nil {
		t.Fatalf("send verification: %v", err)
	}

	if err := repo.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	if repo.GetCurrentUser() != nil {
		t.Fatal("expected signed out")
	}
}

func TestAuthRepository_SignOutRevokesRememberedSessions(t *testing.T) {
	ctx := context.Background()
	repo, provider := newAuthRepo(t)

	p, err := repo.SignUpWithEmail(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	other := repository.NewIdentityAuthRepository(provider)
	err = other.Resume(ctx, p.ID, p.Generation)
	if !apperror.IsRepository(err) || !errors.Is(err, identity.ErrSignedOut) {
		t.Fatalf("resume after sign out: got %v", err)
	}
	if other.GetCurrentUser() != nil {
		t.Fatal("revoked resume must not set a principal")
	}
}

func TestAuthRepository_InvalidCredentialsAreRepositoryErrors(t *testing.T) {
	repo, _ := newAuthRepo(t)

	_, err := repo.SignInWithEmail(context.Background(), "owner@naulify.com", "nope")
	if !apperror.IsRepository(err) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if err.Error() != identity.ErrInvalidCredentials.Error() {
		t.Fatalf("message = %q", err.Error())
	}
	if repo.GetCurrentUser() != nil {
		t.Fatal("failed sign in must not set a principal")
	}
}

func TestAuthRepository_IsEmailVerifiedRefreshes(t *testing.T) {
	ctx := context.Background()
	repo, provider := newAuthRepo(t)

	if ok, err := repo.IsEmailVerified(ctx); ok || err != nil {
		t.Fatalf("signed out: got %v %v", ok, err)
	}

	p, err := repo.SignUpWithEmail(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := repo.IsEmailVerified(ctx); ok {
		t.Fatal("new account should be unverified")
	}

	other := repository.NewIdentityAuthRepository(provider)
	if err := other.Resume(ctx, p.ID, p.Generation); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if cur := other.GetCurrentUser(); cur == nil || cur.Email != "owner@naulify.com" {
		t.Fatalf("resumed principal = %+v", cur)
	}
}
