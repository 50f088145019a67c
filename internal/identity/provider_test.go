package identity_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"naulify_agent/internal/identity"
	"naulify_agent/internal/store"
)

const federatedSecret = "federated-test-secret"

type captureMailer struct {
	mu    sync.Mutex
	to    []string
	links []string
}

func (m *captureMailer) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	if i := strings.Index(body, "?token="); i >= 0 {
		m.links = append(m.links, body[i+len("?token="):])
	}
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		t.Fatal("no verification mail sent")
	}
	tok, err := url.QueryUnescape(m.links[len(m.links)-1])
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return tok
}

func newProvider(t *testing.T) (*identity.Provider, *captureMailer) {
	t.Helper()
	mailer := &captureMailer{}
	accounts := store.Open[identity.Account](store.NewMemory(), store.CollectionAccounts)
	p, err := identity.NewProvider(accounts, mailer, identity.Config{
		BcryptCost:         bcrypt.MinCost,
		VerificationSecret: "verify-secret",
		VerifyLinkBase:     "http://localhost:8080/auth/verify",
		Federated: identity.FederatedConfig{
			Secret:   federatedSecret,
			Issuer:   "https://accounts.google.com",
			Audience: "naulify-agent",
		},
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p, mailer
}

func idToken(t *testing.T, sub, email string, verified bool, aud string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":            sub,
		"email":          email,
		"email_verified": verified,
		"iss":            "https://accounts.google.com",
		"aud":            aud,
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(federatedSecret))
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return s
}

func TestProvider_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)

	created, err := p.CreateUser(ctx, " Owner@Naulify.com ", "secret123")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "owner@naulify.com" || created.EmailVerified {
		t.Fatalf("unexpected principal %+v", created)
	}

	got, err := p.SignInWithPassword(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("signed in as %s, want %s", got.ID, created.ID)
	}
}

func TestProvider_RejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	if _, err := p.CreateUser(ctx, "owner@naulify.com", "secret123"); err != nil {
		t.Fatal(err)
	}

	if _, err := p.SignInWithPassword(ctx, "owner@naulify.com", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := p.SignInWithPassword(ctx, "nobody@naulify.com", "secret123"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestProvider_DuplicateAndWeakPassword(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	if _, err := p.CreateUser(ctx, "owner@naulify.com", "secret123"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateUser(ctx, "OWNER@naulify.com", "another1"); !errors.Is(err, identity.ErrEmailInUse) {
		t.Fatalf("duplicate: got %v", err)
	}
	if _, err := p.CreateUser(ctx, "new@naulify.com", "123"); !errors.Is(err, identity.ErrWeakPassword) {
		t.Fatalf("weak: got %v", err)
	}
}

func TestProvider_EmailVerificationFlow(t *testing.T) {
	ctx := context.Background()
	p, mailer := newProvider(t)
	created, err := p.CreateUser(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}

	if err := p.SendEmailVerification(ctx, created.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if mailer.to[0] != "owner@naulify.com" {
		t.Fatalf("mailed %v", mailer.to)
	}

	confirmed, err := p.ConfirmEmail(ctx, mailer.lastToken(t))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !confirmed.EmailVerified {
		t.Fatal("expected verified principal")
	}

	refreshed, err := p.Lookup(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !refreshed.EmailVerified {
		t.Fatal("lookup should see verified flag")
	}

	if _, err := p.ConfirmEmail(ctx, "garbage"); !errors.Is(err, identity.ErrInvalidToken) {
		t.Fatalf("garbage token: got %v", err)
	}
}

func TestProvider_FederatedSignInLinksByEmail(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	created, err := p.CreateUser(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}

	got, err := p.SignInWithIDToken(ctx, idToken(t, "google-sub-1", "owner@naulify.com", true, "naulify-agent"))
	if err != nil {
		t.Fatalf("federated sign in: %v", err)
	}
	if got.ID != created.ID || !got.EmailVerified {
		t.Fatalf("expected linked verified account, got %+v", got)
	}

	again, err := p.SignInWithIDToken(ctx, idToken(t, "google-sub-1", "owner@naulify.com", true, "naulify-agent"))
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != created.ID {
		t.Fatal("second sign in should resolve the same account")
	}
}

func TestProvider_FederatedRejectsWrongAudience(t *testing.T) {
	p, _ := newProvider(t)
	_, err := p.SignInWithIDToken(context.Background(), idToken(t, "sub", "x@naulify.com", true, "someone-else"))
	if !errors.Is(err, identity.ErrInvalidToken) {
		t.Fatalf("got %v", err)
	}
}

func TestProvider_LookupUnknown(t *testing.T) {
	p, _ := newProvider(t)
	if _, err := p.Lookup(context.Background(), "missing"); !errors.Is(err, identity.ErrAccountNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestProvider_SignOutAdvancesGeneration(t *testing.T) {
	ctx := context.Background()
	p, _ := newProvider(t)
	created, err := p.CreateUser(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Resume(ctx, created.ID, created.Generation); err != nil {
		t.Fatalf("resume before sign out: %v", err)
	}
	if err := p.SignOut(ctx, created.ID); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := p.Resume(ctx, created.ID, created.Generation); !errors.Is(err, identity.ErrSignedOut) {
		t.Fatalf("resume after sign out: got %v", err)
	}

	again, err := p.SignInWithPassword(ctx, "owner@naulify.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if again.Generation == created.Generation {
		t.Fatal("generation did not advance")
	}
	if _, err := p.Resume(ctx, again.ID, again.Generation); err != nil {
		t.Fatalf("resume after new sign in: %v", err)
	}
	if err := p.SignOut(ctx, "missing"); !errors.Is(err, identity.ErrAccountNotFound) {
		t.Fatalf("sign out unknown: got %v", err)
	}
}
