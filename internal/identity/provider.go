package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"naulify_agent/internal/models"
	"naulify_agent/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid identity token")
	ErrFederatedDisabled  = errors.New("federated sign-in is not configured")
	ErrAccountNotFound    = errors.New("account not found")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrSignedOut          = errors.New("signed out since this session was issued")
)

const minPasswordLength = 6

// FederatedConfig describes how id tokens from the external provider are verified.
type FederatedConfig struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	Audience     string
}

type Config struct {
	BcryptCost         int
	VerificationSecret string
	VerificationTTL    time.Duration
	// VerifyLinkBase is the URL the verification token is appended to.
	VerifyLinkBase string
	Federated      FederatedConfig
}

// Provider is the identity collaborator: password and federated sign-in,
// email verification and principal lookup.
type Provider struct {
	accounts  store.Collection[Account]
	mailer    Mailer
	federated *federatedVerifier
	cfg       Config
}

func NewProvider(accounts store.Collection[Account], mailer Mailer, cfg Config) (*Provider, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 24 * time.Hour
	}
	if cfg.VerificationSecret == "" {
		return nil, errors.New("identity: verification secret is required")
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	fed, err := newFederatedVerifier(cfg.Federated)
	if err != nil {
		return nil, err
	}
	return &Provider{accounts: accounts, mailer: mailer, federated: fed, cfg: cfg}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) findByEmail(ctx context.Context, email string) (*Account, error) {
	found, err := p.accounts.Find(ctx, store.Where("email", store.OpEq, email).WithLimit(1))
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (p *Provider) findBySubject(ctx context.Context, subject string) (*Account, error) {
	found, err := p.accounts.Find(ctx, store.Where("federated_subject", store.OpEq, subject).WithLimit(1))
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// CreateUser registers a password account. The new account is unverified.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (*Principal, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	existing, err := p.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acct := Account{
		ID:           p.accounts.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    models.NowMillis(),
	}
	if err := p.accounts.Set(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	logrus.WithField("account_id", acct.ID).Info("identity: account created")
	return acct.principal(), nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*Principal, error) {
	acct, err := p.findByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if acct == nil || acct.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acct.principal(), nil
}

// SignInWithIDToken verifies a federated id token and returns the linked principal,
// creating or linking an account on first use.
func (p *Provider) SignInWithIDToken(ctx context.Context, rawToken string) (*Principal, error) {
	if !p.federated.enabled() {
		return nil, ErrFederatedDisabled
	}
	claims, err := p.federated.verify(rawToken)
	if err != nil {
		logrus.WithError(err).Warn("identity: rejected federated id token")
		return nil, ErrInvalidToken
	}
	email := normalizeEmail(claims.Email)
	if claims.Subject == "" || email == "" {
		return nil, ErrInvalidToken
	}

	acct, err := p.findBySubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		if acct, err = p.findByEmail(ctx, email); err != nil {
			return nil, err
		}
	}
	if acct == nil {
		acct = &Account{ID: p.accounts.NewID(), Email: email, CreatedAt: models.NowMillis()}
	}
	acct.FederatedSubject = claims.Subject
	acct.EmailVerified = acct.EmailVerified || claims.EmailVerified

	if err := p.accounts.Set(ctx, *acct); err != nil {
		return nil, fmt.Errorf("link account: %w", err)
	}
	return acct.principal(), nil
}

// SendEmailVerification mails a signed confirmation link to the account's address.
func (p *Provider) SendEmailVerification(ctx context.Context, principalID string) error {
	acct, err := p.account(ctx, principalID)
	if err != nil {
		return err
	}
	token, err := signVerification([]byte(p.cfg.VerificationSecret), p.cfg.VerificationTTL, acct)
	if err != nil {
		return fmt.Errorf("sign verification token: %w", err)
	}
	link := p.cfg.VerifyLinkBase + "?token=" + url.QueryEscape(token)
	body := "Confirm your Naulify account by opening " + link
	if err := p.mailer.Send(ctx, acct.Email, "Verify your email", body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// ConfirmEmail marks the account named by a verification token as verified.
func (p *Provider) ConfirmEmail(ctx context.Context, token string) (*Principal, error) {
	claims, err := parseVerification([]byte(p.cfg.VerificationSecret), token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	acct, err := p.account(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if acct.Email != claims.Email {
		return nil, ErrInvalidToken
	}
	if !acct.EmailVerified {
		acct.EmailVerified = true
		if err := p.accounts.Set(ctx, acct); err != nil {
			return nil, fmt.Errorf("confirm email: %w", err)
		}
	}
	return acct.principal(), nil
}

// SignOut ends every remembered session of the principal by advancing the
// account generation.
func (p *Provider) SignOut(ctx context.Context, principalID string) error {
	acct, err := p.account(ctx, principalID)
	if err != nil {
		return err
	}
	acct.Generation++
	if err := p.accounts.Set(ctx, acct); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	logrus.WithField("account_id", acct.ID).Info("identity: signed out")
	return nil
}

// Resume returns the principal for a remembered session of the given
// generation. Sessions from before the last sign-out yield ErrSignedOut.
func (p *Provider) Resume(ctx context.Context, principalID string, generation int64) (*Principal, error) {
	acct, err := p.account(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if acct.Generation != generation {
		return nil, ErrSignedOut
	}
	return acct.principal(), nil
}

// Lookup returns a fresh copy of the principal.
func (p *Provider) Lookup(ctx context.Context, principalID string) (*Principal, error) {
	acct, err := p.account(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return acct.principal(), nil
}

func (p *Provider) account(ctx context.Context, id string) (Account, error) {
	acct, err := p.accounts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("load account: %w", err)
	}
	return acct, nil
}
