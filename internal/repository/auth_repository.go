package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/identity"
)

// AuthRepository is the session's view of the identity collaborator.
type AuthRepository interface {
	SignInWithEmail(ctx context.Context, email, password string) (*identity.Principal, error)
	SignUpWithEmail(ctx context.Context, email, password string) (*identity.Principal, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*identity.Principal, error)
	SendEmailVerification(ctx context.Context) error
	SignOut(ctx context.Context) error
	// GetCurrentUser returns the cached principal without I/O, or nil.
	GetCurrentUser() *identity.Principal
	// IsEmailVerified refreshes the current principal before answering.
	IsEmailVerified(ctx context.Context) (bool, error)
}

// IdentityProvider is the subset of *identity.Provider the auth adapter needs.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (*identity.Principal, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Principal, error)
	SignInWithIDToken(ctx context.Context, rawToken string) (*identity.Principal, error)
	SendEmailVerification(ctx context.Context, principalID string) error
	Lookup(ctx context.Context, principalID string) (*identity.Principal, error)
	SignOut(ctx context.Context, principalID string) error
	Resume(ctx context.Context, principalID string, generation int64) (*identity.Principal, error)
}

// IdentityAuthRepository caches the signed-in principal for one session.
type IdentityAuthRepository struct {
	provider IdentityProvider

	mu      sync.RWMutex
	current *identity.Principal
}

func NewIdentityAuthRepository(provider IdentityProvider) *IdentityAuthRepository {
	return &IdentityAuthRepository{provider: provider}
}

// Resume restores a previously signed-in principal, e.g. from a session token.
// It fails once the principal has signed out after generation was issued.
func (r *IdentityAuthRepository) Resume(ctx context.Context, principalID string, generation int64) error {
	p, err := r.provider.Resume(ctx, principalID, generation)
	if err != nil {
		return toRepositoryError(err)
	}
	r.setCurrent(p)
	return nil
}

func (r *IdentityAuthRepository) SignInWithEmail(ctx context.Context, email, password string) (*identity.Principal, error) {
	p, err := r.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, toRepositoryError(err)
	}
	r.setCurrent(p)
	return p, nil
}

func (r *IdentityAuthRepository) SignUpWithEmail(ctx context.Context, email, password string) (*identity.Principal, error) {
	p, err := r.provider.CreateUser(ctx, email, password)
	if err != nil {
		return nil, toRepositoryError(err)
	}
	r.setCurrent(p)
	return p, nil
}

func (r *IdentityAuthRepository) SignInWithGoogle(ctx context.Context, idToken string) (*identity.Principal, error) {
	p, err := r.provider.SignInWithIDToken(ctx, idToken)
	if err != nil {
		return nil, toRepositoryError(err)
	}
	r.setCurrent(p)
	return p, nil
}

// SendEmailVerification is a no-op when nobody is signed in.
func (r *IdentityAuthRepository) SendEmailVerification(ctx context.Context) error {
	current := r.GetCurrentUser()
	if current == nil {
		return nil
	}
	if err := r.provider.SendEmailVerification(ctx, current.ID); err != nil {
		return toRepositoryError(err)
	}
	return nil
}

// SignOut clears the cached principal and revokes its remembered sessions.
// The local sign-out stands even when revocation fails.
func (r *IdentityAuthRepository) SignOut(ctx context.Context) error {
	current := r.GetCurrentUser()
	r.setCurrent(nil)
	if current == nil {
		return nil
	}
	if err := r.provider.SignOut(ctx, current.ID); err != nil {
		return toRepositoryError(err)
	}
	return nil
}

func (r *IdentityAuthRepository) GetCurrentUser() *identity.Principal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil
	}
	p := *r.current
	return &p
}

func (r *IdentityAuthRepository) IsEmailVerified(ctx context.Context) (bool, error) {
	current := r.GetCurrentUser()
	if current == nil {
		return false, nil
	}
	p, err := r.provider.Lookup(ctx, current.ID)
	if err != nil {
		return current.EmailVerified, toRepositoryError(err)
	}
	r.mu.Lock()
	if r.current != nil && r.current.ID == p.ID {
		r.current = p
	}
	r.mu.Unlock()
	return p.EmailVerified, nil
}

func (r *IdentityAuthRepository) setCurrent(p *identity.Principal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = p
}

// toRepositoryError keeps identity rejections readable and hides backend detail.
func toRepositoryError(err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrEmailInUse),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrFederatedDisabled),
		errors.Is(err, identity.ErrAccountNotFound),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrSignedOut):
		return apperror.NewRepositoryError(err.Error(), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.NewRepositoryError("request cancelled", err)
	default:
		logrus.WithError(err).Error("auth repository: identity backend failure")
		return apperror.NewRepositoryError("identity service unavailable", err)
	}
}
