package viewmodel

import (
	"context"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/observable"
	"naulify_agent/internal/repository"
)

const (
	msgAuthFailed         = "Authentication failed"
	msgSignUpFailed       = "Sign up failed"
	msgGoogleSignInFailed = "Google sign in failed"
	msgVerificationFailed = "Failed to send verification email"
)

// AuthViewModel drives sign-in, sign-up and email verification for one session.
type AuthViewModel struct {
	auth  repository.AuthRepository
	scope *scope

	state         *observable.Value[AuthState]
	emailVerified *observable.Value[bool]
}

// NewAuthViewModel checks for a cached principal before returning, so the
// state has already left AuthInitial unless ctx was cancelled.
func NewAuthViewModel(ctx context.Context, auth repository.AuthRepository) *AuthViewModel {
	vm := &AuthViewModel{
		auth:          auth,
		scope:         newScope(context.WithoutCancel(ctx)),
		state:         observable.NewValue[AuthState](AuthInitial{}),
		emailVerified: observable.NewValue(false),
	}
	vm.checkAuthState(ctx)
	return vm
}

func (vm *AuthViewModel) checkAuthState(ctx context.Context) {
	vm.scope.run(ctx, func(ctx context.Context) {
		current := vm.auth.GetCurrentUser()
		if current == nil {
			vm.state.Set(AuthUnauthenticated{})
			return
		}
		vm.refreshEmailVerified(ctx)
		vm.state.Set(AuthAuthenticated{UserID: current.ID})
	})
}

func (vm *AuthViewModel) State() AuthState { return vm.state.Get() }

func (vm *AuthViewModel) WatchState(ctx context.Context) <-chan AuthState {
	return vm.state.Subscribe(ctx)
}

func (vm *AuthViewModel) EmailVerified() bool { return vm.emailVerified.Get() }

func (vm *AuthViewModel) WatchEmailVerified(ctx context.Context) <-chan bool {
	return vm.emailVerified.Subscribe(ctx)
}

func (vm *AuthViewModel) SignInWithEmail(ctx context.Context, email, password string) AuthState {
	return execute(vm.scope, ctx, vm.state, AuthState(AuthLoading{}), func(ctx context.Context) (AuthState, bool) {
		p, err := vm.auth.SignInWithEmail(ctx, email, password)
		if err != nil {
			return AuthError{Message: apperror.MessageOr(err, msgAuthFailed)}, true
		}
		if p == nil {
			return AuthError{Message: msgAuthFailed}, true
		}
		vm.emailVerified.Set(p.EmailVerified)
		return AuthAuthenticated{UserID: p.ID}, true
	})
}

// SignUpWithEmail registers the account and mails the first verification link.
func (vm *AuthViewModel) SignUpWithEmail(ctx context.Context, email, password string) AuthState {
	return execute(vm.scope, ctx, vm.state, AuthState(AuthLoading{}), func(ctx context.Context) (AuthState, bool) {
		p, err := vm.auth.SignUpWithEmail(ctx, email, password)
		if err != nil {
			return AuthError{Message: apperror.MessageOr(err, msgSignUpFailed)}, true
		}
		if p == nil {
			return AuthError{Message: msgSignUpFailed}, true
		}
		if err := vm.auth.SendEmailVerification(ctx); err != nil {
			return AuthError{Message: apperror.MessageOr(err, msgSignUpFailed)}, true
		}
		vm.emailVerified.Set(p.EmailVerified)
		return AuthVerificationRequired{UserID: p.ID}, true
	})
}

func (vm *AuthViewModel) SignInWithGoogle(ctx context.Context, idToken string) AuthState {
	return execute(vm.scope, ctx, vm.state, AuthState(AuthLoading{}), func(ctx context.Context) (AuthState, bool) {
		p, err := vm.auth.SignInWithGoogle(ctx, idToken)
		if err != nil {
			return AuthError{Message: apperror.MessageOr(err, msgGoogleSignInFailed)}, true
		}
		if p == nil {
			return AuthError{Message: msgGoogleSignInFailed}, true
		}
		vm.emailVerified.Set(p.EmailVerified)
		return AuthAuthenticated{UserID: p.ID}, true
	})
}

func (vm *AuthViewModel) SendVerificationEmail(ctx context.Context) AuthState {
	return execute(vm.scope, ctx, vm.state, AuthState(AuthLoading{}), func(ctx context.Context) (AuthState, bool) {
		if err := vm.auth.SendEmailVerification(ctx); err != nil {
			return AuthError{Message: apperror.MessageOr(err, msgVerificationFailed)}, true
		}
		return AuthVerificationEmailSent{}, true
	})
}

// CheckEmailVerification refreshes the verified flag only. The auth state is untouched.
func (vm *AuthViewModel) CheckEmailVerification(ctx context.Context) bool {
	vm.scope.run(ctx, vm.refreshEmailVerified)
	return vm.emailVerified.Get()
}

func (vm *AuthViewModel) refreshEmailVerified(ctx context.Context) {
	verified, err := vm.auth.IsEmailVerified(ctx)
	if err != nil {
		logrus.WithError(err).Warn("auth: email verification refresh failed")
		return
	}
	vm.emailVerified.Set(verified)
}

// SignOut always ends in AuthUnauthenticated, even if the backend call fails.
func (vm *AuthViewModel) SignOut(ctx context.Context) AuthState {
	return execute(vm.scope, ctx, vm.state, AuthState(AuthLoading{}), func(ctx context.Context) (AuthState, bool) {
		if err := vm.auth.SignOut(ctx); err != nil {
			logrus.WithError(err).Warn("auth: sign out failed")
		}
		vm.emailVerified.Set(false)
		return AuthUnauthenticated{}, true
	})
}

// Close cancels in-flight commands and waits for them to return.
func (vm *AuthViewModel) Close() { vm.scope.close() }
