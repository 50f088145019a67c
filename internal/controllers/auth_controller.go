package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/identity"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/session"
	"naulify_agent/internal/utils"
	"naulify_agent/internal/viewmodel"
)

type credentialsInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (in credentialsInput) validate() error {
	if !utils.ValidateEmail(in.Email) {
		return apperror.NewValidationError("email", "invalid email address")
	}
	return nil
}

type googleInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (a *API) AuthState(c *gin.Context) {
	s := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"state":          viewmodel.ViewAuth(s.Auth.State()),
		"email_verified": s.Auth.EmailVerified(),
	})
}

func (a *API) SignIn(c *gin.Context) {
	var input credentialsInput
	if !bindJSON(c, &input) {
		return
	}
	if err := input.validate(); err != nil {
		abortWithError(c, err)
		return
	}
	s := middleware.CurrentSession(c)
	a.respondAuth(c, s, s.Auth.SignInWithEmail(c.Request.Context(), input.Email, input.Password), http.StatusUnauthorized)
}

func (a *API) SignUp(c *gin.Context) {
	var input credentialsInput
	if !bindJSON(c, &input) {
		return
	}
	if err := input.validate(); err != nil {
		abortWithError(c, err)
		return
	}
	s := middleware.CurrentSession(c)
	a.respondAuth(c, s, s.Auth.SignUpWithEmail(c.Request.Context(), input.Email, input.Password), http.StatusBadRequest)
}

func (a *API) SignInWithGoogle(c *gin.Context) {
	var input googleInput
	if !bindJSON(c, &input) {
		return
	}
	s := middleware.CurrentSession(c)
	a.respondAuth(c, s, s.Auth.SignInWithGoogle(c.Request.Context(), input.IDToken), http.StatusUnauthorized)
}

func (a *API) SendVerification(c *gin.Context) {
	s := middleware.CurrentSession(c)
	a.respondAuth(c, s, s.Auth.SendVerificationEmail(c.Request.Context()), http.StatusBadGateway)
}

func (a *API) CheckVerification(c *gin.Context) {
	s := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"email_verified": s.Auth.CheckEmailVerification(c.Request.Context())})
}

func (a *API) SignOut(c *gin.Context) {
	s := middleware.CurrentSession(c)
	a.respondAuth(c, s, s.Auth.SignOut(c.Request.Context()), http.StatusInternalServerError)
}

// VerifyEmail is the target of the emailed link, so it needs no session.
func (a *API) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, apperror.NewValidationError("token", "missing verification token"))
		return
	}
	p, err := a.deps.Confirmer.ConfirmEmail(c.Request.Context(), token)
	switch {
	case errors.Is(err, identity.ErrInvalidToken), errors.Is(err, identity.ErrAccountNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification link is invalid or expired"})
	case err != nil:
		abortWithError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "email_verified": p.EmailVerified})
	}
}

// respondAuth answers with the reached state and a token for the session's
// current principal, so clients can reopen the session after a restart.
func (a *API) respondAuth(c *gin.Context, s *session.Session, st viewmodel.AuthState, failure int) {
	status := http.StatusOK
	switch st.(type) {
	case viewmodel.AuthError:
		status = failure
	case viewmodel.AuthLoading:
		abortWithError(c, errSessionClosed)
		return
	}
	body, ok := a.withToken(c, s, gin.H{
		"state":          viewmodel.ViewAuth(st),
		"email_verified": s.Auth.EmailVerified(),
	})
	if !ok {
		return
	}
	c.JSON(status, body)
}
