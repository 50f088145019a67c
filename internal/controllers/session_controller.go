package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/middleware"
	"naulify_agent/internal/session"
	"naulify_agent/internal/viewmodel"
)

// OpenSession starts a session. A still-valid token from an earlier session
// reopens it for the same user, unless that user has signed out since.
func (a *API) OpenSession(c *gin.Context) {
	var resume session.Resume
	if raw := middleware.BearerToken(c); raw != "" {
		if claims, err := a.deps.Tokens.ValidateToken(raw); err == nil {
			if old, ok := a.deps.Sessions.Get(claims.SessionID); ok {
				a.deps.Sessions.Close(old.ID)
			}
			resume = session.Resume{UserID: claims.UserID, Generation: claims.Generation}
		}
	}

	s := a.deps.Sessions.Open(c.Request.Context(), resume)
	body, ok := a.withToken(c, s, gin.H{"auth": viewmodel.ViewAuth(s.Auth.State())})
	if !ok {
		return
	}
	body["session_id"] = s.ID
	c.JSON(http.StatusCreated, body)
}

func (a *API) CloseSession(c *gin.Context) {
	s := middleware.CurrentSession(c)
	a.deps.Sessions.Close(s.ID)
	c.Status(http.StatusNoContent)
}

// withToken adds a token for the session's current principal to body.
func (a *API) withToken(c *gin.Context, s *session.Session, body gin.H) (gin.H, bool) {
	var (
		userID     string
		generation int64
	)
	if p := s.Principal(); p != nil {
		userID, generation = p.ID, p.Generation
	}
	token, expiresAt, err := a.deps.Tokens.GenerateToken(s.ID, userID, generation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return nil, false
	}
	body["token"] = token
	body["expires_at"] = expiresAt
	return body, true
}
