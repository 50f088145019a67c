package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/session"
	"naulify_agent/internal/utils"
	"naulify_agent/internal/viewmodel"
)

type profileInput struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

func (in *profileInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperror.NewValidationError("name", "name is required")
	}
	if !utils.ValidatePhoneNumber(in.PhoneNumber) {
		return apperror.NewValidationError("phone_number", "phone number must be 10 digits")
	}
	if !utils.ValidateEmail(in.Email) {
		return apperror.NewValidationError("email", "invalid email address")
	}
	return nil
}

func (a *API) ProfileState(c *gin.Context) {
	s := middleware.CurrentSession(c)
	a.respondProfile(c, s, s.Profile.State(), http.StatusOK)
}

// CreateProfile stores the profile of the signed-in user.
func (a *API) CreateProfile(c *gin.Context) {
	var input profileInput
	if !bindJSON(c, &input) {
		return
	}
	if err := input.validate(); err != nil {
		abortWithError(c, err)
		return
	}
	s := middleware.CurrentSession(c)
	st := s.Profile.CreateProfile(c.Request.Context(), s.UserID(), input.Name, input.PhoneNumber, input.Email)
	a.respondProfile(c, s, st, http.StatusCreated)
}

// UpdateProfile edits name, phone and email, keeping everything else as stored.
func (a *API) UpdateProfile(c *gin.Context) {
	var input profileInput
	if !bindJSON(c, &input) {
		return
	}
	if err := input.validate(); err != nil {
		abortWithError(c, err)
		return
	}
	s := middleware.CurrentSession(c)
	user := a.deps.Profiles.GetUserProfile(c.Request.Context(), s.UserID())
	if user == nil {
		abortWithError(c, apperror.NewNotFound("profile"))
		return
	}
	user.Name = input.Name
	user.PhoneNumber = input.PhoneNumber
	user.Email = input.Email

	a.respondProfile(c, s, s.Profile.UpdateProfile(c.Request.Context(), *user), http.StatusOK)
}

// GetProfile loads a profile and its vehicles. Only the signed-in user's own
// profile is readable.
func (a *API) GetProfile(c *gin.Context) {
	s := middleware.CurrentSession(c)
	userID := c.Param("userId")
	if userID != s.UserID() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}
	a.respondProfile(c, s, s.Profile.LoadProfile(c.Request.Context(), userID), http.StatusOK)
}

func (a *API) respondProfile(c *gin.Context, s *session.Session, st viewmodel.ProfileState, success int) {
	status := success
	switch st.(type) {
	case viewmodel.ProfileLoading:
		abortWithError(c, errSessionClosed)
		return
	case viewmodel.ProfileNotFound:
		status = http.StatusNotFound
	case viewmodel.ProfileError:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"state":    viewmodel.ViewProfile(st),
		"vehicles": s.Profile.Vehicles(),
	})
}
