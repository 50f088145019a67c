package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/config"
	"naulify_agent/internal/identity"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/models"
	"naulify_agent/internal/repository"
	"naulify_agent/internal/session"
)

// EmailConfirmer completes the link sent by SendEmailVerification.
type EmailConfirmer interface {
	ConfirmEmail(ctx context.Context, token string) (*identity.Principal, error)
}

type Deps struct {
	Tokens         *middleware.TokenManager
	Sessions       *session.Manager
	Confirmer      EmailConfirmer
	Profiles       repository.ProfileRepository
	Routes         repository.RouteRepository
	QR             config.QRConfig
	ReportLocation *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// API holds the HTTP handlers. Every session-bound handler drives the
// session's view-models and answers with the state they reached.
type API struct {
	deps Deps
}

func NewAPI(deps Deps) *API {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.ReportLocation == nil {
		deps.ReportLocation = time.Local
	}
	return &API{deps: deps}
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Code == apperror.CodeInternal {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	body := gin.H{"error": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, body)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// ownedVehicle loads a vehicle of the signed-in user. Vehicles of other
// owners are reported as missing.
func (a *API) ownedVehicle(c *gin.Context, s *session.Session, vehicleID string) (*models.Vehicle, bool) {
	v := a.deps.Profiles.GetVehicle(c.Request.Context(), vehicleID)
	if v == nil || v.OwnerID != s.UserID() {
		abortWithError(c, apperror.NewNotFound("vehicle"))
		return nil, false
	}
	return v, true
}

// ownedRoute loads a route whose vehicle belongs to the signed-in user.
func (a *API) ownedRoute(c *gin.Context, s *session.Session, routeID string) (*models.Route, bool) {
	r := a.deps.Routes.GetRoute(c.Request.Context(), routeID)
	if r == nil {
		abortWithError(c, apperror.NewNotFound("route"))
		return nil, false
	}
	if _, ok := a.ownedVehicle(c, s, r.VehicleID); !ok {
		return nil, false
	}
	return r, true
}

var errSessionClosed = &apperror.Error{
	Code:       apperror.CodeConflict,
	Message:    "session closed while the command was running",
	HTTPStatus: http.StatusServiceUnavailable,
}

var errLoadSuperseded = &apperror.Error{
	Code:       apperror.CodeConflict,
	Message:    "a newer load replaced this one",
	HTTPStatus: http.StatusConflict,
}

var errRequestCancelled = &apperror.Error{
	Code:       apperror.CodeConflict,
	Message:    "request cancelled",
	HTTPStatus: http.StatusRequestTimeout,
}
