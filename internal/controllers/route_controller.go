package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/session"
	"naulify_agent/internal/utils"
	"naulify_agent/internal/viewmodel"
)

type routeInput struct {
	Description string  `json:"description" binding:"required"`
	Fare        float64 `json:"fare"`
	VehicleID   string  `json:"vehicle_id"`
	Path        string  `json:"path"` // GeoJSON LineString
}

// validate returns the path as WKB, or nil when none was given.
func (in *routeInput) validate() ([]byte, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, apperror.NewValidationError("description", "description is required")
	}
	if !utils.ValidateFare(in.Fare) {
		return nil, apperror.NewValidationError("fare", "fare must be a non-negative amount")
	}
	path, err := utils.ParseRoutePath(in.Path)
	if err != nil {
		logrus.WithError(err).Warn("route: invalid path payload")
		return nil, apperror.NewValidationError("path", "Invalid geometry: "+err.Error())
	}
	return path, nil
}

func (a *API) RouteState(c *gin.Context) {
	s := middleware.CurrentSession(c)
	a.respondRoute(c, s, s.Route.State(), http.StatusOK)
}

func (a *API) CreateRoute(c *gin.Context) {
	var input routeInput
	if !bindJSON(c, &input) {
		return
	}
	path, err := input.validate()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if input.VehicleID == "" {
		abortWithError(c, apperror.NewValidationError("vehicle_id", "vehicle_id is required"))
		return
	}

	s := middleware.CurrentSession(c)
	if _, ok := a.ownedVehicle(c, s, input.VehicleID); !ok {
		return
	}
	var opts []viewmodel.RouteOption
	if path != nil {
		opts = append(opts, viewmodel.WithPath(path))
	}
	st := s.Route.CreateRoute(c.Request.Context(), input.Description, input.Fare, input.VehicleID, opts...)
	a.respondRoute(c, s, st, http.StatusCreated)
}

// UpdateRoute edits description, fare and path. The owning vehicle is fixed.
func (a *API) UpdateRoute(c *gin.Context) {
	var input routeInput
	if !bindJSON(c, &input) {
		return
	}
	path, err := input.validate()
	if err != nil {
		abortWithError(c, err)
		return
	}

	s := middleware.CurrentSession(c)
	route, ok := a.ownedRoute(c, s, c.Param("id"))
	if !ok {
		return
	}
	route.Description = input.Description
	route.Fare = input.Fare
	if path != nil {
		route.Path = path
	}
	a.respondRoute(c, s, s.Route.UpdateRoute(c.Request.Context(), *route), http.StatusOK)
}

func (a *API) DeleteRoute(c *gin.Context) {
	s := middleware.CurrentSession(c)
	route, ok := a.ownedRoute(c, s, c.Param("id"))
	if !ok {
		return
	}
	a.respondRoute(c, s, s.Route.DeleteRoute(c.Request.Context(), route.ID, route.VehicleID), http.StatusOK)
}

func (a *API) ListVehicleRoutes(c *gin.Context) {
	s := middleware.CurrentSession(c)
	vehicleID := c.Param("id")
	if _, ok := a.ownedVehicle(c, s, vehicleID); !ok {
		return
	}
	st, err := s.Route.LoadRoutes(c.Request.Context(), vehicleID)
	a.respondLoad(c, s, st, err)
}

// ListFareCollections returns the newest collections, or those between the
// start and end query parameters (epoch milliseconds, inclusive).
func (a *API) ListFareCollections(c *gin.Context) {
	s := middleware.CurrentSession(c)
	vehicleID := c.Param("id")
	if _, ok := a.ownedVehicle(c, s, vehicleID); !ok {
		return
	}

	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" && endRaw == "" {
		st, err := s.Route.LoadFareCollections(c.Request.Context(), vehicleID)
		a.respondLoad(c, s, st, err)
		return
	}
	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil {
		abortWithError(c, apperror.NewValidationError("start", "start must be epoch milliseconds"))
		return
	}
	end, err := strconv.ParseInt(endRaw, 10, 64)
	if err != nil {
		abortWithError(c, apperror.NewValidationError("end", "end must be epoch milliseconds"))
		return
	}
	if start > end {
		abortWithError(c, apperror.NewValidationError("start", "start must not be after end"))
		return
	}
	st, err := s.Route.LoadFareCollectionsByDateRange(c.Request.Context(), vehicleID, start, end)
	a.respondLoad(c, s, st, err)
}

// respondLoad answers a projection load. Loads that did not publish are
// reported by why they stopped.
func (a *API) respondLoad(c *gin.Context, s *session.Session, st viewmodel.RouteState, err error) {
	if err != nil {
		abortWithError(c, loadError(err))
		return
	}
	a.respondRoute(c, s, st, http.StatusOK)
}

func loadError(err error) error {
	switch {
	case errors.Is(err, viewmodel.ErrSuperseded):
		return errLoadSuperseded
	case errors.Is(err, viewmodel.ErrClosed):
		return errSessionClosed
	default:
		return errRequestCancelled
	}
}

func (a *API) respondRoute(c *gin.Context, s *session.Session, st viewmodel.RouteState, success int) {
	status := success
	switch st.(type) {
	case viewmodel.RouteLoading:
		abortWithError(c, errSessionClosed)
		return
	case viewmodel.RouteError:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"state":  viewmodel.ViewRoute(st),
		"routes": viewmodel.NewRouteViews(s.Route.Routes()),
	})
}
