package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/models"
	"naulify_agent/internal/utils"
)

type vehicleInput struct {
	Registration   string `json:"registration" binding:"required"`
	Type           string `json:"type"`
	MpesaShortCode string `json:"mpesa_short_code" binding:"required"`
}

func (in *vehicleInput) validate() (models.VehicleType, error) {
	in.Registration = strings.ToUpper(strings.TrimSpace(in.Registration))
	if !utils.ValidateVehicleRegistration(in.Registration) {
		return "", apperror.NewValidationError("registration", "registration must look like KBA 123A")
	}
	if !utils.ValidateMpesaShortCode(in.MpesaShortCode) {
		return "", apperror.NewValidationError("mpesa_short_code", "M-Pesa short code must be 5 or 6 digits")
	}
	vehicleType, ok := models.ParseVehicleType(in.Type)
	if !ok {
		return "", apperror.NewValidationError("type", "type must be VAN, BUS or MINI_BUS")
	}
	return vehicleType, nil
}

// CreateVehicle registers a vehicle owned by the signed-in user.
func (a *API) CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}
	vehicleType, err := input.validate()
	if err != nil {
		abortWithError(c, err)
		return
	}

	s := middleware.CurrentSession(c)
	st := s.Profile.CreateVehicle(c.Request.Context(), s.UserID(), input.Registration, vehicleType, input.MpesaShortCode)
	a.respondProfile(c, s, st, http.StatusCreated)
}

func (a *API) GetMyVehicles(c *gin.Context) {
	s := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"vehicles": s.Profile.LoadVehicles(c.Request.Context(), s.UserID())})
}

func (a *API) UpdateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}
	vehicleType, err := input.validate()
	if err != nil {
		abortWithError(c, err)
		return
	}

	s := middleware.CurrentSession(c)
	vehicle, ok := a.ownedVehicle(c, s, c.Param("id"))
	if !ok {
		return
	}
	vehicle.Registration = input.Registration
	vehicle.Type = vehicleType
	vehicle.MpesaShortCode = input.MpesaShortCode

	a.respondProfile(c, s, s.Profile.UpdateVehicle(c.Request.Context(), *vehicle), http.StatusOK)
}
