package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/qr"
)

const maxQRSize = 2048

// VehicleQR serves the payment QR code for a vehicle as PNG. The optional
// size query parameter overrides the configured edge length.
func (a *API) VehicleQR(c *gin.Context) {
	size := a.deps.QR.Size
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			abortWithError(c, apperror.NewValidationError("size", "size must be between 1 and 2048"))
			return
		}
		size = n
	}

	s := middleware.CurrentSession(c)
	vehicleID := c.Param("id")
	if _, ok := a.ownedVehicle(c, s, vehicleID); !ok {
		return
	}

	var buf bytes.Buffer
	if err := qr.WritePNG(&buf, qr.PaymentURL(a.deps.QR.BaseURL, vehicleID), size); err != nil {
		abortWithError(c, apperror.NewInternal(err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
