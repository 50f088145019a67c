package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"naulify_agent/internal/apperror"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/reports"
	"naulify_agent/internal/utils"
	"naulify_agent/internal/viewmodel"
)

type reportRow struct {
	viewmodel.FareView
	Date string `json:"date"`
}

// VehicleReport summarizes a vehicle's fare collections for a period.
func (a *API) VehicleReport(c *gin.Context) {
	period, err := reports.ParsePeriod(c.Query("period"))
	if err != nil {
		abortWithError(c, apperror.NewValidationError("period", err.Error()))
		return
	}
	s := middleware.CurrentSession(c)
	vehicleID := c.Param("id")
	if _, ok := a.ownedVehicle(c, s, vehicleID); !ok {
		return
	}

	start, end := period.Range(a.deps.Now(), a.deps.ReportLocation)
	st, err := s.Route.LoadFareCollectionsByDateRange(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		abortWithError(c, loadError(err))
		return
	}
	loaded, ok := st.(viewmodel.FareCollectionsLoaded)
	if !ok {
		a.respondRoute(c, s, st, http.StatusOK)
		return
	}

	rows := make([]reportRow, 0, len(loaded.Collections))
	for _, fv := range viewmodel.NewFareViews(loaded.Collections) {
		rows = append(rows, reportRow{FareView: fv, Date: utils.FormatDate(fv.Timestamp, a.deps.ReportLocation)})
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":      reports.Summarize(period, start, end, loaded.Collections),
		"transactions": rows,
	})
}
