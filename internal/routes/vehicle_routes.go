package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
	"naulify_agent/internal/middleware"
)

func VehicleRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc) {
	vehicle := r.Group("/vehicles")
	vehicle.Use(withSession, middleware.RequireSignedIn())
	{
		vehicle.GET("", api.GetMyVehicles)
		vehicle.POST("", api.CreateVehicle)
		vehicle.PUT("/:id", api.UpdateVehicle)
		vehicle.GET("/:id/routes", api.ListVehicleRoutes)
		vehicle.GET("/:id/fares", api.ListFareCollections)
		vehicle.GET("/:id/reports", api.VehicleReport)
		vehicle.GET("/:id/qr.png", api.VehicleQR)
	}
}
