package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
	"naulify_agent/internal/middleware"
)

func ProfileRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc) {
	profile := r.Group("/profile")
	profile.Use(withSession, middleware.RequireSignedIn())
	{
		profile.GET("/state", api.ProfileState)
		profile.POST("", api.CreateProfile)
		profile.PUT("", api.UpdateProfile)
		profile.GET("/:userId", api.GetProfile)
	}
}
