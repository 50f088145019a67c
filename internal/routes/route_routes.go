package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
	"naulify_agent/internal/middleware"
)

func RouteRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc) {
	route := r.Group("/routes")
	route.Use(withSession, middleware.RequireSignedIn())
	{
		route.GET("/state", api.RouteState)
		route.POST("", api.CreateRoute)
		route.PUT("/:id", api.UpdateRoute)
		route.DELETE("/:id", api.DeleteRoute)
	}
}
