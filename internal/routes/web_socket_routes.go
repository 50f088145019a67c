package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc, origins []string) {
	wsRoutes := r.Group("/ws")
	wsRoutes.Use(withSession)
	{
		wsRoutes.GET("/state", api.StreamState(controllers.NewUpgrader(origins)))
	}
}
