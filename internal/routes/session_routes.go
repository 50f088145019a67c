package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
)

func SessionRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc) {
	r.POST("/sessions", api.OpenSession)
	r.DELETE("/sessions", withSession, api.CloseSession)
}
