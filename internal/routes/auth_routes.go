package routes

import (
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
)

func AuthRoutes(r *gin.Engine, api *controllers.API, withSession gin.HandlerFunc) {
	r.GET("/auth/verify", api.VerifyEmail)

	auth := r.Group("/auth")
	auth.Use(withSession)
	{
		auth.GET("/state", api.AuthState)
		auth.POST("/signin", api.SignIn)
		auth.POST("/signup", api.SignUp)
		auth.POST("/google", api.SignInWithGoogle)
		auth.POST("/verification", api.SendVerification)
		auth.POST("/verification/check", api.CheckVerification)
		auth.POST("/signout", api.SignOut)
	}
}
