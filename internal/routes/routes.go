package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"naulify_agent/internal/controllers"
	"naulify_agent/internal/middleware"
	"naulify_agent/internal/session"
)

type Options struct {
	Tokens      *middleware.TokenManager
	Sessions    *session.Manager
	CORSOrigins []string
	// AccessLog receives one line per request. Nil disables request logging.
	AccessLog io.Writer
}

func SetupRouter(api *controllers.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(opts.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/healthz"}),
		))
	}
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	withSession := middleware.RequireSession(opts.Tokens, opts.Sessions)
	SessionRoutes(r, api, withSession)
	AuthRoutes(r, api, withSession)
	ProfileRoutes(r, api, withSession)
	VehicleRoutes(r, api, withSession)
	RouteRoutes(r, api, withSession)
	WebSocketRoutes(r, api, withSession, opts.CORSOrigins)

	return r
}
