package controllers

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"naulify_agent/internal/middleware"
	"naulify_agent/internal/models"
	"naulify_agent/internal/viewmodel"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// stateMessage is one change of a session's state or projection.
type stateMessage struct {
	Source string `json:"source"`
	State  any    `json:"state"`
}

// NewUpgrader accepts the configured origins; "*" accepts any.
func NewUpgrader(origins []string) *websocket.Upgrader {
	anyOrigin := slices.Contains(origins, "*")
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || anyOrigin || slices.Contains(origins, origin)
		},
	}
}

// forward relays values from in to out as messages tagged with source.
func forward[T any](ctx context.Context, out chan<- stateMessage, source string, in <-chan T, view func(T) any) {
	go func() {
		for v := range in {
			select {
			case out <- stateMessage{Source: source, State: view(v)}:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StreamState pushes every state and projection change of the caller's
// session until the client disconnects.
func (a *API) StreamState(upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.CurrentSession(c)
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
			return
		}
		defer conn.Close()

		fields := logrus.Fields{"session_id": s.ID, "conn_ptr": fmt.Sprintf("%p", conn)}
		logrus.WithFields(fields).Info("State stream connected.")

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		out := make(chan stateMessage, 16)
		forward(ctx, out, "auth", s.Auth.WatchState(ctx), func(st viewmodel.AuthState) any { return viewmodel.ViewAuth(st) })
		forward(ctx, out, "email_verified", s.Auth.WatchEmailVerified(ctx), func(v bool) any { return v })
		forward(ctx, out, "profile", s.Profile.WatchState(ctx), func(st viewmodel.ProfileState) any { return viewmodel.ViewProfile(st) })
		forward(ctx, out, "vehicles", s.Profile.WatchVehicles(ctx), func(v []models.Vehicle) any { return v })
		forward(ctx, out, "route", s.Route.WatchState(ctx), func(st viewmodel.RouteState) any { return viewmodel.ViewRoute(st) })
		forward(ctx, out, "routes", s.Route.WatchRoutes(ctx), func(r []models.Route) any { return viewmodel.NewRouteViews(r) })
		forward(ctx, out, "fare_collections", s.Route.WatchFareCollections(ctx), func(f []models.FareCollection) any { return viewmodel.NewFareViews(f) })

		// The client only sends control frames; reading surfaces the close.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
						logrus.WithError(err).WithFields(fields).Debug("State stream read ended.")
					}
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logrus.WithFields(fields).Info("State stream closed.")
				return
			case msg := <-out:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					logrus.WithError(err).WithFields(fields).Warn("Failed to send state message.")
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}
}
