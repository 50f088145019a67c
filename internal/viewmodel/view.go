package viewmodel

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/models"
	"naulify_agent/internal/utils"
)

// StateView is the JSON shape of any view-model state.
type StateView struct {
	Kind        string          `json:"kind"`
	UserID      string          `json:"user_id,omitempty"`
	Message     string          `json:"message,omitempty"`
	User        *models.User    `json:"user,omitempty"`
	Vehicle     *models.Vehicle `json:"vehicle,omitempty"`
	Route       *RouteView      `json:"route,omitempty"`
	Routes      []RouteView     `json:"routes,omitempty"`
	Collections []FareView      `json:"collections,omitempty"`
}

// RouteView carries the path as GeoJSON and a display fare.
type RouteView struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Fare        float64 `json:"fare"`
	FareDisplay string  `json:"fare_display"`
	VehicleID   string  `json:"vehicle_id"`
	CreatedAt   int64   `json:"created_at"`
	Path        string  `json:"path,omitempty"`
}

type FareView struct {
	models.FareCollection
	AmountDisplay string `json:"amount_display"`
}

func NewRouteView(r models.Route) RouteView {
	view := RouteView{
		ID:          r.ID,
		Description: r.Description,
		Fare:        r.Fare,
		FareDisplay: utils.FormatCurrency(r.Fare),
		VehicleID:   r.VehicleID,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Path) > 0 {
		path, err := utils.RoutePathGeoJSON(r.Path)
		if err != nil {
			logrus.WithError(err).WithField("route_id", r.ID).Warn("view: unreadable route path")
		}
		view.Path = path
	}
	return view
}

func NewRouteViews(routes []models.Route) []RouteView {
	views := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		views = append(views, NewRouteView(r))
	}
	return views
}

func NewFareViews(collections []models.FareCollection) []FareView {
	views := make([]FareView, 0, len(collections))
	for _, c := range collections {
		views = append(views, FareView{FareCollection: c, AmountDisplay: utils.FormatCurrency(c.Amount)})
	}
	return views
}

func ViewAuth(s AuthState) StateView {
	switch s := s.(type) {
	case AuthInitial:
		return StateView{Kind: "initial"}
	case AuthLoading:
		return StateView{Kind: "loading"}
	case AuthUnauthenticated:
		return StateView{Kind: "unauthenticated"}
	case AuthVerificationEmailSent:
		return StateView{Kind: "verification_email_sent"}
	case AuthAuthenticated:
		return StateView{Kind: "authenticated", UserID: s.UserID}
	case AuthVerificationRequired:
		return StateView{Kind: "verification_required", UserID: s.UserID}
	case AuthError:
		return StateView{Kind: "error", Message: s.Message}
	}
	panic(fmt.Sprintf("viewmodel: unknown auth state %T", s))
}

func ViewProfile(s ProfileState) StateView {
	switch s := s.(type) {
	case ProfileInitial:
		return StateView{Kind: "initial"}
	case ProfileLoading:
		return StateView{Kind: "loading"}
	case ProfileNotFound:
		return StateView{Kind: "profile_not_found"}
	case ProfileCreated:
		return StateView{Kind: "profile_created", User: &s.User}
	case ProfileLoaded:
		return StateView{Kind: "profile_loaded", User: &s.User}
	case ProfileUpdated:
		return StateView{Kind: "profile_updated", User: &s.User}
	case VehicleCreated:
		return StateView{Kind: "vehicle_created", Vehicle: &s.Vehicle}
	case VehicleUpdated:
		return StateView{Kind: "vehicle_updated", Vehicle: &s.Vehicle}
	case ProfileError:
		return StateView{Kind: "error", Message: s.Message}
	}
	panic(fmt.Sprintf("viewmodel: unknown profile state %T", s))
}

func ViewRoute(s RouteState) StateView {
	switch s := s.(type) {
	case RouteInitial:
		return StateView{Kind: "initial"}
	case RouteLoading:
		return StateView{Kind: "loading"}
	case RouteDeleted:
		return StateView{Kind: "route_deleted"}
	case RouteCreated:
		view := NewRouteView(s.Route)
		return StateView{Kind: "route_created", Route: &view}
	case RouteUpdated:
		view := NewRouteView(s.Route)
		return StateView{Kind: "route_updated", Route: &view}
	case RoutesLoaded:
		return StateView{Kind: "routes_loaded", Routes: NewRouteViews(s.Routes)}
	case FareCollectionsLoaded:
		return StateView{Kind: "fare_collections_loaded", Collections: NewFareViews(s.Collections)}
	case RouteError:
		return StateView{Kind: "error", Message: s.Message}
	}
	panic(fmt.Sprintf("viewmodel: unknown route state %T", s))
}
