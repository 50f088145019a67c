package viewmodel

import "naulify_agent/internal/models"

// AuthState is a closed set: only the types in this file implement it.
type AuthState interface{ isAuthState() }

type (
	AuthInitial               struct{}
	AuthLoading               struct{}
	AuthUnauthenticated       struct{}
	AuthVerificationEmailSent struct{}
	AuthAuthenticated         struct{ UserID string }
	AuthVerificationRequired  struct{ UserID string }
	AuthError                 struct{ Message string }
)

func (AuthInitial) isAuthState()               {}
func (AuthLoading) isAuthState()               {}
func (AuthUnauthenticated) isAuthState()       {}
func (AuthVerificationEmailSent) isAuthState() {}
func (AuthAuthenticated) isAuthState()         {}
func (AuthVerificationRequired) isAuthState()  {}
func (AuthError) isAuthState()                 {}

// ProfileState is a closed set: only the types in this file implement it.
type ProfileState interface{ isProfileState() }

type (
	ProfileInitial  struct{}
	ProfileLoading  struct{}
	ProfileNotFound struct{}
	ProfileCreated  struct{ User models.User }
	ProfileLoaded   struct{ User models.User }
	ProfileUpdated  struct{ User models.User }
	VehicleCreated  struct{ Vehicle models.Vehicle }
	VehicleUpdated  struct{ Vehicle models.Vehicle }
	ProfileError    struct{ Message string }
)

func (ProfileInitial) isProfileState()  {}
func (ProfileLoading) isProfileState()  {}
func (ProfileNotFound) isProfileState() {}
func (ProfileCreated) isProfileState()  {}
func (ProfileLoaded) isProfileState()   {}
func (ProfileUpdated) isProfileState()  {}
func (VehicleCreated) isProfileState()  {}
func (VehicleUpdated) isProfileState()  {}
func (ProfileError) isProfileState()    {}

// RouteState is a closed set: only the types in this file implement it.
type RouteState interface{ isRouteState() }

type (
	RouteInitial          struct{}
	RouteLoading          struct{}
	RouteDeleted          struct{}
	RouteCreated          struct{ Route models.Route }
	RouteUpdated          struct{ Route models.Route }
	RoutesLoaded          struct{ Routes []models.Route }
	FareCollectionsLoaded struct{ Collections []models.FareCollection }
	RouteError            struct{ Message string }
)

func (RouteInitial) isRouteState()          {}
func (RouteLoading) isRouteState()          {}
func (RouteDeleted) isRouteState()          {}
func (RouteCreated) isRouteState()          {}
func (RouteUpdated) isRouteState()          {}
func (RoutesLoaded) isRouteState()          {}
func (FareCollectionsLoaded) isRouteState() {}
func (RouteError) isRouteState()            {}
