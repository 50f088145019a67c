package viewmodel

import (
	"context"
	"errors"

	"naulify_agent/internal/models"
	"naulify_agent/internal/observable"
	"naulify_agent/internal/repository"
)

const (
	msgCreateRouteFailed = "Failed to create route"
	msgUpdateRouteFailed = "Failed to update route"
	msgDeleteRouteFailed = "Failed to delete route"
)

var (
	// ErrSuperseded reports a load replaced by a newer load into the same projection.
	ErrSuperseded = errors.New("load superseded by a newer request")
	// ErrClosed reports a command cut short because the view-model was closed.
	ErrClosed = errors.New("view-model closed")
)

// RouteOption adjusts a route before it is created.
type RouteOption func(*models.Route)

// WithPath attaches a WKB encoded path to the route.
func WithPath(path []byte) RouteOption {
	return func(r *models.Route) { r.Path = path }
}

// RouteViewModel manages a vehicle's routes and its fare collections. Every
// write is followed by a fresh read of the route list; loads into one
// projection supersede each other.
type RouteViewModel struct {
	routeRepo repository.RouteRepository
	scope     *scope

	state           *observable.Value[RouteState]
	routes          *observable.Value[[]models.Route]
	fareCollections *observable.Value[[]models.FareCollection]

	routeLoads loadSequencer
	fareLoads  loadSequencer
}

func NewRouteViewModel(ctx context.Context, routeRepo repository.RouteRepository) *RouteViewModel {
	return &RouteViewModel{
		routeRepo:       routeRepo,
		scope:           newScope(context.WithoutCancel(ctx)),
		state:           observable.NewValue[RouteState](RouteInitial{}),
		routes:          observable.NewValue([]models.Route{}),
		fareCollections: observable.NewValue([]models.FareCollection{}),
	}
}

func (vm *RouteViewModel) State() RouteState { return vm.state.Get() }

func (vm *RouteViewModel) WatchState(ctx context.Context) <-chan RouteState {
	return vm.state.Subscribe(ctx)
}

func (vm *RouteViewModel) Routes() []models.Route { return vm.routes.Get() }

func (vm *RouteViewModel) WatchRoutes(ctx context.Context) <-chan []models.Route {
	return vm.routes.Subscribe(ctx)
}

func (vm *RouteViewModel) FareCollections() []models.FareCollection {
	return vm.fareCollections.Get()
}

func (vm *RouteViewModel) WatchFareCollections(ctx context.Context) <-chan []models.FareCollection {
	return vm.fareCollections.Subscribe(ctx)
}

func (vm *RouteViewModel) CreateRoute(ctx context.Context, description string, fare float64, vehicleID string, opts ...RouteOption) RouteState {
	return execute(vm.scope, ctx, vm.state, RouteState(RouteLoading{}), func(ctx context.Context) (RouteState, bool) {
		route := models.NewRoute(description, fare, vehicleID)
		for _, opt := range opts {
			opt(&route)
		}
		if !vm.routeRepo.CreateRoute(ctx, &route) {
			return RouteError{Message: msgCreateRouteFailed}, true
		}
		vm.reloadRoutes(ctx, vehicleID, false)
		return RouteCreated{Route: route}, true
	})
}

func (vm *RouteViewModel) UpdateRoute(ctx context.Context, route models.Route) RouteState {
	return execute(vm.scope, ctx, vm.state, RouteState(RouteLoading{}), func(ctx context.Context) (RouteState, bool) {
		if !vm.routeRepo.UpdateRoute(ctx, route) {
			return RouteError{Message: msgUpdateRouteFailed}, true
		}
		vm.reloadRoutes(ctx, route.VehicleID, false)
		return RouteUpdated{Route: route}, true
	})
}

func (vm *RouteViewModel) DeleteRoute(ctx context.Context, routeID, vehicleID string) RouteState {
	return execute(vm.scope, ctx, vm.state, RouteState(RouteLoading{}), func(ctx context.Context) (RouteState, bool) {
		if !vm.routeRepo.DeleteRoute(ctx, routeID) {
			return RouteError{Message: msgDeleteRouteFailed}, true
		}
		vm.reloadRoutes(ctx, vehicleID, false)
		return RouteDeleted{}, true
	})
}

// LoadRoutes replaces the routes projection and reports RoutesLoaded. A load
// superseded by a newer one publishes nothing and fails with ErrSuperseded.
func (vm *RouteViewModel) LoadRoutes(ctx context.Context, vehicleID string) (RouteState, error) {
	return vm.load(ctx, func(ctx context.Context) (RouteState, bool) {
		list, ok := vm.reloadRoutes(ctx, vehicleID, true)
		return RoutesLoaded{Routes: list}, ok
	})
}

// reloadRoutes publishes the fresh list and, when announce is set, the
// RoutesLoaded state under the same sequencing decision.
func (vm *RouteViewModel) reloadRoutes(ctx context.Context, vehicleID string, announce bool) ([]models.Route, bool) {
	ticket := vm.routeLoads.begin(ctx)
	list := vm.routeRepo.GetRoutesForVehicle(ticket.ctx, vehicleID)
	ok := vm.routeLoads.commit(ticket, func() {
		vm.routes.Set(list)
		if announce {
			vm.state.Set(RoutesLoaded{Routes: list})
		}
	})
	return list, ok
}

// LoadFareCollections loads the newest repository.DefaultFareLimit collections.
func (vm *RouteViewModel) LoadFareCollections(ctx context.Context, vehicleID string) (RouteState, error) {
	return vm.loadFares(ctx, func(ctx context.Context) []models.FareCollection {
		return vm.routeRepo.GetFareCollections(ctx, vehicleID, repository.DefaultFareLimit)
	})
}

// LoadFareCollectionsByDateRange loads collections with start <= timestamp <= end.
func (vm *RouteViewModel) LoadFareCollectionsByDateRange(ctx context.Context, vehicleID string, start, end int64) (RouteState, error) {
	return vm.loadFares(ctx, func(ctx context.Context) []models.FareCollection {
		return vm.routeRepo.GetFareCollectionsByDateRange(ctx, vehicleID, start, end)
	})
}

func (vm *RouteViewModel) loadFares(ctx context.Context, read func(context.Context) []models.FareCollection) (RouteState, error) {
	return vm.load(ctx, func(ctx context.Context) (RouteState, bool) {
		ticket := vm.fareLoads.begin(ctx)
		list := read(ticket.ctx)
		ok := vm.fareLoads.commit(ticket, func() {
			vm.fareCollections.Set(list)
			vm.state.Set(FareCollectionsLoaded{Collections: list})
		})
		return FareCollectionsLoaded{Collections: list}, ok
	})
}

// load runs one sequenced load. fn publishes its own result and reports
// whether it committed. A load that did not commit returns the current state
// with ErrClosed, the caller's context error, or ErrSuperseded.
func (vm *RouteViewModel) load(ctx context.Context, fn func(ctx context.Context) (RouteState, bool)) (RouteState, error) {
	var (
		result    RouteState
		committed bool
	)
	execute(vm.scope, ctx, vm.state, RouteState(RouteLoading{}), func(ctx context.Context) (RouteState, bool) {
		result, committed = fn(ctx)
		return result, false
	})
	switch {
	case committed:
		return result, nil
	case vm.scope.isClosed():
		return vm.state.Get(), ErrClosed
	case ctx.Err() != nil:
		return vm.state.Get(), ctx.Err()
	default:
		return vm.state.Get(), ErrSuperseded
	}
}

func (vm *RouteViewModel) Close() { vm.scope.close() }
