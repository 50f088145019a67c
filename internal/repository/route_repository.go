package repository

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/models"
	"naulify_agent/internal/store"
)

// DefaultFareLimit caps GetFareCollections when no limit is given.
const DefaultFareLimit = 50

// RouteRepository stores routes and reads fare collections. Like
// ProfileRepository it never returns errors.
type RouteRepository interface {
	// CreateRoute assigns a new id, stores the route and writes the id back into route.
	CreateRoute(ctx context.Context, route *models.Route) bool
	GetRoute(ctx context.Context, routeID string) *models.Route
	UpdateRoute(ctx context.Context, route models.Route) bool
	DeleteRoute(ctx context.Context, routeID string) bool
	// GetRoutesForVehicle returns newest first.
	GetRoutesForVehicle(ctx context.Context, vehicleID string) []models.Route
	// GetFareCollections returns at most limit records, newest first.
	GetFareCollections(ctx context.Context, vehicleID string, limit int) []models.FareCollection
	// GetFareCollectionsByDateRange returns records with start <= timestamp <= end, newest first.
	GetFareCollectionsByDateRange(ctx context.Context, vehicleID string, start, end int64) []models.FareCollection
}

type documentRouteRepository struct {
	routes store.Collection[models.Route]
	fares  store.Collection[models.FareCollection]
}

func NewRouteRepository(routes store.Collection[models.Route], fares store.Collection[models.FareCollection]) RouteRepository {
	return &documentRouteRepository{routes: routes, fares: fares}
}

func (r *documentRouteRepository) CreateRoute(ctx context.Context, route *models.Route) bool {
	doc := *route
	doc.ID = r.routes.NewID()
	if err := r.routes.Set(ctx, doc); err != nil {
		logrus.WithError(err).WithField("vehicle_id", route.VehicleID).Warn("route repository: create route failed")
		return false
	}
	route.ID = doc.ID
	return true
}

func (r *documentRouteRepository) GetRoute(ctx context.Context, routeID string) *models.Route {
	route, err := r.routes.Get(ctx, routeID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("route_id", routeID).Warn("route repository: read route failed")
		}
		return nil
	}
	return &route
}

func (r *documentRouteRepository) UpdateRoute(ctx context.Context, route models.Route) bool {
	if err := r.routes.Set(ctx, route); err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Warn("route repository: update route failed")
		return false
	}
	return true
}

func (r *documentRouteRepository) DeleteRoute(ctx context.Context, routeID string) bool {
	if err := r.routes.Delete(ctx, routeID); err != nil {
		logrus.WithError(err).WithField("route_id", routeID).Warn("route repository: delete route failed")
		return false
	}
	return true
}

func (r *documentRouteRepository) GetRoutesForVehicle(ctx context.Context, vehicleID string) []models.Route {
	q := store.Where("vehicle_id", store.OpEq, vehicleID).OrderByDesc("created_at")
	routes, err := r.routes.Find(ctx, q)
	if err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Warn("route repository: list routes failed")
		return []models.Route{}
	}
	return routes
}

func (r *documentRouteRepository) GetFareCollections(ctx context.Context, vehicleID string, limit int) []models.FareCollection {
	if limit <= 0 {
		limit = DefaultFareLimit
	}
	q := store.Where("vehicle_id", store.OpEq, vehicleID).OrderByDesc("timestamp").WithLimit(limit)
	return r.findFares(ctx, vehicleID, q)
}

func (r *documentRouteRepository) GetFareCollectionsByDateRange(ctx context.Context, vehicleID string, start, end int64) []models.FareCollection {
	q := store.Where("vehicle_id", store.OpEq, vehicleID).
		Where("timestamp", store.OpGte, start).
		Where("timestamp", store.OpLte, end).
		OrderByDesc("timestamp")
	return r.findFares(ctx, vehicleID, q)
}

func (r *documentRouteRepository) findFares(ctx context.Context, vehicleID string, q store.Query) []models.FareCollection {
	fares, err := r.fares.Find(ctx, q)
	if err != nil {
		logrus.WithError(err).WithField("vehicle_id", vehicleID).Warn("route repository: list fare collections failed")
		return []models.FareCollection{}
	}
	return fares
}
