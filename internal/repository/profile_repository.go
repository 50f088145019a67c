package repository

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"naulify_agent/internal/models"
	"naulify_agent/internal/store"
)

// ProfileRepository stores operator profiles and their vehicles. Failures are
// logged and reported as false, nil or an empty slice.
type ProfileRepository interface {
	CreateUserProfile(ctx context.Context, user models.User) bool
	GetUserProfile(ctx context.Context, userID string) *models.User
	UpdateUserProfile(ctx context.Context, user models.User) bool
	// CreateVehicle assigns a new id, stores the vehicle and writes the id back into v.
	CreateVehicle(ctx context.Context, v *models.Vehicle) bool
	GetVehicle(ctx context.Context, vehicleID string) *models.Vehicle
	UpdateVehicle(ctx context.Context, v models.Vehicle) bool
	GetVehiclesForUser(ctx context.Context, userID string) []models.Vehicle
}

type documentProfileRepository struct {
	users    store.Collection[models.User]
	vehicles store.Collection[models.Vehicle]
}

func NewProfileRepository(users store.Collection[models.User], vehicles store.Collection[models.Vehicle]) ProfileRepository {
	return &documentProfileRepository{users: users, vehicles: vehicles}
}

func (r *documentProfileRepository) CreateUserProfile(ctx context.Context, user models.User) bool {
	return r.putUser(ctx, user, "create")
}

func (r *documentProfileRepository) UpdateUserProfile(ctx context.Context, user models.User) bool {
	return r.putUser(ctx, user, "update")
}

func (r *documentProfileRepository) putUser(ctx context.Context, user models.User, op string) bool {
	if err := r.users.Set(ctx, user); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "op": op}).Warn("profile repository: write user failed")
		return false
	}
	return true
}

func (r *documentProfileRepository) GetUserProfile(ctx context.Context, userID string) *models.User {
	user, err := r.users.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("user_id", userID).Warn("profile repository: read user failed")
		}
		return nil
	}
	return &user
}

func (r *documentProfileRepository) CreateVehicle(ctx context.Context, v *models.Vehicle) bool {
	doc := *v
	doc.ID = r.vehicles.NewID()
	if err := r.vehicles.Set(ctx, doc); err != nil {
		logrus.WithError(err).WithField("owner_id", v.OwnerID).Warn("profile repository: create vehicle failed")
		return false
	}
	v.ID = doc.ID
	return true
}

func (r *documentProfileRepository) GetVehicle(ctx context.Context, vehicleID string) *models.Vehicle {
	v, err := r.vehicles.Get(ctx, vehicleID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("vehicle_id", vehicleID).Warn("profile repository: read vehicle failed")
		}
		return nil
	}
	return &v
}

func (r *documentProfileRepository) UpdateVehicle(ctx context.Context, v models.Vehicle) bool {
	if err := r.vehicles.Set(ctx, v); err != nil {
		logrus.WithError(err).WithField("vehicle_id", v.ID).Warn("profile repository: update vehicle failed")
		return false
	}
	return true
}

// GetVehiclesForUser returns the owner's vehicles in no particular order.
func (r *documentProfileRepository) GetVehiclesForUser(ctx context.Context, userID string) []models.Vehicle {
	vehicles, err := r.vehicles.Find(ctx, store.Where("owner_id", store.OpEq, userID))
	if err != nil {
		logrus.WithError(err).WithField("owner_id", userID).Warn("profile repository: list vehicles failed")
		return []models.Vehicle{}
	}
	return vehicles
}
