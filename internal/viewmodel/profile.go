package viewmodel

import (
	"context"
	"strings"

	"naulify_agent/internal/models"
	"naulify_agent/internal/observable"
	"naulify_agent/internal/repository"
)

const (
	msgCreateProfileFailed = "Failed to create profile"
	msgUpdateProfileFailed = "Failed to update profile"
	msgCreateVehicleFailed = "Failed to create vehicle"
	msgUpdateVehicleFailed = "Failed to update vehicle"
)

// ProfileViewModel manages the operator profile and the vehicles projection.
type ProfileViewModel struct {
	profiles repository.ProfileRepository
	scope    *scope

	state        *observable.Value[ProfileState]
	vehicles     *observable.Value[[]models.Vehicle]
	vehicleLoads loadSequencer
}

func NewProfileViewModel(ctx context.Context, profiles repository.ProfileRepository) *ProfileViewModel {
	return &ProfileViewModel{
		profiles: profiles,
		scope:    newScope(context.WithoutCancel(ctx)),
		state:    observable.NewValue[ProfileState](ProfileInitial{}),
		vehicles: observable.NewValue([]models.Vehicle{}),
	}
}

func (vm *ProfileViewModel) State() ProfileState { return vm.state.Get() }

func (vm *ProfileViewModel) WatchState(ctx context.Context) <-chan ProfileState {
	return vm.state.Subscribe(ctx)
}

func (vm *ProfileViewModel) Vehicles() []models.Vehicle { return vm.vehicles.Get() }

func (vm *ProfileViewModel) WatchVehicles(ctx context.Context) <-chan []models.Vehicle {
	return vm.vehicles.Subscribe(ctx)
}

func (vm *ProfileViewModel) CreateProfile(ctx context.Context, userID, name, phoneNumber, email string) ProfileState {
	return execute(vm.scope, ctx, vm.state, ProfileState(ProfileLoading{}), func(ctx context.Context) (ProfileState, bool) {
		user := models.NewUser(userID, name, phoneNumber, email)
		if !vm.profiles.CreateUserProfile(ctx, user) {
			return ProfileError{Message: msgCreateProfileFailed}, true
		}
		return ProfileCreated{User: user}, true
	})
}

func (vm *ProfileViewModel) UpdateProfile(ctx context.Context, user models.User) ProfileState {
	return execute(vm.scope, ctx, vm.state, ProfileState(ProfileLoading{}), func(ctx context.Context) (ProfileState, bool) {
		if !vm.profiles.UpdateUserProfile(ctx, user) {
			return ProfileError{Message: msgUpdateProfileFailed}, true
		}
		return ProfileUpdated{User: user}, true
	})
}

// LoadProfile reads the profile and, when found, reloads the vehicles projection.
// A read failure is indistinguishable from a missing profile.
func (vm *ProfileViewModel) LoadProfile(ctx context.Context, userID string) ProfileState {
	return execute(vm.scope, ctx, vm.state, ProfileState(ProfileLoading{}), func(ctx context.Context) (ProfileState, bool) {
		user := vm.profiles.GetUserProfile(ctx, userID)
		if user == nil {
			return ProfileNotFound{}, true
		}
		vm.state.Set(ProfileLoaded{User: *user})
		vm.loadVehicles(ctx, userID)
		return ProfileLoaded{User: *user}, false
	})
}

// CreateVehicle stores the vehicle with an uppercased registration, then
// reloads the owner's vehicles before reporting VehicleCreated.
func (vm *ProfileViewModel) CreateVehicle(ctx context.Context, ownerID, registration string, vehicleType models.VehicleType, shortCode string) ProfileState {
	return execute(vm.scope, ctx, vm.state, ProfileState(ProfileLoading{}), func(ctx context.Context) (ProfileState, bool) {
		vehicle := models.NewVehicle(ownerID, registration, vehicleType, shortCode)
		if !vm.profiles.CreateVehicle(ctx, &vehicle) {
			return ProfileError{Message: msgCreateVehicleFailed}, true
		}
		vm.loadVehicles(ctx, ownerID)
		return VehicleCreated{Vehicle: vehicle}, true
	})
}

func (vm *ProfileViewModel) UpdateVehicle(ctx context.Context, vehicle models.Vehicle) ProfileState {
	return execute(vm.scope, ctx, vm.state, ProfileState(ProfileLoading{}), func(ctx context.Context) (ProfileState, bool) {
		vehicle.Registration = strings.ToUpper(vehicle.Registration)
		if !vm.profiles.UpdateVehicle(ctx, vehicle) {
			return ProfileError{Message: msgUpdateVehicleFailed}, true
		}
		vm.loadVehicles(ctx, vehicle.OwnerID)
		return VehicleUpdated{Vehicle: vehicle}, true
	})
}

// LoadVehicles refreshes the vehicles projection without touching the state.
func (vm *ProfileViewModel) LoadVehicles(ctx context.Context, userID string) []models.Vehicle {
	vm.scope.run(ctx, func(ctx context.Context) { vm.loadVehicles(ctx, userID) })
	return vm.vehicles.Get()
}

func (vm *ProfileViewModel) loadVehicles(ctx context.Context, userID string) {
	ticket := vm.vehicleLoads.begin(ctx)
	list := vm.profiles.GetVehiclesForUser(ticket.ctx, userID)
	vm.vehicleLoads.commit(ticket, func() { vm.vehicles.Set(list) })
}

func (vm *ProfileViewModel) Close() { vm.scope.close() }
