package models

import "strings"

type VehicleType string

const (
	VehicleTypeVan     VehicleType = "VAN"
	VehicleTypeBus     VehicleType = "BUS"
	VehicleTypeMiniBus VehicleType = "MINI_BUS"
)

// ParseVehicleType accepts the enum name in any case. Empty input yields VAN.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch VehicleType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", VehicleTypeVan:
		return VehicleTypeVan, true
	case VehicleTypeBus:
		return VehicleTypeBus, true
	case VehicleTypeMiniBus:
		return VehicleTypeMiniBus, true
	default:
		return "", false
	}
}

// Vehicle is owned by exactly one user. ID is assigned by the store on creation.
type Vehicle struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	Registration   string      `json:"registration"`
	Type           VehicleType `json:"type" gorm:"default:VAN"`
	MpesaShortCode string      `json:"mpesa_short_code"`
	OwnerID        string      `json:"owner_id" gorm:"index"`
}

// NewVehicle normalizes the registration to uppercase and defaults the type to VAN.
func NewVehicle(ownerID, registration string, vehicleType VehicleType, shortCode string) Vehicle {
	if vehicleType == "" {
		vehicleType = VehicleTypeVan
	}
	return Vehicle{
		OwnerID:        ownerID,
		Registration:   strings.ToUpper(registration),
		Type:           vehicleType,
		MpesaShortCode: shortCode,
	}
}

func (v Vehicle) DocumentID() string { return v.ID }
