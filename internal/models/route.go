package models

// Route is a priced trip description belonging to one vehicle.
type Route struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Description string  `json:"description"`
	Fare        float64 `json:"fare"`
	VehicleID   string  `json:"vehicle_id" gorm:"index:idx_routes_vehicle_created,priority:1"`
	CreatedAt   int64   `json:"created_at" gorm:"autoCreateTime:milli;index:idx_routes_vehicle_created,priority:2"`

	// Path is an optional LINESTRING in WKB; the API speaks GeoJSON.
	Path []byte `json:"path,omitempty" gorm:"type:bytea"`
}

func NewRoute(description string, fare float64, vehicleID string) Route {
	return Route{
		Description: description,
		Fare:        fare,
		VehicleID:   vehicleID,
		CreatedAt:   NowMillis(),
	}
}

func (r Route) DocumentID() string { return r.ID }
