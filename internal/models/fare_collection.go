package models

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// FareCollection is a single passenger payment. Records are written by the
// payment system and are only ever read here.
type FareCollection struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	Amount        float64           `json:"amount"`
	RouteID       string            `json:"route_id"`
	VehicleID     string            `json:"vehicle_id" gorm:"index:idx_fares_vehicle_ts,priority:1"`
	PassengerID   string            `json:"passenger_id"`
	Timestamp     int64             `json:"timestamp" gorm:"index:idx_fares_vehicle_ts,priority:2"`
	TransactionID string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status" gorm:"default:PENDING"`
}

func (f FareCollection) DocumentID() string { return f.ID }
