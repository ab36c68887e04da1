package models

import (
	"errors"
	"time"
)

// FuelType is the fuel dispensed in a single fill-up.
type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelEthanol  FuelType = "Ethanol"
	FuelDiesel   FuelType = "Diesel"
)

var (
	ErrInvalidOdometer = errors.New("odometer must not be negative")
	ErrInvalidLiters   = errors.New("liters must be greater than zero")
	ErrInvalidCost     = errors.New("cost must not be negative")
	ErrInvalidDate     = errors.New("date is required")
	ErrInvalidFuelType = errors.New("invalid fuel type")
)

// FillUp is one fueling event. Date is when the vehicle was fueled, not
// when the record was stored.
type FillUp struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	VehicleID     string    `bson:"vehicle_id" json:"vehicle_id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	Date          time.Time `bson:"date" json:"date"`
	Odometer      float64   `bson:"odometer" json:"odometer"` // in kilometers
	Liters        float64   `bson:"liters" json:"liters"`
	Cost          float64   `bson:"cost" json:"cost"` // in BRL
	PricePerLiter float64   `bson:"price_per_liter" json:"price_per_liter"`
	FuelType      FuelType  `bson:"fuel_type" json:"fuel_type"`
	Station       string    `bson:"station,omitempty" json:"station,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// CreateFillUpRequest is the payload accepted when logging a fill-up.
type CreateFillUpRequest struct {
	Date     time.Time `json:"date"`
	Odometer float64   `json:"odometer"`
	Liters   float64   `json:"liters"`
	Cost     float64   `json:"cost"`
	FuelType FuelType  `json:"fuel_type"`
	Station  string    `json:"station,omitempty"`
}

// IsValidFuelType checks if a fill-up fuel type is known
func IsValidFuelType(t FuelType) bool {
	switch t {
	case FuelGasoline, FuelEthanol, FuelDiesel:
		return true
	default:
		return false
	}
}

// Validate rejects records the aggregation code must never see.
func (r CreateFillUpRequest) Validate() error {
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	if r.Odometer < 0 {
		return ErrInvalidOdometer
	}
	if r.Liters <= 0 {
		return ErrInvalidLiters
	}
	if r.Cost < 0 {
		return ErrInvalidCost
	}
	if !IsValidFuelType(r.FuelType) {
		return ErrInvalidFuelType
	}
	return nil
}

// ToFillUp builds the stored record for a vehicle owned by userID.
func (r CreateFillUpRequest) ToFillUp(userID, vehicleID string) FillUp {
	f := FillUp{
		VehicleID: vehicleID,
		UserID:    userID,
		Date:      r.Date,
		Odometer:  r.Odometer,
		Liters:    r.Liters,
		Cost:      r.Cost,
		FuelType:  r.FuelType,
		Station:   r.Station,
	}
	if r.Liters > 0 {
		f.PricePerLiter = r.Cost / r.Liters
	}
	return f
}
