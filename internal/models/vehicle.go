package models

import (
	"errors"
	"strings"
	"time"
)

// VehicleFuelType is the fuel a vehicle is built to run on.
type VehicleFuelType string

const (
	VehicleGasoline VehicleFuelType = "Gasoline"
	VehicleEthanol  VehicleFuelType = "Ethanol"
	VehicleDiesel   VehicleFuelType = "Diesel"
	VehicleFlex     VehicleFuelType = "Flex"
	VehicleElectric VehicleFuelType = "Electric"
)

var (
	ErrEmptyName             = errors.New("name is required")
	ErrInvalidVehicleFuel    = errors.New("invalid vehicle fuel type")
	ErrInvalidInitialReading = errors.New("initial odometer must not be negative")
)

// Vehicle represents a vehicle owned by a user.
type Vehicle struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	Name            string          `bson:"name" json:"name"`
	Plate           string          `bson:"plate" json:"plate"`
	FuelType        VehicleFuelType `bson:"fuel_type" json:"fuel_type"`
	InitialOdometer float64         `bson:"initial_odometer" json:"initial_odometer"` // in kilometers
	Odometer        float64         `bson:"odometer" json:"odometer"`                 // in kilometers
	IsPrimary       bool            `bson:"is_primary" json:"is_primary"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}

// CreateVehicleRequest is the payload accepted when registering a vehicle.
type CreateVehicleRequest struct {
	Name            string          `json:"name"`
	Plate           string          `json:"plate"`
	FuelType        VehicleFuelType `json:"fuel_type"`
	InitialOdometer float64         `json:"initial_odometer"`
}

// IsValidVehicleFuelType checks if a vehicle fuel type is known
func IsValidVehicleFuelType(t VehicleFuelType) bool {
	switch t {
	case VehicleGasoline, VehicleEthanol, VehicleDiesel, VehicleFlex, VehicleElectric:
		return true
	default:
		return false
	}
}

// Validate checks the request before a vehicle is created from it.
func (r CreateVehicleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !IsValidVehicleFuelType(r.FuelType) {
		return ErrInvalidVehicleFuel
	}
	if r.InitialOdometer < 0 {
		return ErrInvalidInitialReading
	}
	return nil
}

// CurrentOdometer returns the last known reading, falling back to the
// reading the vehicle was registered with.
func (v *Vehicle) CurrentOdometer() float64 {
	if v.Odometer > 0 {
		return v.Odometer
	}
	return v.InitialOdometer
}

// Label is the display name used on dashboards.
func (v *Vehicle) Label() string {
	if v == nil {
		return ""
	}
	return v.Name
}
