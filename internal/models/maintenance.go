package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval must be greater than zero")
	ErrMissingVehicle  = errors.New("vehicle_id is required")
)

// MaintenanceAlert is a mileage-based maintenance reminder.
type MaintenanceAlert struct {
	ID                  string    `json:"id" bson:"_id,omitempty"`
	UserID              string    `json:"user_id" bson:"user_id"`
	VehicleID           string    `json:"vehicle_id" bson:"vehicle_id"`
	VehicleName         string    `json:"vehicle_name" bson:"vehicle_name"`
	Name                string    `json:"name" bson:"name"`                                   // "Troca de Óleo", "Rodízio de Pneus"
	IntervalKm          float64   `json:"interval_km" bson:"interval_km"`                     // in kilometers
	LastServiceOdometer float64   `json:"last_service_odometer" bson:"last_service_odometer"` // in kilometers
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
}

// CreateAlertRequest is the payload accepted when configuring an alert.
type CreateAlertRequest struct {
	VehicleID           string  `json:"vehicle_id"`
	Name                string  `json:"name"`
	IntervalKm          float64 `json:"interval_km"`
	LastServiceOdometer float64 `json:"last_service_odometer"`
}

// Validate checks the request before an alert is created from it.
func (r CreateAlertRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.VehicleID) == "" {
		return ErrMissingVehicle
	}
	if r.IntervalKm <= 0 {
		return ErrInvalidInterval
	}
	if r.LastServiceOdometer < 0 {
		return ErrInvalidOdometer
	}
	return nil
}

// NextServiceOdometer is the reading at which the next service is due.
func (a *MaintenanceAlert) NextServiceOdometer() float64 {
	return a.LastServiceOdometer + a.IntervalKm
}

// AlertStatus reports how close a vehicle is to its next service.
type AlertStatus string

const (
	AlertOK      AlertStatus = "ok"
	AlertDueSoon AlertStatus = "due_soon"
	AlertOverdue AlertStatus = "overdue"
)

// AlertMessageResponse is returned by the alert message endpoint.
type AlertMessageResponse struct {
	AlertID           string      `json:"alert_id"`
	VehicleName       string      `json:"vehicle_name"`
	CurrentOdometer   float64     `json:"current_odometer"`
	NextMaintenanceKm float64     `json:"next_maintenance_km"`
	RemainingKm       float64     `json:"remaining_km"`
	Status            AlertStatus `json:"status"`
	Message           string      `json:"message"`
}
