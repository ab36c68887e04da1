package db

import (
	"context"
	"errors"

	"github.com/ukydev/tanque-cheio/internal/models"
)

// ErrNotFound is returned when a document does not exist or belongs to
// another user.
var ErrNotFound = errors.New("not found")

// Cursor is the subset of *mongo.Cursor the collections read through.
type Cursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	FindVehicles(ctx context.Context, userID string) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, userID, id string) (*models.Vehicle, error)
	FindPrimaryVehicle(ctx context.Context, userID string) (*models.Vehicle, error)
	SetPrimaryVehicle(ctx context.Context, userID, id string) error
	RaiseOdometer(ctx context.Context, userID, id string, reading float64) error
	DeleteVehicle(ctx context.Context, userID, id string) error
}

// FillUpCollection defines the interface for fill-up data operations.
type FillUpCollection interface {
	InsertFillUp(ctx context.Context, fillUp models.FillUp) (string, error)
	// FindFillUps returns a vehicle's fill-ups newest first. A limit of
	// zero returns all of them.
	FindFillUps(ctx context.Context, userID, vehicleID string, limit int64) ([]models.FillUp, error)
	FindUserFillUps(ctx context.Context, userID string) ([]models.FillUp, error)
	DeleteVehicleFillUps(ctx context.Context, userID, vehicleID string) error
}

// AlertCollection defines the interface for maintenance alert operations.
type AlertCollection interface {
	InsertAlert(ctx context.Context, alert models.MaintenanceAlert) (string, error)
	FindAlerts(ctx context.Context, userID string) ([]models.MaintenanceAlert, error)
	FindAlertByID(ctx context.Context, userID, id string) (*models.MaintenanceAlert, error)
	DeleteAlert(ctx context.Context, userID, id string) error
	DeleteVehicleAlerts(ctx context.Context, userID, vehicleID string) error
}

// readAll drains a cursor into out and closes it.
func readAll(ctx context.Context, cursor Cursor, out interface{}) error {
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
