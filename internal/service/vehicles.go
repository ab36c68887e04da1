package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/events"
	"github.com/ukydev/tanque-cheio/internal/models"
)

// VehicleService owns the rules that span more than one collection.
type VehicleService struct {
	vehicles  db.VehicleCollection
	fillUps   db.FillUpCollection
	alerts    db.AlertCollection
	publisher events.Publisher
}

// NewVehicleService creates a VehicleService. A nil publisher drops events.
func NewVehicleService(vehicles db.VehicleCollection, fillUps db.FillUpCollection, alerts db.AlertCollection, publisher events.Publisher) *VehicleService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &VehicleService{vehicles: vehicles, fillUps: fillUps, alerts: alerts, publisher: publisher}
}

// CreateVehicle stores a vehicle. The user's first vehicle becomes primary.
func (s *VehicleService) CreateVehicle(ctx context.Context, userID string, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.vehicles.FindVehicles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	vehicle := models.Vehicle{
		UserID:          userID,
		Name:            strings.TrimSpace(req.Name),
		Plate:           strings.ToUpper(strings.TrimSpace(req.Plate)),
		FuelType:        req.FuelType,
		InitialOdometer: req.InitialOdometer,
		Odometer:        req.InitialOdometer,
		IsPrimary:       len(existing) == 0,
	}
	id, err := s.vehicles.InsertVehicle(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	vehicle.ID = id
	return &vehicle, nil
}

// DeleteVehicle removes a vehicle together with its fill-ups and alerts.
func (s *VehicleService) DeleteVehicle(ctx context.Context, userID, vehicleID string) error {
	if err := s.vehicles.DeleteVehicle(ctx, userID, vehicleID); err != nil {
		return err
	}
	if err := s.fillUps.DeleteVehicleFillUps(ctx, userID, vehicleID); err != nil {
		return fmt.Errorf("delete fill-ups: %w", err)
	}
	if err := s.alerts.DeleteVehicleAlerts(ctx, userID, vehicleID); err != nil {
		return fmt.Errorf("delete alerts: %w", err)
	}
	return nil
}

// AddFillUp stores a fill-up for one of the user's vehicles, raises the
// vehicle odometer when the new reading is higher and publishes
// fillup.created. A failed publish is logged, not returned.
func (s *VehicleService) AddFillUp(ctx context.Context, userID, vehicleID string, req models.CreateFillUpRequest) (*models.FillUp, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.FindVehicleByID(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	fillUp := req.ToFillUp(userID, vehicleID)
	id, err := s.fillUps.InsertFillUp(ctx, fillUp)
	if err != nil {
		return nil, fmt.Errorf("insert fill-up: %w", err)
	}
	fillUp.ID = id

	if err := s.vehicles.RaiseOdometer(ctx, userID, vehicleID, fillUp.Odometer); err != nil {
		return nil, fmt.Errorf("update odometer: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewFillUpCreated(fillUp)); err != nil {
		log.WithFields(log.Fields{
			"user_id":    userID,
			"vehicle_id": vehicleID,
			"fill_up_id": id,
		}).WithError(err).Warn("failed to publish fill-up event")
	}
	return &fillUp, nil
}

// CreateAlert stores a maintenance alert for one of the user's vehicles.
func (s *VehicleService) CreateAlert(ctx context.Context, userID string, req models.CreateAlertRequest) (*models.MaintenanceAlert, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicles.FindVehicleByID(ctx, userID, req.VehicleID)
	if err != nil {
		return nil, err
	}

	alert := models.MaintenanceAlert{
		UserID:              userID,
		VehicleID:           vehicle.ID,
		VehicleName:         vehicle.Name,
		Name:                strings.TrimSpace(req.Name),
		IntervalKm:          req.IntervalKm,
		LastServiceOdometer: req.LastServiceOdometer,
	}
	id, err := s.alerts.InsertAlert(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	alert.ID = id
	return &alert, nil
}
