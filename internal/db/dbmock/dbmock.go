// Package dbmock provides testify mocks of the db collection interfaces.
package dbmock

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/tanque-cheio/internal/models"
)

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) UpdateProfile(ctx context.Context, id, displayName, phone string) error {
	return m.Called(ctx, id, displayName, phone).Error(0)
}

func (m *UserCollection) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *UserCollection) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// VehicleCollection is a mock implementation of db.VehicleCollection
type VehicleCollection struct {
	mock.Mock
}

func (m *VehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	args := m.Called(ctx, vehicle)
	return args.String(0), args.Error(1)
}

func (m *VehicleCollection) FindVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) FindVehicleByID(ctx context.Context, userID, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) FindPrimaryVehicle(ctx context.Context, userID string) (*models.Vehicle, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *VehicleCollection) SetPrimaryVehicle(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *VehicleCollection) RaiseOdometer(ctx context.Context, userID, id string, reading float64) error {
	return m.Called(ctx, userID, id, reading).Error(0)
}

func (m *VehicleCollection) DeleteVehicle(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

// FillUpCollection is a mock implementation of db.FillUpCollection
type FillUpCollection struct {
	mock.Mock
}

func (m *FillUpCollection) InsertFillUp(ctx context.Context, fillUp models.FillUp) (string, error) {
	args := m.Called(ctx, fillUp)
	return args.String(0), args.Error(1)
}

func (m *FillUpCollection) FindFillUps(ctx context.Context, userID, vehicleID string, limit int64) ([]models.FillUp, error) {
	args := m.Called(ctx, userID, vehicleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FillUp), args.Error(1)
}

func (m *FillUpCollection) FindUserFillUps(ctx context.Context, userID string) ([]models.FillUp, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FillUp), args.Error(1)
}

func (m *FillUpCollection) DeleteVehicleFillUps(ctx context.Context, userID, vehicleID string) error {
	return m.Called(ctx, userID, vehicleID).Error(0)
}

// AlertCollection is a mock implementation of db.AlertCollection
type AlertCollection struct {
	mock.Mock
}

func (m *AlertCollection) InsertAlert(ctx context.Context, alert models.MaintenanceAlert) (string, error) {
	args := m.Called(ctx, alert)
	return args.String(0), args.Error(1)
}

func (m *AlertCollection) FindAlerts(ctx context.Context, userID string) ([]models.MaintenanceAlert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceAlert), args.Error(1)
}

func (m *AlertCollection) FindAlertByID(ctx context.Context, userID, id string) (*models.MaintenanceAlert, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceAlert), args.Error(1)
}

func (m *AlertCollection) DeleteAlert(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *AlertCollection) DeleteVehicleAlerts(ctx context.Context, userID, vehicleID string) error {
	return m.Called(ctx, userID, vehicleID).Error(0)
}
