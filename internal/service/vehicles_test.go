package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/db/dbmock"
	"github.com/ukydev/tanque-cheio/internal/events"
	"github.com/ukydev/tanque-cheio/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) Close() {}

type vehicleFixture struct {
	vehicles  *dbmock.VehicleCollection
	fillUps   *dbmock.FillUpCollection
	alerts    *dbmock.AlertCollection
	publisher *mockPublisher
	service   *VehicleService
}

func newVehicleFixture() vehicleFixture {
	f := vehicleFixture{
		vehicles:  new(dbmock.VehicleCollection),
		fillUps:   new(dbmock.FillUpCollection),
		alerts:    new(dbmock.AlertCollection),
		publisher: new(mockPublisher),
	}
	f.service = NewVehicleService(f.vehicles, f.fillUps, f.alerts, f.publisher)
	return f
}

func TestVehicleService_CreateVehicle(t *testing.T) {
	req := models.CreateVehicleRequest{Name: " Onix Plus ", Plate: "abc1d23", FuelType: models.VehicleFlex, InitialOdometer: 12000}

	t.Run("first vehicle becomes primary", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicles", mock.Anything, "u1").Return([]models.Vehicle{}, nil)
		f.vehicles.On("InsertVehicle", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
			return v.IsPrimary && v.Name == "Onix Plus" && v.Plate == "ABC1D23" && v.Odometer == 12000
		})).Return("v1", nil)

		v, err := f.service.CreateVehicle(context.Background(), "u1", req)

		require.NoError(t, err)
		assert.Equal(t, "v1", v.ID)
		assert.True(t, v.IsPrimary)
		f.vehicles.AssertExpectations(t)
	})

	t.Run("later vehicles are not primary", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicles", mock.Anything, "u1").Return([]models.Vehicle{*onix()}, nil)
		f.vehicles.On("InsertVehicle", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
			return !v.IsPrimary
		})).Return("v2", nil)

		v, err := f.service.CreateVehicle(context.Background(), "u1", req)

		require.NoError(t, err)
		assert.False(t, v.IsPrimary)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newVehicleFixture()

		_, err := f.service.CreateVehicle(context.Background(), "u1", models.CreateVehicleRequest{FuelType: models.VehicleFlex})

		assert.ErrorIs(t, err, models.ErrEmptyName)
		f.vehicles.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})
}

func TestVehicleService_DeleteVehicleCascades(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("DeleteVehicle", mock.Anything, "u1", "v1").Return(nil)
	f.fillUps.On("DeleteVehicleFillUps", mock.Anything, "u1", "v1").Return(nil)
	f.alerts.On("DeleteVehicleAlerts", mock.Anything, "u1", "v1").Return(nil)

	require.NoError(t, f.service.DeleteVehicle(context.Background(), "u1", "v1"))

	f.fillUps.AssertExpectations(t)
	f.alerts.AssertExpectations(t)
}

func TestVehicleService_DeleteMissingVehicle(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("DeleteVehicle", mock.Anything, "u1", "v9").Return(db.ErrNotFound)

	err := f.service.DeleteVehicle(context.Background(), "u1", "v9")

	assert.ErrorIs(t, err, db.ErrNotFound)
	f.fillUps.AssertNotCalled(t, "DeleteVehicleFillUps", mock.Anything, mock.Anything, mock.Anything)
}

func TestVehicleService_AddFillUp(t *testing.T) {
	req := models.CreateFillUpRequest{
		Date:     time.Date(2024, time.November, 12, 0, 0, 0, 0, time.UTC),
		Odometer: 50400,
		Liters:   40,
		Cost:     230,
		FuelType: models.FuelGasoline,
	}

	t.Run("stores, raises odometer and publishes", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, "u1", "v1").Return(onix(), nil)
		f.fillUps.On("InsertFillUp", mock.Anything, mock.MatchedBy(func(fu models.FillUp) bool {
			return fu.PricePerLiter == 5.75 && fu.VehicleID == "v1" && fu.UserID == "u1"
		})).Return("f1", nil)
		f.vehicles.On("RaiseOdometer", mock.Anything, "u1", "v1", 50400.0).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			created, ok := e.(events.FillUpCreated)
			return ok && created.FillUpID == "f1"
		})).Return(nil)

		fu, err := f.service.AddFillUp(context.Background(), "u1", "v1", req)

		require.NoError(t, err)
		assert.Equal(t, "f1", fu.ID)
		f.vehicles.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the write", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, "u1", "v1").Return(onix(), nil)
		f.fillUps.On("InsertFillUp", mock.Anything, mock.Anything).Return("f1", nil)
		f.vehicles.On("RaiseOdometer", mock.Anything, "u1", "v1", 50400.0).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		_, err := f.service.AddFillUp(context.Background(), "u1", "v1", req)

		assert.NoError(t, err)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		f := newVehicleFixture()
		bad := req
		bad.Liters = 0

		_, err := f.service.AddFillUp(context.Background(), "u1", "v1", bad)

		assert.ErrorIs(t, err, models.ErrInvalidLiters)
		f.fillUps.AssertNotCalled(t, "InsertFillUp", mock.Anything, mock.Anything)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, "u1", "v9").Return(nil, db.ErrNotFound)

		_, err := f.service.AddFillUp(context.Background(), "u1", "v9", req)

		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestVehicleService_CreateAlert(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("FindVehicleByID", mock.Anything, "u1", "v1").Return(onix(), nil)
	f.alerts.On("InsertAlert", mock.Anything, mock.MatchedBy(func(a models.MaintenanceAlert) bool {
		return a.VehicleName == "Onix Plus" && a.IntervalKm == 10000
	})).Return("a1", nil)

	alert, err := f.service.CreateAlert(context.Background(), "u1", models.CreateAlertRequest{
		VehicleID:           "v1",
		Name:                "Troca de Óleo",
		IntervalKm:          10000,
		LastServiceOdometer: 40000,
	})

	require.NoError(t, err)
	assert.Equal(t, "a1", alert.ID)
	assert.Equal(t, 50000.0, alert.NextServiceOdometer())
}
