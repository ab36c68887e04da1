package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/db/dbmock"
	"github.com/ukydev/tanque-cheio/internal/events"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/service"
)

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() {}

type vehicleFixture struct {
	vehicles  *dbmock.VehicleCollection
	fillUps   *dbmock.FillUpCollection
	alerts    *dbmock.AlertCollection
	publisher *recordingPublisher
	handler   *VehicleHandler
}

func newVehicleFixture() vehicleFixture {
	f := vehicleFixture{
		vehicles:  new(dbmock.VehicleCollection),
		fillUps:   new(dbmock.FillUpCollection),
		alerts:    new(dbmock.AlertCollection),
		publisher: &recordingPublisher{},
	}
	svc := service.NewVehicleService(f.vehicles, f.fillUps, f.alerts, f.publisher)
	f.handler = NewVehicleHandler(f.vehicles, f.fillUps, svc, 50)
	return f
}

// withID sets the {id} path value the mux would have matched.
func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func TestVehicleHandler_List(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("FindVehicles", mock.Anything, testUserID).Return([]models.Vehicle{
		{ID: "v1", Name: "Onix Plus", IsPrimary: true},
		{ID: "v2", Name: "HB20"},
	}, nil)
	w := httptest.NewRecorder()

	f.handler.List(w, asUser(httptest.NewRequest("GET", "/api/vehicles", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	var vehicles []models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles, 2)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestVehicleHandler_ListWithoutUser(t *testing.T) {
	f := newVehicleFixture()
	w := httptest.NewRecorder()

	f.handler.List(w, httptest.NewRequest("GET", "/api/vehicles", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.vehicles.AssertNotCalled(t, "FindVehicles", mock.Anything, mock.Anything)
}

func TestVehicleHandler_Create(t *testing.T) {
	t.Run("first vehicle becomes primary", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicles", mock.Anything, testUserID).Return([]models.Vehicle{}, nil)
		f.vehicles.On("InsertVehicle", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
			return v.IsPrimary && v.Plate == "ABC1D23" && v.Odometer == 12000
		})).Return("v1", nil)

		req := asUser(httptest.NewRequest("POST", "/api/vehicles", jsonBody(t, models.CreateVehicleRequest{
			Name:            "Onix Plus",
			Plate:           "abc1d23",
			FuelType:        models.VehicleFlex,
			InitialOdometer: 12000,
		})))
		w := httptest.NewRecorder()

		f.handler.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var vehicle models.Vehicle
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicle))
		assert.Equal(t, "v1", vehicle.ID)
		assert.True(t, vehicle.IsPrimary)
		f.vehicles.AssertExpectations(t)
	})

	t.Run("invalid fuel type", func(t *testing.T) {
		f := newVehicleFixture()
		req := asUser(httptest.NewRequest("POST", "/api/vehicles", jsonBody(t, models.CreateVehicleRequest{
			Name:     "Onix Plus",
			FuelType: "Hydrogen",
		})))
		w := httptest.NewRecorder()

		f.handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), models.ErrInvalidVehicleFuel.Error())
	})
}

func TestVehicleHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v1").Return(&models.Vehicle{ID: "v1", Name: "Onix Plus"}, nil)
		w := httptest.NewRecorder()

		f.handler.Get(w, withID(asUser(httptest.NewRequest("GET", "/api/vehicles/v1", nil)), "v1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Onix Plus")
	})

	t.Run("not found", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "missing").Return(nil, db.ErrNotFound)
		w := httptest.NewRecorder()

		f.handler.Get(w, withID(asUser(httptest.NewRequest("GET", "/api/vehicles/missing", nil)), "missing"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("database error", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v1").Return(nil, errors.New("connection reset"))
		w := httptest.NewRecorder()

		f.handler.Get(w, withID(asUser(httptest.NewRequest("GET", "/api/vehicles/v1", nil)), "v1"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestVehicleHandler_Delete(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("DeleteVehicle", mock.Anything, testUserID, "v1").Return(nil)
	f.fillUps.On("DeleteVehicleFillUps", mock.Anything, testUserID, "v1").Return(nil)
	f.alerts.On("DeleteVehicleAlerts", mock.Anything, testUserID, "v1").Return(nil)
	w := httptest.NewRecorder()

	f.handler.Delete(w, withID(asUser(httptest.NewRequest("DELETE", "/api/vehicles/v1", nil)), "v1"))

	assert.Equal(t, http.StatusNoContent, w.Code)
	f.vehicles.AssertExpectations(t)
	f.fillUps.AssertExpectations(t)
	f.alerts.AssertExpectations(t)
}

func TestVehicleHandler_SetPrimary(t *testing.T) {
	f := newVehicleFixture()
	f.vehicles.On("SetPrimaryVehicle", mock.Anything, testUserID, "v2").Return(nil)
	f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v2").Return(&models.Vehicle{ID: "v2", IsPrimary: true}, nil)
	w := httptest.NewRecorder()

	f.handler.SetPrimary(w, withID(asUser(httptest.NewRequest("POST", "/api/vehicles/v2/primary", nil)), "v2"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_primary":true`)
}

func TestVehicleHandler_ListFillUps(t *testing.T) {
	t.Run("applies the configured limit", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v1").Return(&models.Vehicle{ID: "v1"}, nil)
		f.fillUps.On("FindFillUps", mock.Anything, testUserID, "v1", int64(50)).Return([]models.FillUp{{ID: "f1"}}, nil)
		w := httptest.NewRecorder()

		f.handler.ListFillUps(w, withID(asUser(httptest.NewRequest("GET", "/api/vehicles/v1/fillups", nil)), "v1"))

		assert.Equal(t, http.StatusOK, w.Code)
		f.fillUps.AssertExpectations(t)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v9").Return(nil, db.ErrNotFound)
		w := httptest.NewRecorder()

		f.handler.ListFillUps(w, withID(asUser(httptest.NewRequest("GET", "/api/vehicles/v9/fillups", nil)), "v9"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.fillUps.AssertNotCalled(t, "FindFillUps", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVehicleHandler_CreateFillUp(t *testing.T) {
	date := time.Date(2024, time.November, 5, 8, 30, 0, 0, time.UTC)

	t.Run("stores and publishes", func(t *testing.T) {
		f := newVehicleFixture()
		f.vehicles.On("FindVehicleByID", mock.Anything, testUserID, "v1").Return(&models.Vehicle{ID: "v1"}, nil)
		f.fillUps.On("InsertFillUp", mock.Anything, mock.AnythingOfType("models.FillUp")).Return("f1", nil)
		f.vehicles.On("RaiseOdometer", mock.Anything, testUserID, "v1", 45210.0).Return(nil)

		req := withID(asUser(httptest.NewRequest("POST", "/api/vehicles/v1/fillups", jsonBody(t, models.CreateFillUpRequest{
			Date:     date,
			Odometer: 45210,
			Liters:   40,
			Cost:     230,
			FuelType: models.FuelGasoline,
		}))), "v1")
		w := httptest.NewRecorder()

		f.handler.CreateFillUp(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var fillUp models.FillUp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fillUp))
		assert.Equal(t, "f1", fillUp.ID)
		assert.InDelta(t, 5.75, fillUp.PricePerLiter, 1e-9)
		require.Len(t, f.publisher.published, 1)
		assert.Equal(t, events.FillUpCreatedType, f.publisher.published[0].Type())
	})

	t.Run("rejects zero liters", func(t *testing.T) {
		f := newVehicleFixture()
		req := withID(asUser(httptest.NewRequest("POST", "/api/vehicles/v1/fillups", jsonBody(t, models.CreateFillUpRequest{
			Date:     date,
			Odometer: 45210,
			Cost:     230,
			FuelType: models.FuelGasoline,
		}))), "v1")
		w := httptest.NewRecorder()

		f.handler.CreateFillUp(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, f.publisher.published)
	})
}
