package handlers

import (
	"net/http"

	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/service"
)

// VehicleHandler serves vehicles and their fill-ups.
type VehicleHandler struct {
	vehicles    db.VehicleCollection
	fillUps     db.FillUpCollection
	service     *service.VehicleService
	fillUpLimit int64
}

// NewVehicleHandler creates a VehicleHandler. fillUpLimit caps the fill-up
// list endpoint.
func NewVehicleHandler(vehicles db.VehicleCollection, fillUps db.FillUpCollection, svc *service.VehicleService, fillUpLimit int) *VehicleHandler {
	return &VehicleHandler{
		vehicles:    vehicles,
		fillUps:     fillUps,
		service:     svc,
		fillUpLimit: int64(fillUpLimit),
	}
}

// List returns the user's vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	vehicles, err := h.vehicles.FindVehicles(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, "Failed to list vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Create registers a vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateVehicleRequest
	if !readJSON(w, r, &req) {
		return
	}
	vehicle, err := h.service.CreateVehicle(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, "Failed to create vehicle", err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// Get returns one vehicle.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, "Failed to load vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Delete removes a vehicle with its fill-ups and alerts.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteVehicle(r.Context(), claims.UserID, r.PathValue("id")); err != nil {
		writeError(w, r, "Failed to delete vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPrimary makes the vehicle the dashboard default.
func (h *VehicleHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if err := h.vehicles.SetPrimaryVehicle(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, "Failed to set primary vehicle", err)
		return
	}
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, r, "Failed to load vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// ListFillUps returns the vehicle's most recent fill-ups, newest first.
func (h *VehicleHandler) ListFillUps(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if _, err := h.vehicles.FindVehicleByID(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, "Failed to load vehicle", err)
		return
	}
	fillUps, err := h.fillUps.FindFillUps(r.Context(), claims.UserID, id, h.fillUpLimit)
	if err != nil {
		writeError(w, r, "Failed to list fill-ups", err)
		return
	}
	writeJSON(w, http.StatusOK, fillUps)
}

// CreateFillUp logs a fill-up for the vehicle.
func (h *VehicleHandler) CreateFillUp(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateFillUpRequest
	if !readJSON(w, r, &req) {
		return
	}
	fillUp, err := h.service.AddFillUp(r.Context(), claims.UserID, r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, "Failed to create fill-up", err)
		return
	}
	writeJSON(w, http.StatusCreated, fillUp)
}
