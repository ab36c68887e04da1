package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/alerts"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/middleware"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/service"
)

// AlertHandler serves maintenance alerts.
type AlertHandler struct {
	alerts    db.AlertCollection
	vehicles  db.VehicleCollection
	service   *service.VehicleService
	generator alerts.Generator
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(alertCollection db.AlertCollection, vehicles db.VehicleCollection, svc *service.VehicleService, generator alerts.Generator) *AlertHandler {
	return &AlertHandler{
		alerts:    alertCollection,
		vehicles:  vehicles,
		service:   svc,
		generator: generator,
	}
}

// List returns the user's alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.alerts.FindAlerts(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, "Failed to list alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create configures an alert for one of the user's vehicles.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateAlertRequest
	if !readJSON(w, r, &req) {
		return
	}
	alert, err := h.service.CreateAlert(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, "Failed to create alert", err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

// Delete removes an alert.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.alerts.DeleteAlert(r.Context(), claims.UserID, r.PathValue("id")); err != nil {
		writeError(w, r, "Failed to delete alert", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Message evaluates the alert against the vehicle's current odometer. A
// generator failure still answers 200 with the fallback message.
func (h *AlertHandler) Message(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	alert, err := h.alerts.FindAlertByID(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, "Failed to load alert", err)
		return
	}
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), claims.UserID, alert.VehicleID)
	if err != nil {
		writeError(w, r, "Failed to load vehicle", err)
		return
	}
	if vehicle.Name != "" {
		alert.VehicleName = vehicle.Name
	}

	resp, err := alerts.Message(r.Context(), h.generator, *alert, vehicle.CurrentOdometer())
	if err != nil {
		log.WithFields(log.Fields{
			"alert_id":   alert.ID,
			"request_id": middleware.GetRequestID(r.Context()),
		}).WithError(err).Warn("alert message generation failed, using fallback")
	}
	writeJSON(w, http.StatusOK, resp)
}
