package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/middleware"
	"github.com/ukydev/tanque-cheio/internal/models"
)

const maxBodyBytes = 1 << 20

// validationErrors are reported to the client as 400 with their message.
var validationErrors = []error{
	models.ErrEmptyName,
	models.ErrInvalidVehicleFuel,
	models.ErrInvalidInitialReading,
	models.ErrInvalidOdometer,
	models.ErrInvalidLiters,
	models.ErrInvalidCost,
	models.ErrInvalidDate,
	models.ErrInvalidFuelType,
	models.ErrInvalidInterval,
	models.ErrMissingVehicle,
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

// readJSON decodes a bounded request body into v, answering 400 itself when
// it cannot.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// currentUser returns the authenticated user's claims, answering 401 when
// the request carries none.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

// writeError maps service and collection errors to status codes.
func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	log.WithFields(log.Fields{
		"path":       r.URL.Path,
		"request_id": middleware.GetRequestID(r.Context()),
	}).WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
