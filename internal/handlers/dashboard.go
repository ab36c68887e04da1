package handlers

import (
	"net/http"
	"time"

	"github.com/ukydev/tanque-cheio/internal/service"
)

// DashboardHandler serves the dashboard and the monthly report.
type DashboardHandler struct {
	service *service.DashboardService
	now     func() time.Time
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc, now: time.Now}
}

// Dashboard handles GET /api/dashboard[?vehicle_id=].
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	dashboard, err := h.service.Dashboard(r.Context(), claims.UserID, r.URL.Query().Get("vehicle_id"))
	if err != nil {
		writeError(w, r, "Failed to load dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// Report handles GET /api/reports?month=YYYY-MM[&vehicle_id=]. The month
// defaults to the current one.
func (h *DashboardHandler) Report(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	month := h.now()
	if param := r.URL.Query().Get("month"); param != "" {
		parsed, err := time.ParseInLocation("2006-01", param, month.Location())
		if err != nil {
			http.Error(w, "month must be formatted as YYYY-MM", http.StatusBadRequest)
			return
		}
		month = parsed
	}

	report, err := h.service.Report(r.Context(), claims.UserID, r.URL.Query().Get("vehicle_id"), month)
	if err != nil {
		writeError(w, r, "Failed to load report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
