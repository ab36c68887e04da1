package handlers

import "net/http"

// Routes groups the handlers mounted by NewMux.
type Routes struct {
	Auth      *AuthHandler
	Vehicles  *VehicleHandler
	Dashboard *DashboardHandler
	Alerts    *AlertHandler
	Metrics   http.Handler
}

// NewMux registers every endpoint. Authentication is applied around the
// returned mux by the caller.
func NewMux(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("GET /api/profile", rt.Auth.GetProfile)
	mux.HandleFunc("PUT /api/profile", rt.Auth.UpdateProfile)
	mux.HandleFunc("POST /api/profile/password", rt.Auth.ChangePassword)
	mux.HandleFunc("GET /api/profile/export", rt.Auth.ExportData)

	mux.HandleFunc("GET /api/vehicles", rt.Vehicles.List)
	mux.HandleFunc("POST /api/vehicles", rt.Vehicles.Create)
	mux.HandleFunc("GET /api/vehicles/{id}", rt.Vehicles.Get)
	mux.HandleFunc("DELETE /api/vehicles/{id}", rt.Vehicles.Delete)
	mux.HandleFunc("POST /api/vehicles/{id}/primary", rt.Vehicles.SetPrimary)
	mux.HandleFunc("GET /api/vehicles/{id}/fillups", rt.Vehicles.ListFillUps)
	mux.HandleFunc("POST /api/vehicles/{id}/fillups", rt.Vehicles.CreateFillUp)

	mux.HandleFunc("GET /api/dashboard", rt.Dashboard.Dashboard)
	mux.HandleFunc("GET /api/reports", rt.Dashboard.Report)

	mux.HandleFunc("GET /api/alerts", rt.Alerts.List)
	mux.HandleFunc("POST /api/alerts", rt.Alerts.Create)
	mux.HandleFunc("DELETE /api/alerts/{id}", rt.Alerts.Delete)
	mux.HandleFunc("GET /api/alerts/{id}/message", rt.Alerts.Message)

	return mux
}
