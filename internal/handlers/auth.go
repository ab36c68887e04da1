package handlers

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/auth"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/models"
	"golang.org/x/sync/errgroup"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
	vehicles       db.VehicleCollection
	fillUps        db.FillUpCollection
	alerts         db.AlertCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection, vehicles db.VehicleCollection, fillUps db.FillUpCollection, alerts db.AlertCollection) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
		vehicles:       vehicles,
		fillUps:        fillUps,
		alerts:         alerts,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if !readJSON(w, r, &loginReq) {
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByEmail(r.Context(), models.NormalizeEmail(loginReq.Email))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		writeError(w, r, "Failed to look up user", err)
		return
	}

	switch err := h.authService.Authenticate(user, loginReq.Password); {
	case errors.Is(err, auth.ErrUserInactive):
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	case err != nil:
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.userCollection.UpdateLastLogin(r.Context(), user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	}

	h.respondWithTokens(w, http.StatusOK, user)
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq models.RegisterRequest
	if !readJSON(w, r, &registerReq) {
		return
	}
	registerReq.Email = models.NormalizeEmail(registerReq.Email)

	if err := h.authService.ValidateEmail(registerReq.Email); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(registerReq.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidateDisplayName(registerReq.DisplayName); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.userCollection.FindUserByEmail(r.Context(), registerReq.Email)
	if err == nil {
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		writeError(w, r, "Failed to look up user", err)
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		writeError(w, r, "Failed to hash password", err)
		return
	}

	user := models.User{
		Email:        registerReq.Email,
		DisplayName:  strings.TrimSpace(registerReq.DisplayName),
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	id, err := h.userCollection.InsertUser(r.Context(), user)
	if errors.Is(err, db.ErrDuplicateEmail) {
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		writeError(w, r, "Failed to create user", err)
		return
	}
	user.ID = id

	h.respondWithTokens(w, http.StatusCreated, &user)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, status int, user *models.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		http.Error(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, status, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, "Failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the current user's display name and phone
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	var updateReq models.UpdateProfileRequest
	if !readJSON(w, r, &updateReq) {
		return
	}

	if err := h.authService.ValidateDisplayName(updateReq.DisplayName); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.userCollection.UpdateProfile(r.Context(), claims.UserID,
		strings.TrimSpace(updateReq.DisplayName), strings.TrimSpace(updateReq.Phone))
	if err != nil {
		writeError(w, r, "Failed to update user", err)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, "Failed to load profile", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	var passwordReq struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !readJSON(w, r, &passwordReq) {
		return
	}

	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		http.Error(w, "Current password and new password are required", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidatePassword(passwordReq.NewPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, "Failed to load profile", err)
		return
	}

	if !h.authService.CheckPassword(passwordReq.CurrentPassword, user.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	newPasswordHash, err := h.authService.HashPassword(passwordReq.NewPassword)
	if err != nil {
		writeError(w, r, "Failed to hash password", err)
		return
	}

	if err := h.userCollection.UpdatePassword(r.Context(), claims.UserID, newPasswordHash); err != nil {
		writeError(w, r, "Failed to update password", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// ExportData downloads everything stored for the current user as one JSON
// document.
func (h *AuthHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	export := models.DataExport{Settings: models.DefaultExportSettings()}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		user, err := h.userCollection.FindUserByID(ctx, claims.UserID)
		if err != nil {
			return err
		}
		export.Profile = *user
		return nil
	})
	g.Go(func() error {
		vehicles, err := h.vehicles.FindVehicles(ctx, claims.UserID)
		export.Vehicles = vehicles
		return err
	})
	g.Go(func() error {
		fillUps, err := h.fillUps.FindUserFillUps(ctx, claims.UserID)
		export.FillUps = fillUps
		return err
	})
	g.Go(func() error {
		alerts, err := h.alerts.FindAlerts(ctx, claims.UserID)
		export.Alerts = alerts
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, "Failed to export data", err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="tanque-cheio-export.json"`)
	writeJSON(w, http.StatusOK, export)
}
