package models

import (
	"strings"
	"time"
)

// User represents an account holder
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Email        string     `bson:"email" json:"email"`
	DisplayName  string     `bson:"display_name" json:"display_name"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

// NormalizeEmail lowercases and trims an address so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Initial returns the first letter of the display name, used as avatar fallback.
func (u *User) Initial() string {
	name := strings.TrimSpace(u.DisplayName)
	if name == "" {
		name = u.Email
	}
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// ExportSettings mirrors the preferences shipped with a data export.
type ExportSettings struct {
	Theme         string               `json:"theme"`
	Notifications NotificationSettings `json:"notifications"`
}

// NotificationSettings holds the notification toggles.
type NotificationSettings struct {
	Maintenance bool `json:"maintenance"`
	Marketing   bool `json:"marketing"`
}

// DataExport is the downloadable bundle of everything stored for a user.
type DataExport struct {
	Profile  User               `json:"profile"`
	Vehicles []Vehicle          `json:"vehicles"`
	FillUps  []FillUp           `json:"fill_ups"`
	Alerts   []MaintenanceAlert `json:"alerts"`
	Settings ExportSettings     `json:"settings"`
}

// DefaultExportSettings are the settings every account starts with.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Theme: "system",
		Notifications: NotificationSettings{
			Maintenance: true,
			Marketing:   false,
		},
	}
}
