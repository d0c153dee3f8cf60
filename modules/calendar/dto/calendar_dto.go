package dto

import "time"

// ConnectGoogleRequest saves tokens obtained by the frontend OAuth flow
type ConnectGoogleRequest struct {
	AccessToken   string    `json:"access_token" validate:"required"`
	RefreshToken  string    `json:"refresh_token" validate:"required"`
	ExpiresAt     time.Time `json:"expires_at"`
	CalendarEmail string    `json:"calendar_email" validate:"required"`
}

// ConnectionResponse for listing a user's calendar connections
type ConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}
