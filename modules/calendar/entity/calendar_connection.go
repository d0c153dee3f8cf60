package entity

import (
	"time"

	"github.com/google/uuid"
)

const ProviderGoogle = "google"

// CalendarConnection stores a user's calendar provider tokens
// (calendar_connections table).
type CalendarConnection struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Provider       string    `db:"provider" json:"provider"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
