package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one inbox row for a poll participant (notifications
// table). Recipient is the participant identity key, not a user id, so
// guest-email participants receive notifications too.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PollID    uuid.UUID `db:"poll_id" json:"poll_id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
