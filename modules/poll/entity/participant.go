package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParticipantType distinguishes the poll creator from invitees
type ParticipantType string

const (
	ParticipantTypeScheduler ParticipantType = "scheduler"
	ParticipantTypeOwner     ParticipantType = "owner"
	ParticipantTypeInvitee   ParticipantType = "invitee"
)

// ParticipantStatus represents the response state of a participant
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusAccepted ParticipantStatus = "accepted"
	ParticipantStatusDeclined ParticipantStatus = "declined"
)

// Participant is one respondent of a poll (poll_participants table).
// AvailableSlots holds a JSON-encoded []availability.AvailabilitySlot.
type Participant struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	PollID         uuid.UUID         `db:"poll_id" json:"poll_id"`
	Name           string            `db:"name" json:"name"`
	AccountAddress *string           `db:"account_address" json:"account_address,omitempty"`
	GuestEmail     *string           `db:"guest_email" json:"guest_email,omitempty"`
	Type           ParticipantType   `db:"participant_type" json:"participant_type"`
	Status         ParticipantStatus `db:"status" json:"status"`
	Timezone       *string           `db:"timezone" json:"timezone,omitempty"`
	AvailableSlots string            `db:"available_slots" json:"available_slots"` // JSONB as string
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// Key returns the participant's stable identity: lowercased account address,
// else lowercased guest email, else the row id. Used as the aggregation map
// key and for de-duplication.
func (p *Participant) Key() string {
	if p.AccountAddress != nil && *p.AccountAddress != "" {
		return strings.ToLower(*p.AccountAddress)
	}
	if p.GuestEmail != nil && *p.GuestEmail != "" {
		return strings.ToLower(*p.GuestEmail)
	}
	return p.ID.String()
}
