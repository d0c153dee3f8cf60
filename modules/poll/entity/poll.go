package entity

import (
	"time"

	"github.com/google/uuid"
)

// PollStatus represents the lifecycle state of a poll
type PollStatus string

const (
	PollStatusActive    PollStatus = "active"
	PollStatusScheduled PollStatus = "scheduled"
	PollStatusCancelled PollStatus = "cancelled"
)

// Poll is a group scheduling poll (polls table). Permissions is a bitmask,
// see core/constants.
type Poll struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	HostID      uuid.UUID  `db:"host_id" json:"host_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Timezone    string     `db:"timezone" json:"timezone"`
	Permissions int64      `db:"permissions" json:"permissions"`
	Status      PollStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
