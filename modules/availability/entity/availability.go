package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeRange is a wall-clock range within one day, "HH:MM" 24h format,
// timezone-agnostic until anchored to a date.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overrides records where a participant's live selection diverges from the
// base schedule. A nil *Overrides on a slot means "no override"; an empty
// struct means "explicitly cleared".
type Overrides struct {
	Additions []TimeRange `json:"additions,omitempty"`
	Removals  []TimeRange `json:"removals,omitempty"`
}

// AvailabilitySlot is the persisted unit of a schedule. When Date is set the
// slot applies to that calendar date only; otherwise it recurs on every
// matching Weekday (0=Sunday). Empty Ranges means the day is fully
// unavailable.
type AvailabilitySlot struct {
	Weekday   int         `json:"weekday"`
	Date      string      `json:"date,omitempty"` // "2006-01-02"
	Ranges    []TimeRange `json:"ranges"`
	Overrides *Overrides  `json:"overrides,omitempty"`
}

// Interval is a timezone-aware [start,end) instant pair, the common currency
// of all availability algebra.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SelectedSlot is one block picked directly in the UI; transient, never
// persisted as-is.
type SelectedSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Date  string    `json:"date"` // "2006-01-02" in the selection timezone
}

// MonthWindow bounds all recurring expansion so output stays finite.
// Half-open: [Start, End).
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// AvailabilityBlock is a stored weekly schedule (availability_blocks table).
// WeeklyAvailability holds a JSON-encoded []AvailabilitySlot.
type AvailabilityBlock struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	OwnerID            uuid.UUID `db:"owner_id" json:"owner_id"`
	Title              string    `db:"title" json:"title"`
	Timezone           string    `db:"timezone" json:"timezone"`
	WeeklyAvailability string    `db:"weekly_availability" json:"weekly_availability"` // JSONB as string
	IsDefault          bool      `db:"is_default" json:"is_default"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
