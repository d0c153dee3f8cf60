package dto

import (
	availentity "quickpoll/modules/availability/entity"
)

// OwnerAvailabilityResponse is the public booking page payload: the owner's
// open time for one month, already merged and busy-subtracted.
type OwnerAvailabilityResponse struct {
	OwnerID   string                  `json:"owner_id"`
	Month     string                  `json:"month"`
	Timezone  string                  `json:"timezone"`
	Intervals []availentity.Interval  `json:"intervals"`
}
