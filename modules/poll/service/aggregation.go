package service

import (
	"encoding/json"
	"strings"

	"quickpoll/core/constants"
	"quickpoll/core/errors"
	availentity "quickpoll/modules/availability/entity"
	availsvc "quickpoll/modules/availability/service"
	"quickpoll/modules/poll/entity"

	"github.com/google/uuid"
)

// Viewer identifies who is looking at a poll; all fields optional.
type Viewer struct {
	AccountAddress string
	GuestEmail     string
	ParticipantID  *uuid.UUID
}

// decodeSlots unpacks a participant's stored JSON schedule.
func decodeSlots(p *entity.Participant) ([]availentity.AvailabilitySlot, *errors.AppError) {
	if p.AvailableSlots == "" {
		return nil, nil
	}
	var slots []availentity.AvailabilitySlot
	if err := json.Unmarshal([]byte(p.AvailableSlots), &slots); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to decode participant schedule", err)
	}
	return slots, nil
}

// ParticipantAvailabilities computes every participant's effective month
// availability and folds it into a "who is free when" map keyed by
// participant identity. Hints supply precomputed default intervals per key
// (group schedules); when present for a key they stand in for that
// participant's stored slots. Duplicate identities keep the first
// participant's schedule.
func ParticipantAvailabilities(
	participants []entity.Participant,
	hints map[string][]availentity.Interval,
	window availentity.MonthWindow,
	timezone string,
) (map[string][]availentity.Interval, *errors.AppError) {

	result := make(map[string][]availentity.Interval, len(participants))
	windowBounds := []availentity.Interval{{Start: window.Start, End: window.End}}

	for i := range participants {
		p := &participants[i]
		key := p.Key()
		if _, seen := result[key]; seen {
			continue
		}

		slots, appErr := decodeSlots(p)
		if appErr != nil {
			return nil, appErr
		}

		slotTimezone := timezone
		if p.Timezone != nil && *p.Timezone != "" {
			slotTimezone = *p.Timezone
		}

		var base []availentity.Interval
		if defaults := hints[key]; len(defaults) > 0 {
			base = defaults
		} else {
			for _, slot := range slots {
				expanded, appErr := availsvc.SlotIntervals(slot, window, slotTimezone, timezone)
				if appErr != nil {
					return nil, appErr
				}
				base = append(base, expanded...)
			}
		}

		overrides, appErr := availsvc.ExtractOverrideIntervals(slots, window, slotTimezone, timezone)
		if appErr != nil {
			return nil, appErr
		}

		effective := availsvc.ApplyOverrides(base, overrides)
		result[key] = availsvc.ClipToBounds(effective, windowBounds)
	}
	return result, nil
}

// VisibleParticipants filters the participant list by viewer permission: the
// host and polls granting SEE_GUEST_LIST expose everyone; any other viewer
// sees only the host and themself.
func VisibleParticipants(poll *entity.Poll, participants []entity.Participant, viewer Viewer) []entity.Participant {
	if isHost(participants, viewer) || poll.Permissions&constants.PermSeeGuestList != 0 {
		return participants
	}

	visible := make([]entity.Participant, 0, 2)
	for _, p := range participants {
		if p.Type == entity.ParticipantTypeScheduler || isSelf(&p, viewer) {
			visible = append(visible, p)
		}
	}
	return visible
}

func isHost(participants []entity.Participant, viewer Viewer) bool {
	if viewer.AccountAddress == "" {
		return false
	}
	for _, p := range participants {
		if p.Type != entity.ParticipantTypeScheduler {
			continue
		}
		if p.AccountAddress != nil && strings.EqualFold(*p.AccountAddress, viewer.AccountAddress) {
			return true
		}
	}
	return false
}

func isSelf(p *entity.Participant, viewer Viewer) bool {
	if viewer.ParticipantID != nil && p.ID == *viewer.ParticipantID {
		return true
	}
	if viewer.AccountAddress != "" && p.AccountAddress != nil &&
		strings.EqualFold(*p.AccountAddress, viewer.AccountAddress) {
		return true
	}
	if viewer.GuestEmail != "" && p.GuestEmail != nil &&
		strings.EqualFold(*p.GuestEmail, viewer.GuestEmail) {
		return true
	}
	return false
}
