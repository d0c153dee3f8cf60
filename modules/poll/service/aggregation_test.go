package service

import (
	"encoding/json"
	"testing"
	"time"

	"quickpoll/core/constants"
	availentity "quickpoll/modules/availability/entity"
	availsvc "quickpoll/modules/availability/service"
	"quickpoll/modules/poll/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustWindow(t *testing.T, month, timezone string) availentity.MonthWindow {
	t.Helper()
	window, appErr := availsvc.NewMonthWindowFromISO(month, timezone)
	require.Nil(t, appErr)
	return window
}

func encodeSlots(t *testing.T, slots []availentity.AvailabilitySlot) string {
	t.Helper()
	raw, err := json.Marshal(slots)
	require.NoError(t, err)
	return string(raw)
}

func mondaySlot(start, end string) availentity.AvailabilitySlot {
	return availentity.AvailabilitySlot{
		Weekday: 1,
		Ranges:  []availentity.TimeRange{{Start: start, End: end}},
	}
}

func participant(name string, address string, slots []availentity.AvailabilitySlot, t *testing.T) entity.Participant {
	p := entity.Participant{
		ID:     uuid.New(),
		Name:   name,
		Type:   entity.ParticipantTypeInvitee,
		Status: entity.ParticipantStatusAccepted,
	}
	if address != "" {
		p.AccountAddress = strPtr(address)
	}
	if slots != nil {
		p.AvailableSlots = encodeSlots(t, slots)
	}
	return p
}

func TestParticipantAvailabilities_ExpandsStoredSlots(t *testing.T) {
	window := mustWindow(t, "2024-01", "UTC")

	p := participant("Alice", "alice@example.com", []availentity.AvailabilitySlot{mondaySlot("09:00", "17:00")}, t)

	result, appErr := ParticipantAvailabilities([]entity.Participant{p}, nil, window, "UTC")
	require.Nil(t, appErr)

	intervals := result["alice@example.com"]
	require.Len(t, intervals, 5, "January 2024 has five Mondays")
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2024, 1, 29, 17, 0, 0, 0, time.UTC), intervals[4].End)
}

func TestParticipantAvailabilities_NoSlotsMeansEmpty(t *testing.T) {
	window := mustWindow(t, "2024-01", "UTC")

	p := participant("Quiet", "quiet@example.com", nil, t)

	result, appErr := ParticipantAvailabilities([]entity.Participant{p}, nil, window, "UTC")
	require.Nil(t, appErr)
	assert.Empty(t, result["quiet@example.com"])
}

func TestParticipantAvailabilities_HintsReplaceStoredSlots(t *testing.T) {
	window := mustWindow(t, "2024-01", "UTC")

	p := participant("Alice", "alice@example.com", []availentity.AvailabilitySlot{mondaySlot("09:00", "17:00")}, t)

	hinted := availentity.Interval{
		Start: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	hints := map[string][]availentity.Interval{
		"alice@example.com": {hinted},
	}

	result, appErr := ParticipantAvailabilities([]entity.Participant{p}, hints, window, "UTC")
	require.Nil(t, appErr)
	assert.Equal(t, []availentity.Interval{hinted}, result["alice@example.com"])
}

func TestParticipantAvailabilities_RemovalOverridesApply(t *testing.T) {
	window := mustWindow(t, "2024-01", "UTC")

	slots := []availentity.AvailabilitySlot{
		{
			Weekday: 1,
			Ranges:  []availentity.TimeRange{{Start: "09:00", End: "17:00"}},
		},
		{
			Date:   "2024-01-15",
			Ranges: nil,
			Overrides: &availentity.Overrides{
				Removals: []availentity.TimeRange{{Start: "09:00", End: "17:00"}},
			},
		},
	}
	p := participant("Alice", "alice@example.com", slots, t)

	result, appErr := ParticipantAvailabilities([]entity.Participant{p}, nil, window, "UTC")
	require.Nil(t, appErr)

	intervals := result["alice@example.com"]
	require.Len(t, intervals, 4, "the Jan 15 Monday is removed")
	for _, iv := range intervals {
		assert.NotEqual(t, 15, iv.Start.Day())
	}
}

func TestParticipantAvailabilities_DuplicateIdentityKeepsFirst(t *testing.T) {
	window := mustWindow(t, "2024-01", "UTC")

	first := participant("Alice", "Alice@Example.com", []availentity.AvailabilitySlot{mondaySlot("09:00", "10:00")}, t)
	second := participant("Alice again", "alice@example.com", []availentity.AvailabilitySlot{mondaySlot("14:00", "15:00")}, t)

	result, appErr := ParticipantAvailabilities([]entity.Participant{first, second}, nil, window, "UTC")
	require.Nil(t, appErr)

	require.Len(t, result, 1)
	intervals := result["alice@example.com"]
	require.NotEmpty(t, intervals)
	assert.Equal(t, 9, intervals[0].Start.Hour(), "first participant's schedule wins")
}

func TestVisibleParticipants(t *testing.T) {
	host := entity.Participant{
		ID:             uuid.New(),
		Name:           "Host",
		AccountAddress: strPtr("host@example.com"),
		Type:           entity.ParticipantTypeScheduler,
	}
	alice := entity.Participant{
		ID:             uuid.New(),
		Name:           "Alice",
		AccountAddress: strPtr("alice@example.com"),
		Type:           entity.ParticipantTypeInvitee,
	}
	bob := entity.Participant{
		ID:         uuid.New(),
		Name:       "Bob",
		GuestEmail: strPtr("bob@example.com"),
		Type:       entity.ParticipantTypeInvitee,
	}
	participants := []entity.Participant{host, alice, bob}

	restricted := &entity.Poll{ID: uuid.New(), Permissions: 0}
	open := &entity.Poll{ID: uuid.New(), Permissions: constants.PermSeeGuestList}

	t.Run("host sees everyone even without the permission", func(t *testing.T) {
		visible := VisibleParticipants(restricted, participants, Viewer{AccountAddress: "HOST@example.com"})
		assert.Len(t, visible, 3)
	})

	t.Run("invitee sees only host and self on a restricted poll", func(t *testing.T) {
		visible := VisibleParticipants(restricted, participants, Viewer{AccountAddress: "alice@example.com"})
		require.Len(t, visible, 2)
		assert.Equal(t, "Host", visible[0].Name)
		assert.Equal(t, "Alice", visible[1].Name)
	})

	t.Run("guest identified by email sees host and self", func(t *testing.T) {
		visible := VisibleParticipants(restricted, participants, Viewer{GuestEmail: "bob@example.com"})
		require.Len(t, visible, 2)
		assert.Equal(t, "Bob", visible[1].Name)
	})

	t.Run("guest identified by participant id sees host and self", func(t *testing.T) {
		id := bob.ID
		visible := VisibleParticipants(restricted, participants, Viewer{ParticipantID: &id})
		require.Len(t, visible, 2)
		assert.Equal(t, "Bob", visible[1].Name)
	})

	t.Run("anonymous viewer sees only the host", func(t *testing.T) {
		visible := VisibleParticipants(restricted, participants, Viewer{})
		require.Len(t, visible, 1)
		assert.Equal(t, "Host", visible[0].Name)
	})

	t.Run("see_guest_list exposes everyone to anyone", func(t *testing.T) {
		visible := VisibleParticipants(open, participants, Viewer{})
		assert.Len(t, visible, 3)
	})
}
