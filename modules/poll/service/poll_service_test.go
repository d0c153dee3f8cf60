package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quickpoll/core/errors"
	availentity "quickpoll/modules/availability/entity"
	notifentity "quickpoll/modules/notification/entity"
	notifservice "quickpoll/modules/notification/service"
	"quickpoll/modules/poll/dto"
	"quickpoll/modules/poll/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePollRepo is an in-memory PollRepositoryInterface.
type fakePollRepo struct {
	polls        map[uuid.UUID]*entity.Poll
	participants map[uuid.UUID]*entity.Participant
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{
		polls:        make(map[uuid.UUID]*entity.Poll),
		participants: make(map[uuid.UUID]*entity.Participant),
	}
}

func (f *fakePollRepo) CreatePoll(_ context.Context, poll *entity.Poll) (*entity.Poll, error) {
	clone := *poll
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	f.polls[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakePollRepo) GetPollByID(_ context.Context, id uuid.UUID) (*entity.Poll, error) {
	if p, ok := f.polls[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (f *fakePollRepo) GetPollBySlug(_ context.Context, slug string) (*entity.Poll, error) {
	for _, p := range f.polls {
		if p.Slug == slug {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakePollRepo) GetPollsByHostID(_ context.Context, hostID uuid.UUID) ([]entity.Poll, error) {
	var result []entity.Poll
	for _, p := range f.polls {
		if p.HostID == hostID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePollRepo) UpdatePoll(_ context.Context, poll *entity.Poll) error {
	clone := *poll
	f.polls[poll.ID] = &clone
	return nil
}

func (f *fakePollRepo) DeletePoll(_ context.Context, id uuid.UUID) error {
	delete(f.polls, id)
	return nil
}

func (f *fakePollRepo) AddParticipant(_ context.Context, participant *entity.Participant) (*entity.Participant, error) {
	clone := *participant
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	f.participants[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakePollRepo) GetParticipantByID(_ context.Context, id uuid.UUID) (*entity.Participant, error) {
	if p, ok := f.participants[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (f *fakePollRepo) GetParticipantsByPollID(_ context.Context, pollID uuid.UUID) ([]entity.Participant, error) {
	var result []entity.Participant
	for _, p := range f.participants {
		if p.PollID == pollID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePollRepo) UpdateParticipant(_ context.Context, participant *entity.Participant) error {
	clone := *participant
	f.participants[participant.ID] = &clone
	return nil
}

func (f *fakePollRepo) RemoveParticipant(_ context.Context, id uuid.UUID) error {
	delete(f.participants, id)
	return nil
}

// fakeNotifier records enqueued payloads.
type fakeNotifier struct {
	payloads []notifservice.PollNotifyPayload
}

func (f *fakeNotifier) EnqueuePollUpdated(_ context.Context, payload notifservice.PollNotifyPayload) {
	f.payloads = append(f.payloads, payload)
}

func (f *fakeNotifier) GetNotifications(context.Context, string) ([]notifentity.Notification, *errors.AppError) {
	return nil, nil
}

func (f *fakeNotifier) MarkAsRead(context.Context, uuid.UUID, string) *errors.AppError {
	return nil
}

func (f *fakeNotifier) HandlePollNotifyTask(context.Context, *asynq.Task) error {
	return nil
}

func newTestService(t *testing.T) (*fakePollRepo, *fakeNotifier, PollServiceInterface) {
	t.Helper()
	repo := newFakePollRepo()
	notifier := &fakeNotifier{}
	return repo, notifier, NewPollService(repo, nil, notifier)
}

func createTestPoll(t *testing.T, svc PollServiceInterface, seeGuestList bool) *dto.PollResponse {
	t.Helper()
	resp, appErr := svc.CreatePoll(context.Background(), uuid.New(), "host@example.com", &dto.CreatePollRequest{
		Title:        "Team weekly sync",
		Timezone:     "UTC",
		SeeGuestList: seeGuestList,
	})
	require.Nil(t, appErr)
	return resp
}

func TestCreatePoll(t *testing.T) {
	_, _, svc := newTestService(t)

	resp := createTestPoll(t, svc, false)
	assert.Regexp(t, `^team-weekly-sync-[a-z0-9]{4}$`, resp.Slug)
	assert.Equal(t, string(entity.PollStatusActive), resp.Status)
	require.Len(t, resp.Participants, 1, "the host joins as scheduler on create")
	assert.Equal(t, string(entity.ParticipantTypeScheduler), resp.Participants[0].Type)
	assert.Equal(t, "host@example.com", resp.Participants[0].AccountAddress)
}

func TestCreatePoll_UnknownTimezone(t *testing.T) {
	_, _, svc := newTestService(t)

	_, appErr := svc.CreatePoll(context.Background(), uuid.New(), "host@example.com", &dto.CreatePollRequest{
		Title:    "Broken",
		Timezone: "Mars/Olympus_Mons",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConfiguration, appErr.Code)
}

func TestJoinPoll_DeduplicatesByIdentity(t *testing.T) {
	_, _, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	first, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name:       "Alice",
		GuestEmail: "alice@example.com",
	})
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.ParticipantStatusPending), first.Status)

	_, appErr = svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name:       "Alice again",
		GuestEmail: "ALICE@example.com",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
}

func TestJoinPoll_RequiresAnIdentity(t *testing.T) {
	_, _, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	_, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{Name: "Ghost"})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetPollBySlug_VisibilityFiltering(t *testing.T) {
	_, _, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	_, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Alice", GuestEmail: "alice@example.com",
	})
	require.Nil(t, appErr)
	_, appErr = svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Bob", GuestEmail: "bob@example.com",
	})
	require.Nil(t, appErr)

	hostView, appErr := svc.GetPollBySlug(context.Background(), poll.Slug, Viewer{AccountAddress: "host@example.com"})
	require.Nil(t, appErr)
	assert.Len(t, hostView.Participants, 3)

	bobView, appErr := svc.GetPollBySlug(context.Background(), poll.Slug, Viewer{GuestEmail: "bob@example.com"})
	require.Nil(t, appErr)
	require.Len(t, bobView.Participants, 2)
	names := []string{bobView.Participants[0].Name, bobView.Participants[1].Name}
	assert.NotContains(t, names, "Alice")
}

func TestSaveParticipantSelections_ReconcilesAgainstRecurringBase(t *testing.T) {
	repo, notifier, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	joined, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Alice", GuestEmail: "alice@example.com",
	})
	require.Nil(t, appErr)

	participantID := uuid.MustParse(joined.ID)

	// Seed a recurring Monday 09:00-17:00 schedule.
	stored := repo.participants[participantID]
	recurring := []availentity.AvailabilitySlot{{
		Weekday: 1,
		Ranges:  []availentity.TimeRange{{Start: "09:00", End: "17:00"}},
	}}
	raw, err := json.Marshal(recurring)
	require.NoError(t, err)
	stored.AvailableSlots = string(raw)

	// Re-select every January Monday except the 15th.
	var selections []dto.SelectedSlotDTO
	for _, day := range []int{1, 8, 22, 29} {
		d := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		selections = append(selections, dto.SelectedSlotDTO{
			Start: d.Add(9 * time.Hour),
			End:   d.Add(17 * time.Hour),
			Date:  d.Format("2006-01-02"),
		})
	}

	resp, appErr := svc.SaveParticipantSelections(context.Background(), poll.Slug, participantID, &dto.SaveSelectionsRequest{
		Month:      "2024-01",
		Timezone:   "UTC",
		Selections: selections,
	})
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.ParticipantStatusAccepted), resp.Status)

	// Recurring pattern kept, one dated slot per touched Monday.
	require.Len(t, resp.AvailableSlots, 6)
	assert.Equal(t, 1, resp.AvailableSlots[0].Weekday)
	assert.Empty(t, resp.AvailableSlots[0].Date)

	var removedDay *availentity.AvailabilitySlot
	for i := range resp.AvailableSlots {
		slot := &resp.AvailableSlots[i]
		if slot.Date == "2024-01-15" {
			removedDay = slot
		} else if slot.Date != "" {
			assert.Nil(t, slot.Overrides, "re-selected days carry no diff")
		}
	}
	require.NotNil(t, removedDay)
	require.NotNil(t, removedDay.Overrides)
	assert.Equal(t, []availentity.TimeRange{{Start: "09:00", End: "17:00"}}, removedDay.Overrides.Removals)
	assert.Empty(t, removedDay.Ranges)

	// Everyone but the actor gets notified.
	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, "Alice", notifier.payloads[0].ActorName)
	assert.Equal(t, []string{"host@example.com"}, notifier.payloads[0].Recipients)
}

func TestSaveParticipantSelections_RejectsOutOfWindowPicks(t *testing.T) {
	_, _, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	joined, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Alice", GuestEmail: "alice@example.com",
	})
	require.Nil(t, appErr)

	_, appErr = svc.SaveParticipantSelections(context.Background(), poll.Slug, uuid.MustParse(joined.ID), &dto.SaveSelectionsRequest{
		Month: "2024-01",
		Selections: []dto.SelectedSlotDTO{{
			Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC),
		}},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetAvailabilityMap_FiltersToVisibleParticipants(t *testing.T) {
	repo, _, svc := newTestService(t)
	poll := createTestPoll(t, svc, false)

	aliceResp, appErr := svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Alice", GuestEmail: "alice@example.com",
	})
	require.Nil(t, appErr)
	_, appErr = svc.JoinPoll(context.Background(), poll.Slug, &dto.JoinPollRequest{
		Name: "Bob", GuestEmail: "bob@example.com",
	})
	require.Nil(t, appErr)

	// Give Alice a schedule so her map entry is non-empty.
	alice := repo.participants[uuid.MustParse(aliceResp.ID)]
	raw, err := json.Marshal([]availentity.AvailabilitySlot{{
		Weekday: 1,
		Ranges:  []availentity.TimeRange{{Start: "09:00", End: "17:00"}},
	}})
	require.NoError(t, err)
	alice.AvailableSlots = string(raw)

	aliceView, appErr := svc.GetAvailabilityMap(context.Background(), poll.Slug, "2024-01", "", Viewer{GuestEmail: "alice@example.com"})
	require.Nil(t, appErr)
	assert.Equal(t, "UTC", aliceView.Timezone, "falls back to the poll timezone")
	assert.Contains(t, aliceView.Availabilities, "alice@example.com")
	assert.NotContains(t, aliceView.Availabilities, "bob@example.com")
	assert.Len(t, aliceView.Availabilities["alice@example.com"], 5)

	hostView, appErr := svc.GetAvailabilityMap(context.Background(), poll.Slug, "2024-01", "", Viewer{AccountAddress: "host@example.com"})
	require.Nil(t, appErr)
	assert.Contains(t, hostView.Availabilities, "alice@example.com")
	assert.Contains(t, hostView.Availabilities, "bob@example.com")
}
