package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quickpoll/core/cache"
	"quickpoll/core/constants"
	"quickpoll/core/errors"
	"quickpoll/core/logger"
	"quickpoll/core/utils"
	availentity "quickpoll/modules/availability/entity"
	availsvc "quickpoll/modules/availability/service"
	notifservice "quickpoll/modules/notification/service"
	"quickpoll/modules/poll/dto"
	"quickpoll/modules/poll/entity"
	"quickpoll/modules/poll/repository"

	"github.com/google/uuid"
)

const availabilityCacheTTL = 10 * time.Minute

// PollService handles poll business logic
type PollService struct {
	repo         repository.PollRepositoryInterface
	cache        *cache.Cache
	notifService notifservice.NotificationServiceInterface
}

// PollServiceInterface defines the service contract
type PollServiceInterface interface {
	CreatePoll(ctx context.Context, hostID uuid.UUID, hostAddress string, req *dto.CreatePollRequest) (*dto.PollResponse, *errors.AppError)
	GetPollBySlug(ctx context.Context, slug string, viewer Viewer) (*dto.PollResponse, *errors.AppError)
	GetMyPolls(ctx context.Context, hostID uuid.UUID) ([]dto.PollResponse, *errors.AppError)
	UpdatePoll(ctx context.Context, pollID, hostID uuid.UUID, req *dto.UpdatePollRequest) (*dto.PollResponse, *errors.AppError)
	DeletePoll(ctx context.Context, pollID, hostID uuid.UUID) *errors.AppError
	JoinPoll(ctx context.Context, slug string, req *dto.JoinPollRequest) (*dto.ParticipantResponse, *errors.AppError)
	GetAvailabilityMap(ctx context.Context, slug, month, timezone string, viewer Viewer) (*dto.AvailabilityMapResponse, *errors.AppError)
	SaveParticipantSelections(ctx context.Context, slug string, participantID uuid.UUID, req *dto.SaveSelectionsRequest) (*dto.ParticipantResponse, *errors.AppError)
}

func NewPollService(
	repo repository.PollRepositoryInterface,
	c *cache.Cache,
	notifService notifservice.NotificationServiceInterface,
) PollServiceInterface {
	return &PollService{
		repo:         repo,
		cache:        c,
		notifService: notifService,
	}
}

// CreatePoll creates a poll together with its Scheduler participant.
func (s *PollService) CreatePoll(ctx context.Context, hostID uuid.UUID, hostAddress string, req *dto.CreatePollRequest) (*dto.PollResponse, *errors.AppError) {
	if appErr := availsvc.ValidateTimezone(req.Timezone); appErr != nil {
		return nil, appErr
	}

	var permissions int64
	if req.SeeGuestList {
		permissions |= constants.PermSeeGuestList
	}

	poll := &entity.Poll{
		Slug:        utils.PollSlug(req.Title),
		HostID:      hostID,
		Title:       req.Title,
		Timezone:    req.Timezone,
		Permissions: permissions,
		Status:      entity.PollStatusActive,
	}
	if req.Description != "" {
		poll.Description = &req.Description
	}

	created, err := s.repo.CreatePoll(ctx, poll)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create poll", err)
	}

	scheduler := &entity.Participant{
		PollID:         created.ID,
		Name:           "Host",
		AccountAddress: &hostAddress,
		Type:           entity.ParticipantTypeScheduler,
		Status:         entity.ParticipantStatusAccepted,
		Timezone:       &created.Timezone,
		AvailableSlots: "[]",
	}
	if _, err := s.repo.AddParticipant(ctx, scheduler); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add poll host", err)
	}

	logger.Info("PollService:CreatePoll:Success", "poll_id", created.ID, "slug", created.Slug)
	return s.toPollResponse(ctx, created, Viewer{AccountAddress: hostAddress})
}

// GetPollBySlug retrieves a poll with its visibility-filtered participants.
func (s *PollService) GetPollBySlug(ctx context.Context, slug string, viewer Viewer) (*dto.PollResponse, *errors.AppError) {
	poll, appErr := s.pollBySlug(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}
	return s.toPollResponse(ctx, poll, viewer)
}

// GetMyPolls retrieves all polls for a host.
func (s *PollService) GetMyPolls(ctx context.Context, hostID uuid.UUID) ([]dto.PollResponse, *errors.AppError) {
	polls, err := s.repo.GetPollsByHostID(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get polls", err)
	}

	result := make([]dto.PollResponse, 0, len(polls))
	for i := range polls {
		resp := dto.ToPollResponse(&polls[i], nil, polls[i].Permissions&constants.PermSeeGuestList != 0)
		result = append(result, *resp)
	}
	return result, nil
}

// UpdatePoll updates poll details, host only.
func (s *PollService) UpdatePoll(ctx context.Context, pollID, hostID uuid.UUID, req *dto.UpdatePollRequest) (*dto.PollResponse, *errors.AppError) {
	poll, err := s.repo.GetPollByID(ctx, pollID)
	if err != nil || poll == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Poll not found", err)
	}
	if poll.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if req.Title != "" {
		poll.Title = req.Title
	}
	if req.Description != "" {
		poll.Description = &req.Description
	}
	if req.Timezone != "" {
		if appErr := availsvc.ValidateTimezone(req.Timezone); appErr != nil {
			return nil, appErr
		}
		poll.Timezone = req.Timezone
	}
	if req.SeeGuestList != nil {
		if *req.SeeGuestList {
			poll.Permissions |= constants.PermSeeGuestList
		} else {
			poll.Permissions &^= constants.PermSeeGuestList
		}
	}
	if req.Status != "" {
		poll.Status = entity.PollStatus(req.Status)
	}

	if err := s.repo.UpdatePoll(ctx, poll); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update poll", err)
	}

	s.invalidateAvailabilityCache(ctx, poll.ID)
	return s.toPollResponse(ctx, poll, Viewer{AccountAddress: s.hostAddress(ctx, poll)})
}

// DeletePoll deletes a poll, host only.
func (s *PollService) DeletePoll(ctx context.Context, pollID, hostID uuid.UUID) *errors.AppError {
	poll, err := s.repo.GetPollByID(ctx, pollID)
	if err != nil || poll == nil {
		return errors.NewAppError(errors.ErrNotFound, "Poll not found", err)
	}
	if poll.HostID != hostID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.DeletePoll(ctx, pollID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete poll", err)
	}
	s.invalidateAvailabilityCache(ctx, pollID)
	return nil
}

// JoinPoll adds a participant; identities are de-duplicated by account
// address (case-insensitively), else guest email.
func (s *PollService) JoinPoll(ctx context.Context, slug string, req *dto.JoinPollRequest) (*dto.ParticipantResponse, *errors.AppError) {
	poll, appErr := s.pollBySlug(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	if req.AccountAddress == "" && req.GuestEmail == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Either account_address or guest_email is required", nil)
	}
	if req.Timezone != "" {
		if appErr := availsvc.ValidateTimezone(req.Timezone); appErr != nil {
			return nil, appErr
		}
	}

	newcomer := entity.Participant{Name: req.Name}
	if req.AccountAddress != "" {
		newcomer.AccountAddress = &req.AccountAddress
	}
	if req.GuestEmail != "" {
		newcomer.GuestEmail = &req.GuestEmail
	}

	existing, err := s.repo.GetParticipantsByPollID(ctx, poll.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}
	for i := range existing {
		if existing[i].Key() == newcomer.Key() {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Participant already joined this poll", nil)
		}
	}

	participant := &entity.Participant{
		PollID:         poll.ID,
		Name:           req.Name,
		AccountAddress: newcomer.AccountAddress,
		GuestEmail:     newcomer.GuestEmail,
		Type:           entity.ParticipantTypeInvitee,
		Status:         entity.ParticipantStatusPending,
		AvailableSlots: "[]",
	}
	if req.Timezone != "" {
		participant.Timezone = &req.Timezone
	}

	created, err := s.repo.AddParticipant(ctx, participant)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to add participant", err)
	}

	s.invalidateAvailabilityCache(ctx, poll.ID)
	resp := dto.ToParticipantResponse(created, nil)
	return &resp, nil
}

// GetAvailabilityMap computes the month's "who is free when" projection,
// visibility-filtered for the viewer. The unfiltered map is redis-cached per
// poll, month and timezone.
func (s *PollService) GetAvailabilityMap(ctx context.Context, slug, month, timezone string, viewer Viewer) (*dto.AvailabilityMapResponse, *errors.AppError) {
	poll, appErr := s.pollBySlug(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	if timezone == "" {
		timezone = poll.Timezone
	}
	window, appErr := availsvc.NewMonthWindowFromISO(month, timezone)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.GetParticipantsByPollID(ctx, poll.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}

	availabilities, appErr := s.cachedAvailabilities(ctx, poll, participants, window, month, timezone)
	if appErr != nil {
		return nil, appErr
	}

	visible := VisibleParticipants(poll, participants, viewer)
	filtered := make(map[string][]availentity.Interval, len(visible))
	participantDTOs := make([]dto.ParticipantResponse, 0, len(visible))
	for i := range visible {
		p := &visible[i]
		key := p.Key()
		if intervals, ok := availabilities[key]; ok {
			filtered[key] = intervals
		}
		slots, appErr := decodeSlots(p)
		if appErr != nil {
			return nil, appErr
		}
		participantDTOs = append(participantDTOs, dto.ToParticipantResponse(p, slots))
	}

	return &dto.AvailabilityMapResponse{
		PollID:         poll.ID.String(),
		Month:          month,
		Timezone:       timezone,
		Availabilities: filtered,
		Participants:   participantDTOs,
	}, nil
}

// SaveParticipantSelections reconciles a participant's fresh UI picks against
// their effective base schedule and persists the minimal base+overrides form.
func (s *PollService) SaveParticipantSelections(ctx context.Context, slug string, participantID uuid.UUID, req *dto.SaveSelectionsRequest) (*dto.ParticipantResponse, *errors.AppError) {
	poll, appErr := s.pollBySlug(ctx, slug)
	if appErr != nil {
		return nil, appErr
	}

	participant, err := s.repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participant", err)
	}
	if participant == nil || participant.PollID != poll.ID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Participant not found in this poll", nil)
	}

	timezone := req.Timezone
	if timezone == "" {
		if participant.Timezone != nil && *participant.Timezone != "" {
			timezone = *participant.Timezone
		} else {
			timezone = poll.Timezone
		}
	}

	window, appErr := availsvc.NewMonthWindowFromISO(req.Month, timezone)
	if appErr != nil {
		return nil, appErr
	}

	windowInterval := availentity.Interval{Start: window.Start, End: window.End}
	selected := make([]availentity.SelectedSlot, 0, len(req.Selections))
	for _, pick := range req.Selections {
		iv := availentity.Interval{Start: pick.Start, End: pick.End}
		if !availsvc.OverlapsOrContains(iv, windowInterval) {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("Selection %s falls outside the %s window", pick.Start.Format(time.RFC3339), req.Month), nil)
		}
		selected = append(selected, availentity.SelectedSlot{Start: pick.Start, End: pick.End, Date: pick.Date})
	}

	existing, appErr := decodeSlots(participant)
	if appErr != nil {
		return nil, appErr
	}

	// The base in effect is the recurring pattern plus its recurring
	// overrides; this month's dated slots are superseded by the new picks.
	var recurring, keptDated []availentity.AvailabilitySlot
	monthPrefix := req.Month + "-"
	for _, slot := range existing {
		switch {
		case slot.Date == "":
			recurring = append(recurring, slot)
		case len(slot.Date) >= len(monthPrefix) && slot.Date[:len(monthPrefix)] == monthPrefix:
			// dropped, replaced by the reconciled output
		default:
			keptDated = append(keptDated, slot)
		}
	}

	var base []availentity.Interval
	for _, slot := range recurring {
		carrier := slot
		carrier.Overrides = nil
		expanded, appErr := availsvc.SlotIntervals(carrier, window, timezone, timezone)
		if appErr != nil {
			return nil, appErr
		}
		base = append(base, expanded...)
	}
	recurringOverrides, appErr := availsvc.ExtractOverrideIntervals(recurring, window, timezone, timezone)
	if appErr != nil {
		return nil, appErr
	}
	base = availsvc.ApplyOverrides(base, recurringOverrides)

	reconciled, appErr := availsvc.ReconcileOverrides(selected, base, window, timezone)
	if appErr != nil {
		return nil, appErr
	}

	updated := append(append(recurring, keptDated...), reconciled...)
	encoded, err := json.Marshal(updated)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode schedule", err)
	}

	participant.AvailableSlots = string(encoded)
	if participant.Status == entity.ParticipantStatusPending {
		participant.Status = entity.ParticipantStatusAccepted
	}
	if err := s.repo.UpdateParticipant(ctx, participant); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save selections", err)
	}

	s.invalidateAvailabilityCache(ctx, poll.ID)
	s.notifyOthers(ctx, poll, participant)

	logger.Info("PollService:SaveParticipantSelections:Success",
		"poll_id", poll.ID, "participant_id", participant.ID, "month", req.Month, "slots", len(updated))

	resp := dto.ToParticipantResponse(participant, updated)
	return &resp, nil
}

// ===================== helpers =====================

func (s *PollService) pollBySlug(ctx context.Context, slug string) (*entity.Poll, *errors.AppError) {
	poll, err := s.repo.GetPollBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get poll", err)
	}
	if poll == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Poll not found", nil)
	}
	return poll, nil
}

func (s *PollService) toPollResponse(ctx context.Context, poll *entity.Poll, viewer Viewer) (*dto.PollResponse, *errors.AppError) {
	participants, err := s.repo.GetParticipantsByPollID(ctx, poll.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}

	visible := VisibleParticipants(poll, participants, viewer)
	participantDTOs := make([]dto.ParticipantResponse, 0, len(visible))
	for i := range visible {
		slots, appErr := decodeSlots(&visible[i])
		if appErr != nil {
			return nil, appErr
		}
		participantDTOs = append(participantDTOs, dto.ToParticipantResponse(&visible[i], slots))
	}

	return dto.ToPollResponse(poll, participantDTOs, poll.Permissions&constants.PermSeeGuestList != 0), nil
}

func (s *PollService) availabilityCacheKey(pollID uuid.UUID, month, timezone string) string {
	return fmt.Sprintf("poll:%s:avail:%s:%s", pollID, month, timezone)
}

func (s *PollService) cachedAvailabilities(
	ctx context.Context,
	poll *entity.Poll,
	participants []entity.Participant,
	window availentity.MonthWindow,
	month, timezone string,
) (map[string][]availentity.Interval, *errors.AppError) {

	key := s.availabilityCacheKey(poll.ID, month, timezone)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached map[string][]availentity.Interval
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	availabilities, appErr := ParticipantAvailabilities(participants, nil, window, timezone)
	if appErr != nil {
		return nil, appErr
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(availabilities); err == nil {
			s.cache.Set(ctx, key, string(encoded), availabilityCacheTTL)
		}
	}
	return availabilities, nil
}

func (s *PollService) invalidateAvailabilityCache(ctx context.Context, pollID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePattern(ctx, fmt.Sprintf("poll:%s:avail:*", pollID))
}

func (s *PollService) notifyOthers(ctx context.Context, poll *entity.Poll, actor *entity.Participant) {
	if s.notifService == nil {
		return
	}

	participants, err := s.repo.GetParticipantsByPollID(ctx, poll.ID)
	if err != nil {
		logger.Warn("PollService:notifyOthers:GetParticipants", "poll_id", poll.ID, "error", err)
		return
	}

	actorKey := actor.Key()
	recipients := make([]string, 0, len(participants))
	for i := range participants {
		if key := participants[i].Key(); key != actorKey {
			recipients = append(recipients, key)
		}
	}

	s.notifService.EnqueuePollUpdated(ctx, notifservice.PollNotifyPayload{
		PollID:     poll.ID,
		PollTitle:  poll.Title,
		ActorName:  actor.Name,
		Recipients: recipients,
	})
}

// hostAddress looks up the Scheduler participant's account address so the
// host's own mutations come back with the unfiltered guest list.
func (s *PollService) hostAddress(ctx context.Context, poll *entity.Poll) string {
	participants, err := s.repo.GetParticipantsByPollID(ctx, poll.ID)
	if err != nil {
		return ""
	}
	for i := range participants {
		if participants[i].Type == entity.ParticipantTypeScheduler && participants[i].AccountAddress != nil {
			return *participants[i].AccountAddress
		}
	}
	return ""
}
