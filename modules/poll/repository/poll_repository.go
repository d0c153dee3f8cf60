package repository

import (
	"context"
	"database/sql"

	"quickpoll/core/database"
	"quickpoll/core/logger"
	"quickpoll/modules/poll/entity"

	"github.com/google/uuid"
)

// PollRepository handles poll database operations
type PollRepository struct {
	DB database.Database
}

func NewPollRepository(db database.Database) *PollRepository {
	return &PollRepository{DB: db}
}

// PollRepositoryInterface defines the repository contract
type PollRepositoryInterface interface {
	// Poll CRUD (polls table)
	CreatePoll(ctx context.Context, poll *entity.Poll) (*entity.Poll, error)
	GetPollByID(ctx context.Context, id uuid.UUID) (*entity.Poll, error)
	GetPollBySlug(ctx context.Context, slug string) (*entity.Poll, error)
	GetPollsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Poll, error)
	UpdatePoll(ctx context.Context, poll *entity.Poll) error
	DeletePoll(ctx context.Context, id uuid.UUID) error

	// Participants (poll_participants table)
	AddParticipant(ctx context.Context, participant *entity.Participant) (*entity.Participant, error)
	GetParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetParticipantsByPollID(ctx context.Context, pollID uuid.UUID) ([]entity.Participant, error)
	UpdateParticipant(ctx context.Context, participant *entity.Participant) error
	RemoveParticipant(ctx context.Context, id uuid.UUID) error
}

// ===================== Poll CRUD =====================

func (r *PollRepository) CreatePoll(ctx context.Context, poll *entity.Poll) (*entity.Poll, error) {
	query := `
		INSERT INTO polls (slug, host_id, title, description, timezone, permissions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, slug, host_id, title, description, timezone, permissions, status, created_at, updated_at
	`

	var created entity.Poll
	err := r.DB.GetContext(ctx, &created, query,
		poll.Slug, poll.HostID, poll.Title, poll.Description, poll.Timezone, poll.Permissions, poll.Status)
	if err != nil {
		logger.Error("PollRepository:CreatePoll", err)
		return nil, err
	}
	return &created, nil
}

func (r *PollRepository) GetPollByID(ctx context.Context, id uuid.UUID) (*entity.Poll, error) {
	query := `
		SELECT id, slug, host_id, title, description, timezone, permissions, status, created_at, updated_at
		FROM polls WHERE id = $1
	`

	var poll entity.Poll
	err := r.DB.GetContext(ctx, &poll, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PollRepository:GetPollByID", err)
		return nil, err
	}
	return &poll, nil
}

func (r *PollRepository) GetPollBySlug(ctx context.Context, slug string) (*entity.Poll, error) {
	query := `
		SELECT id, slug, host_id, title, description, timezone, permissions, status, created_at, updated_at
		FROM polls WHERE slug = $1
	`

	var poll entity.Poll
	err := r.DB.GetContext(ctx, &poll, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PollRepository:GetPollBySlug", err)
		return nil, err
	}
	return &poll, nil
}

func (r *PollRepository) GetPollsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Poll, error) {
	query := `
		SELECT id, slug, host_id, title, description, timezone, permissions, status, created_at, updated_at
		FROM polls
		WHERE host_id = $1
		ORDER BY created_at DESC
	`

	var polls []entity.Poll
	err := r.DB.SelectContext(ctx, &polls, query, hostID)
	if err != nil {
		logger.Error("PollRepository:GetPollsByHostID", err)
		return nil, err
	}
	return polls, nil
}

func (r *PollRepository) UpdatePoll(ctx context.Context, poll *entity.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, timezone = $4, permissions = $5, status = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.Timezone, poll.Permissions, poll.Status)
	if err != nil {
		logger.Error("PollRepository:UpdatePoll", err)
		return err
	}
	return nil
}

func (r *PollRepository) DeletePoll(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		logger.Error("PollRepository:DeletePoll", err)
		return err
	}
	return nil
}

// ===================== Participants =====================

func (r *PollRepository) AddParticipant(ctx context.Context, participant *entity.Participant) (*entity.Participant, error) {
	query := `
		INSERT INTO poll_participants (poll_id, name, account_address, guest_email, participant_type, status, timezone, available_slots)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, poll_id, name, account_address, guest_email, participant_type, status, timezone, available_slots, created_at, updated_at
	`

	var created entity.Participant
	err := r.DB.GetContext(ctx, &created, query,
		participant.PollID, participant.Name, participant.AccountAddress, participant.GuestEmail,
		participant.Type, participant.Status, participant.Timezone, participant.AvailableSlots)
	if err != nil {
		logger.Error("PollRepository:AddParticipant", err)
		return nil, err
	}
	return &created, nil
}

func (r *PollRepository) GetParticipantByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	query := `
		SELECT id, poll_id, name, account_address, guest_email, participant_type, status, timezone, available_slots, created_at, updated_at
		FROM poll_participants WHERE id = $1
	`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PollRepository:GetParticipantByID", err)
		return nil, err
	}
	return &participant, nil
}

func (r *PollRepository) GetParticipantsByPollID(ctx context.Context, pollID uuid.UUID) ([]entity.Participant, error) {
	query := `
		SELECT id, poll_id, name, account_address, guest_email, participant_type, status, timezone, available_slots, created_at, updated_at
		FROM poll_participants
		WHERE poll_id = $1
		ORDER BY created_at ASC
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, pollID)
	if err != nil {
		logger.Error("PollRepository:GetParticipantsByPollID", err)
		return nil, err
	}
	return participants, nil
}

func (r *PollRepository) UpdateParticipant(ctx context.Context, participant *entity.Participant) error {
	query := `
		UPDATE poll_participants
		SET name = $2, status = $3, timezone = $4, available_slots = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		participant.ID, participant.Name, participant.Status, participant.Timezone, participant.AvailableSlots)
	if err != nil {
		logger.Error("PollRepository:UpdateParticipant", err)
		return err
	}
	return nil
}

func (r *PollRepository) RemoveParticipant(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM poll_participants WHERE id = $1`, id)
	if err != nil {
		logger.Error("PollRepository:RemoveParticipant", err)
		return err
	}
	return nil
}
