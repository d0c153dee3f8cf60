package repository

import (
	"context"
	"database/sql"

	"quickpoll/core/database"
	"quickpoll/core/logger"
	"quickpoll/modules/availability/entity"

	"github.com/google/uuid"
)

// AvailabilityRepository handles availability_blocks database operations.
type AvailabilityRepository struct {
	DB database.Database
}

func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// AvailabilityRepositoryInterface defines the repository contract.
type AvailabilityRepositoryInterface interface {
	CreateBlock(ctx context.Context, block *entity.AvailabilityBlock) (*entity.AvailabilityBlock, error)
	GetBlockByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityBlock, error)
	GetBlocksByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.AvailabilityBlock, error)
	GetDefaultBlockByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.AvailabilityBlock, error)
	UpdateBlock(ctx context.Context, block *entity.AvailabilityBlock) error
	DeleteBlock(ctx context.Context, id uuid.UUID) error
	ClearDefaultForOwner(ctx context.Context, ownerID uuid.UUID) error
}

func (r *AvailabilityRepository) CreateBlock(ctx context.Context, block *entity.AvailabilityBlock) (*entity.AvailabilityBlock, error) {
	query := `
		INSERT INTO availability_blocks (owner_id, title, timezone, weekly_availability, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, title, timezone, weekly_availability, is_default, created_at, updated_at
	`

	var created entity.AvailabilityBlock
	err := r.DB.GetContext(ctx, &created, query,
		block.OwnerID, block.Title, block.Timezone, block.WeeklyAvailability, block.IsDefault)
	if err != nil {
		logger.Error("AvailabilityRepository:CreateBlock", err)
		return nil, err
	}
	return &created, nil
}

func (r *AvailabilityRepository) GetBlockByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilityBlock, error) {
	query := `
		SELECT id, owner_id, title, timezone, weekly_availability, is_default, created_at, updated_at
		FROM availability_blocks WHERE id = $1
	`

	var block entity.AvailabilityBlock
	err := r.DB.GetContext(ctx, &block, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetBlockByID", err)
		return nil, err
	}
	return &block, nil
}

func (r *AvailabilityRepository) GetBlocksByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.AvailabilityBlock, error) {
	query := `
		SELECT id, owner_id, title, timezone, weekly_availability, is_default, created_at, updated_at
		FROM availability_blocks
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	var blocks []entity.AvailabilityBlock
	err := r.DB.SelectContext(ctx, &blocks, query, ownerID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetBlocksByOwnerID", err)
		return nil, err
	}
	return blocks, nil
}

func (r *AvailabilityRepository) GetDefaultBlockByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.AvailabilityBlock, error) {
	query := `
		SELECT id, owner_id, title, timezone, weekly_availability, is_default, created_at, updated_at
		FROM availability_blocks
		WHERE owner_id = $1 AND is_default = TRUE
		LIMIT 1
	`

	var block entity.AvailabilityBlock
	err := r.DB.GetContext(ctx, &block, query, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetDefaultBlockByOwnerID", err)
		return nil, err
	}
	return &block, nil
}

func (r *AvailabilityRepository) UpdateBlock(ctx context.Context, block *entity.AvailabilityBlock) error {
	query := `
		UPDATE availability_blocks
		SET title = $2, timezone = $3, weekly_availability = $4, is_default = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		block.ID, block.Title, block.Timezone, block.WeeklyAvailability, block.IsDefault)
	if err != nil {
		logger.Error("AvailabilityRepository:UpdateBlock", err)
		return err
	}
	return nil
}

func (r *AvailabilityRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `DELETE FROM availability_blocks WHERE id = $1`, id)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteBlock", err)
		return err
	}
	return nil
}

func (r *AvailabilityRepository) ClearDefaultForOwner(ctx context.Context, ownerID uuid.UUID) error {
	err := r.DB.ExecContext(ctx, `UPDATE availability_blocks SET is_default = FALSE WHERE owner_id = $1`, ownerID)
	if err != nil {
		logger.Error("AvailabilityRepository:ClearDefaultForOwner", err)
		return err
	}
	return nil
}
