package service

import (
	"context"
	"encoding/json"

	"quickpoll/core/errors"
	"quickpoll/core/logger"
	"quickpoll/modules/availability/dto"
	"quickpoll/modules/availability/entity"
	"quickpoll/modules/availability/repository"

	"github.com/google/uuid"
)

// AvailabilityService handles availability block business logic.
type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

// AvailabilityServiceInterface defines the service contract.
type AvailabilityServiceInterface interface {
	CreateBlock(ctx context.Context, ownerID uuid.UUID, req *dto.CreateBlockRequest) (*dto.BlockResponse, *errors.AppError)
	GetBlocks(ctx context.Context, ownerID uuid.UUID) ([]dto.BlockResponse, *errors.AppError)
	GetBlockByID(ctx context.Context, id uuid.UUID) (*dto.BlockResponse, *errors.AppError)
	UpdateBlock(ctx context.Context, blockID, ownerID uuid.UUID, req *dto.UpdateBlockRequest) (*dto.BlockResponse, *errors.AppError)
	DeleteBlock(ctx context.Context, blockID, ownerID uuid.UUID) *errors.AppError
	DuplicateBlock(ctx context.Context, blockID, ownerID uuid.UUID) (*dto.BlockResponse, *errors.AppError)
	SetDefaultBlock(ctx context.Context, blockID, ownerID uuid.UUID) (*dto.BlockResponse, *errors.AppError)
	GetBlockIntervals(ctx context.Context, blockID uuid.UUID, month, targetTimezone string) (*dto.BlockIntervalsResponse, *errors.AppError)
	DefaultBlockSlots(ctx context.Context, ownerID uuid.UUID) ([]entity.AvailabilitySlot, string, *errors.AppError)
}

func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

// ValidateSlots rejects malformed schedules before they reach the algebra:
// bad clock times, start >= end, weekday out of range, unparsable dates.
func ValidateSlots(slots []entity.AvailabilitySlot, timezone string) *errors.AppError {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return appErr
	}

	for _, slot := range slots {
		if _, appErr := slotExpander(slot, loc); appErr != nil {
			return appErr
		}
		for _, r := range slot.Ranges {
			if appErr := ValidateTimeRange(r); appErr != nil {
				return appErr
			}
		}
		if slot.Overrides == nil {
			continue
		}
		for _, r := range slot.Overrides.Additions {
			if appErr := ValidateTimeRange(r); appErr != nil {
				return appErr
			}
		}
		for _, r := range slot.Overrides.Removals {
			if appErr := ValidateTimeRange(r); appErr != nil {
				return appErr
			}
		}
	}
	return nil
}

func (s *AvailabilityService) CreateBlock(ctx context.Context, ownerID uuid.UUID, req *dto.CreateBlockRequest) (*dto.BlockResponse, *errors.AppError) {
	if appErr := ValidateSlots(req.WeeklyAvailability, req.Timezone); appErr != nil {
		return nil, appErr
	}

	encoded, err := json.Marshal(req.WeeklyAvailability)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode schedule", err)
	}

	if req.IsDefault {
		if err := s.repo.ClearDefaultForOwner(ctx, ownerID); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reset default block", err)
		}
	}

	block := &entity.AvailabilityBlock{
		OwnerID:            ownerID,
		Title:              req.Title,
		Timezone:           req.Timezone,
		WeeklyAvailability: string(encoded),
		IsDefault:          req.IsDefault,
	}

	created, err := s.repo.CreateBlock(ctx, block)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create availability block", err)
	}

	logger.Info("AvailabilityService:CreateBlock:Success", "block_id", created.ID, "owner_id", ownerID)
	return dto.ToBlockResponse(created), nil
}

func (s *AvailabilityService) GetBlocks(ctx context.Context, ownerID uuid.UUID) ([]dto.BlockResponse, *errors.AppError) {
	blocks, err := s.repo.GetBlocksByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability blocks", err)
	}

	result := make([]dto.BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, *dto.ToBlockResponse(&b))
	}
	return result, nil
}

func (s *AvailabilityService) GetBlockByID(ctx context.Context, id uuid.UUID) (*dto.BlockResponse, *errors.AppError) {
	block, err := s.repo.GetBlockByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability block", err)
	}
	if block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability block not found", nil)
	}
	return dto.ToBlockResponse(block), nil
}

func (s *AvailabilityService) UpdateBlock(ctx context.Context, blockID, ownerID uuid.UUID, req *dto.UpdateBlockRequest) (*dto.BlockResponse, *errors.AppError) {
	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil || block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability block not found", err)
	}
	if block.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if req.Title != "" {
		block.Title = req.Title
	}
	if req.Timezone != "" {
		block.Timezone = req.Timezone
	}
	if req.WeeklyAvailability != nil {
		if appErr := ValidateSlots(*req.WeeklyAvailability, block.Timezone); appErr != nil {
			return nil, appErr
		}
		encoded, err := json.Marshal(*req.WeeklyAvailability)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode schedule", err)
		}
		block.WeeklyAvailability = string(encoded)
	} else if req.Timezone != "" {
		// Timezone may change alone; it still has to resolve.
		if _, appErr := loadLocation(block.Timezone); appErr != nil {
			return nil, appErr
		}
	}

	if req.IsDefault != nil && *req.IsDefault && !block.IsDefault {
		if err := s.repo.ClearDefaultForOwner(ctx, ownerID); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reset default block", err)
		}
		block.IsDefault = true
	}

	if err := s.repo.UpdateBlock(ctx, block); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update availability block", err)
	}
	return dto.ToBlockResponse(block), nil
}

func (s *AvailabilityService) DeleteBlock(ctx context.Context, blockID, ownerID uuid.UUID) *errors.AppError {
	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil || block == nil {
		return errors.NewAppError(errors.ErrNotFound, "Availability block not found", err)
	}
	if block.OwnerID != ownerID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.DeleteBlock(ctx, blockID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete availability block", err)
	}
	return nil
}

func (s *AvailabilityService) DuplicateBlock(ctx context.Context, blockID, ownerID uuid.UUID) (*dto.BlockResponse, *errors.AppError) {
	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil || block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability block not found", err)
	}
	if block.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	copied := &entity.AvailabilityBlock{
		OwnerID:            ownerID,
		Title:              block.Title + " (copy)",
		Timezone:           block.Timezone,
		WeeklyAvailability: block.WeeklyAvailability,
		IsDefault:          false,
	}

	created, err := s.repo.CreateBlock(ctx, copied)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to duplicate availability block", err)
	}
	return dto.ToBlockResponse(created), nil
}

func (s *AvailabilityService) SetDefaultBlock(ctx context.Context, blockID, ownerID uuid.UUID) (*dto.BlockResponse, *errors.AppError) {
	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil || block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability block not found", err)
	}
	if block.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized", nil)
	}

	if err := s.repo.ClearDefaultForOwner(ctx, ownerID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reset default block", err)
	}
	block.IsDefault = true
	if err := s.repo.UpdateBlock(ctx, block); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to set default block", err)
	}
	return dto.ToBlockResponse(block), nil
}

// GetBlockIntervals expands a block's stored schedule into concrete intervals
// for one month, reprojected into the requested timezone.
func (s *AvailabilityService) GetBlockIntervals(ctx context.Context, blockID uuid.UUID, month, targetTimezone string) (*dto.BlockIntervalsResponse, *errors.AppError) {
	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability block", err)
	}
	if block == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Availability block not found", nil)
	}

	if targetTimezone == "" {
		targetTimezone = block.Timezone
	}

	window, appErr := NewMonthWindowFromISO(month, targetTimezone)
	if appErr != nil {
		return nil, appErr
	}

	var slots []entity.AvailabilitySlot
	if block.WeeklyAvailability != "" {
		if err := json.Unmarshal([]byte(block.WeeklyAvailability), &slots); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to decode stored schedule", err)
		}
	}

	var intervals []entity.Interval
	for _, slot := range slots {
		expanded, appErr := SlotIntervals(slot, window, block.Timezone, targetTimezone)
		if appErr != nil {
			return nil, appErr
		}
		intervals = append(intervals, expanded...)
	}

	return &dto.BlockIntervalsResponse{
		BlockID:   block.ID.String(),
		Month:     month,
		Timezone:  targetTimezone,
		Intervals: MergeIntervals(intervals),
	}, nil
}

// DefaultBlockSlots returns the owner's default schedule and its timezone,
// used by the booking read path and poll base computation.
func (s *AvailabilityService) DefaultBlockSlots(ctx context.Context, ownerID uuid.UUID) ([]entity.AvailabilitySlot, string, *errors.AppError) {
	block, err := s.repo.GetDefaultBlockByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, "", errors.NewAppError(errors.ErrInternalServer, "Failed to get default block", err)
	}
	if block == nil {
		return nil, "", nil
	}

	var slots []entity.AvailabilitySlot
	if block.WeeklyAvailability != "" {
		if err := json.Unmarshal([]byte(block.WeeklyAvailability), &slots); err != nil {
			return nil, "", errors.NewAppError(errors.ErrInternalServer, "Failed to decode stored schedule", err)
		}
	}
	return slots, block.Timezone, nil
}
