package dto

import (
	"encoding/json"
	"time"

	"quickpoll/modules/availability/entity"
)

// ===================== Request DTOs =====================

// CreateBlockRequest for creating an availability block
type CreateBlockRequest struct {
	Title              string                    `json:"title" validate:"required"`
	Timezone           string                    `json:"timezone" validate:"required"`
	WeeklyAvailability []entity.AvailabilitySlot `json:"weekly_availability"`
	IsDefault          bool                      `json:"is_default"`
}

// UpdateBlockRequest for updating an availability block
type UpdateBlockRequest struct {
	Title              string                     `json:"title"`
	Timezone           string                     `json:"timezone"`
	WeeklyAvailability *[]entity.AvailabilitySlot `json:"weekly_availability"`
	IsDefault          *bool                      `json:"is_default"`
}

// ===================== Response DTOs =====================

// BlockResponse for availability block details
type BlockResponse struct {
	ID                 string                    `json:"id"`
	OwnerID            string                    `json:"owner_id"`
	Title              string                    `json:"title"`
	Timezone           string                    `json:"timezone"`
	WeeklyAvailability []entity.AvailabilitySlot `json:"weekly_availability"`
	IsDefault          bool                      `json:"is_default"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// BlockIntervalsResponse carries a block's schedule expanded into concrete
// month-bounded intervals for grid rendering.
type BlockIntervalsResponse struct {
	BlockID   string            `json:"block_id"`
	Month     string            `json:"month"`
	Timezone  string            `json:"timezone"`
	Intervals []entity.Interval `json:"intervals"`
}

// ===================== Mapper Functions =====================

// ToBlockResponse maps entity to DTO, decoding the stored JSON schedule.
func ToBlockResponse(b *entity.AvailabilityBlock) *BlockResponse {
	resp := &BlockResponse{
		ID:        b.ID.String(),
		OwnerID:   b.OwnerID.String(),
		Title:     b.Title,
		Timezone:  b.Timezone,
		IsDefault: b.IsDefault,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	slots := []entity.AvailabilitySlot{}
	if b.WeeklyAvailability != "" {
		_ = json.Unmarshal([]byte(b.WeeklyAvailability), &slots)
	}
	resp.WeeklyAvailability = slots
	return resp
}
