package dto

import (
	"time"

	availentity "quickpoll/modules/availability/entity"
	"quickpoll/modules/poll/entity"
)

// ===================== Request DTOs =====================

// CreatePollRequest for creating a new poll
type CreatePollRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Timezone     string `json:"timezone" validate:"required"`
	SeeGuestList bool   `json:"see_guest_list"`
}

// UpdatePollRequest for updating poll details
type UpdatePollRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Timezone     string `json:"timezone"`
	SeeGuestList *bool  `json:"see_guest_list"`
	Status       string `json:"status"`
}

// JoinPollRequest for adding a participant
type JoinPollRequest struct {
	Name           string `json:"name" validate:"required"`
	AccountAddress string `json:"account_address"`
	GuestEmail     string `json:"guest_email"`
	Timezone       string `json:"timezone"`
}

// SelectedSlotDTO is one block picked in the UI grid
type SelectedSlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Date  string    `json:"date"` // YYYY-MM-DD
}

// SaveSelectionsRequest re-submits a participant's picks for one month
type SaveSelectionsRequest struct {
	Month      string            `json:"month" validate:"required"` // YYYY-MM
	Timezone   string            `json:"timezone"`
	Selections []SelectedSlotDTO `json:"selections"`
}

// ===================== Response DTOs =====================

// PollResponse for poll details
type PollResponse struct {
	ID           string                `json:"id"`
	Slug         string                `json:"slug"`
	HostID       string                `json:"host_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Timezone     string                `json:"timezone"`
	SeeGuestList bool                  `json:"see_guest_list"`
	Status       string                `json:"status"`
	Participants []ParticipantResponse `json:"participants,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ParticipantResponse for participant details
type ParticipantResponse struct {
	ID             string                           `json:"id"`
	Name           string                           `json:"name"`
	AccountAddress string                           `json:"account_address,omitempty"`
	GuestEmail     string                           `json:"guest_email,omitempty"`
	Type           string                           `json:"participant_type"`
	Status         string                           `json:"status"`
	Timezone       string                           `json:"timezone,omitempty"`
	AvailableSlots []availentity.AvailabilitySlot   `json:"available_slots,omitempty"`
}

// AvailabilityMapResponse is the "who is free when" projection for one month
type AvailabilityMapResponse struct {
	PollID         string                           `json:"poll_id"`
	Month          string                           `json:"month"`
	Timezone       string                           `json:"timezone"`
	Availabilities map[string][]availentity.Interval `json:"availabilities"`
	Participants   []ParticipantResponse            `json:"participants"`
}

// ===================== Mapper Functions =====================

// ToPollResponse maps entity to DTO
func ToPollResponse(p *entity.Poll, participants []ParticipantResponse, seeGuestList bool) *PollResponse {
	resp := &PollResponse{
		ID:           p.ID.String(),
		Slug:         p.Slug,
		HostID:       p.HostID.String(),
		Title:        p.Title,
		Timezone:     p.Timezone,
		SeeGuestList: seeGuestList,
		Status:       string(p.Status),
		Participants: participants,
		CreatedAt:    p.CreatedAt,
	}
	if p.Description != nil {
		resp.Description = *p.Description
	}
	return resp
}

// ToParticipantResponse maps entity to DTO; slots decoded by the caller
func ToParticipantResponse(p *entity.Participant, slots []availentity.AvailabilitySlot) ParticipantResponse {
	resp := ParticipantResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Type:           string(p.Type),
		Status:         string(p.Status),
		AvailableSlots: slots,
	}
	if p.AccountAddress != nil {
		resp.AccountAddress = *p.AccountAddress
	}
	if p.GuestEmail != nil {
		resp.GuestEmail = *p.GuestEmail
	}
	if p.Timezone != nil {
		resp.Timezone = *p.Timezone
	}
	return resp
}
