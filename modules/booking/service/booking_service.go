package service

import (
	"context"

	"quickpoll/core/errors"
	"quickpoll/core/logger"
	availentity "quickpoll/modules/availability/entity"
	availsvc "quickpoll/modules/availability/service"
	"quickpoll/modules/booking/dto"
	calservice "quickpoll/modules/calendar/service"

	"github.com/google/uuid"
)

// AvailabilitySource is the slice of the availability module the booking page
// needs: an owner's default schedule and its home timezone.
type AvailabilitySource interface {
	DefaultBlockSlots(ctx context.Context, ownerID uuid.UUID) ([]availentity.AvailabilitySlot, string, *errors.AppError)
}

// BookingService exposes an owner's bookable time: default availability block
// expanded into the month, minus external calendar busy time.
type BookingService struct {
	availSource AvailabilitySource
	busySource  calservice.BusySource
}

// BookingServiceInterface defines the service contract
type BookingServiceInterface interface {
	GetOwnerAvailability(ctx context.Context, ownerID uuid.UUID, month, timezone string) (*dto.OwnerAvailabilityResponse, *errors.AppError)
}

func NewBookingService(availSource AvailabilitySource, busySource calservice.BusySource) BookingServiceInterface {
	return &BookingService{
		availSource: availSource,
		busySource:  busySource,
	}
}

// GetOwnerAvailability computes the owner's open time for one month in the
// requested timezone (default: the block's own timezone).
func (s *BookingService) GetOwnerAvailability(ctx context.Context, ownerID uuid.UUID, month, timezone string) (*dto.OwnerAvailabilityResponse, *errors.AppError) {
	slots, blockTimezone, appErr := s.availSource.DefaultBlockSlots(ctx, ownerID)
	if appErr != nil {
		return nil, appErr
	}

	if timezone == "" {
		timezone = blockTimezone
	}
	if timezone == "" {
		// Owner has no default block and the caller named no zone.
		timezone = "UTC"
	}

	window, appErr := availsvc.NewMonthWindowFromISO(month, timezone)
	if appErr != nil {
		return nil, appErr
	}

	var busy []availentity.Interval
	if s.busySource != nil {
		busy, appErr = s.busySource.BusyIntervals(ctx, ownerID, window)
		if appErr != nil {
			return nil, appErr
		}
	}

	base, appErr := availsvc.BaseAvailability(slots, nil, busy, window, blockTimezone, timezone)
	if appErr != nil {
		return nil, appErr
	}

	open := availsvc.MergeIntervals(base)
	logger.Info("BookingService:GetOwnerAvailability:Success",
		"owner_id", ownerID, "month", month, "intervals", len(open))

	return &dto.OwnerAvailabilityResponse{
		OwnerID:   ownerID.String(),
		Month:     month,
		Timezone:  timezone,
		Intervals: open,
	}, nil
}
