package service

import (
	"quickpoll/core/errors"
	"quickpoll/modules/availability/entity"
)

// BaseAvailability computes a participant's availability before user-selected
// overrides: explicit defaults win, then stored slots, then full-day fallback
// blocks; busy time is subtracted last. Callers merge downstream when they
// need sorted, disjoint output.
func BaseAvailability(
	slots []entity.AvailabilitySlot,
	defaultIntervals []entity.Interval,
	busyIntervals []entity.Interval,
	window entity.MonthWindow,
	slotTimezone, targetTimezone string,
) ([]entity.Interval, *errors.AppError) {

	var raw []entity.Interval

	switch {
	case len(defaultIntervals) > 0:
		raw = defaultIntervals

	case len(slots) > 0:
		for _, slot := range slots {
			intervals, appErr := SlotIntervals(slot, window, slotTimezone, targetTimezone)
			if appErr != nil {
				return nil, appErr
			}
			raw = append(raw, intervals...)
		}

	default:
		blocks, appErr := FullDayBlocks(window.Start, window.End, targetTimezone)
		if appErr != nil {
			return nil, appErr
		}
		raw = blocks
	}

	return SubtractIntervals(raw, busyIntervals), nil
}
