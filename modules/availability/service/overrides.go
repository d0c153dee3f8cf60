package service

import (
	"quickpoll/core/errors"
	"quickpoll/modules/availability/entity"
)

// OverrideIntervals holds a participant's expanded schedule deltas for one
// month window.
type OverrideIntervals struct {
	Additions []entity.Interval
	Removals  []entity.Interval
}

// ExtractOverrideIntervals expands every slot's override ranges through the
// slot's own dated/recurring strategy into two flat interval lists. Slots
// without overrides contribute nothing. Override clock-times are interpreted
// in the slot timezone and reprojected once, at construction.
func ExtractOverrideIntervals(slots []entity.AvailabilitySlot, window entity.MonthWindow, slotTimezone, targetTimezone string) (OverrideIntervals, *errors.AppError) {
	result := OverrideIntervals{
		Additions: []entity.Interval{},
		Removals:  []entity.Interval{},
	}

	for _, slot := range slots {
		if slot.Overrides == nil {
			continue
		}

		if len(slot.Overrides.Additions) > 0 {
			carrier := slot
			carrier.Ranges = slot.Overrides.Additions
			intervals, appErr := SlotIntervals(carrier, window, slotTimezone, targetTimezone)
			if appErr != nil {
				return OverrideIntervals{}, appErr
			}
			result.Additions = append(result.Additions, intervals...)
		}

		if len(slot.Overrides.Removals) > 0 {
			carrier := slot
			carrier.Ranges = slot.Overrides.Removals
			intervals, appErr := SlotIntervals(carrier, window, slotTimezone, targetTimezone)
			if appErr != nil {
				return OverrideIntervals{}, appErr
			}
			result.Removals = append(result.Removals, intervals...)
		}
	}
	return result, nil
}

// ApplyOverrides folds extracted overrides into a base interval list:
// additions first, then removals, so a removal always wins over an addition
// covering the same span.
func ApplyOverrides(base []entity.Interval, overrides OverrideIntervals) []entity.Interval {
	withAdditions := MergeIntervals(append(append([]entity.Interval{}, base...), overrides.Additions...))
	return SubtractIntervals(withAdditions, overrides.Removals)
}
