package service

import (
	"sort"
	"time"

	"quickpoll/core/errors"
	"quickpoll/modules/availability/entity"
)

// ReconcileOverrides re-expresses a user's fresh selections as a minimal diff
// against the computed base schedule: per date, additions are selected time
// with no base coverage and removals are base time no selection covers. One
// AvailabilitySlot per touched date is emitted, carrying the merged visible
// ranges plus the non-empty override lists. This is the write path that keeps
// persisted state small regardless of calendar length.
func ReconcileOverrides(
	selected []entity.SelectedSlot,
	base []entity.Interval,
	window entity.MonthWindow,
	timezone string,
) ([]entity.AvailabilitySlot, *errors.AppError) {

	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return nil, appErr
	}

	windowBounds := []entity.Interval{{Start: window.Start, End: window.End}}

	selectedByDate := make(map[string][]entity.Interval)
	for _, pick := range selected {
		iv := entity.Interval{Start: pick.Start, End: pick.End}
		if !validInterval(iv) {
			continue
		}
		date := pick.Date
		if date == "" {
			date = pick.Start.In(loc).Format(isoDateLayout)
		}
		selectedByDate[date] = append(selectedByDate[date], iv)
	}

	baseByDate := make(map[string][]entity.Interval)
	for _, iv := range ClipToBounds(base, windowBounds) {
		date := iv.Start.In(loc).Format(isoDateLayout)
		baseByDate[date] = append(baseByDate[date], iv)
	}

	dates := make([]string, 0, len(selectedByDate)+len(baseByDate))
	seen := make(map[string]bool)
	for date := range selectedByDate {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	for date := range baseByDate {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	slots := make([]entity.AvailabilitySlot, 0, len(dates))
	for _, date := range dates {
		sel := ClipToBounds(selectedByDate[date], windowBounds)
		baseForDate := baseByDate[date]

		additions := SubtractIntervals(sel, baseForDate)
		removals := SubtractIntervals(baseForDate, sel)

		visible := MergeTimeRanges(toTimeRanges(MergeIntervals(sel), loc))

		day, err := time.ParseInLocation(isoDateLayout, date, loc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid selection date "+date, err)
		}

		slot := entity.AvailabilitySlot{
			Weekday: int(day.Weekday()),
			Date:    date,
			Ranges:  visible,
		}
		if len(additions) > 0 || len(removals) > 0 {
			overrides := &entity.Overrides{}
			if len(additions) > 0 {
				overrides.Additions = MergeTimeRanges(toTimeRanges(MergeIntervals(additions), loc))
			}
			if len(removals) > 0 {
				overrides.Removals = MergeTimeRanges(toTimeRanges(MergeIntervals(removals), loc))
			}
			slot.Overrides = overrides
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// toTimeRanges projects intervals back onto wall-clock ranges in the given
// location. An end landing exactly on local midnight renders as "24:00" so
// the range still orders after its start.
func toTimeRanges(intervals []entity.Interval, loc *time.Location) []entity.TimeRange {
	ranges := make([]entity.TimeRange, 0, len(intervals))
	for _, iv := range intervals {
		start := iv.Start.In(loc)
		end := iv.End.In(loc)

		endClock := end.Format("15:04")
		if endClock == "00:00" && end.After(start) {
			endClock = "24:00"
		}
		ranges = append(ranges, entity.TimeRange{
			Start: start.Format("15:04"),
			End:   endClock,
		})
	}
	return ranges
}
