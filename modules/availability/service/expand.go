package service

import (
	"fmt"
	"time"

	"quickpoll/core/errors"
	"quickpoll/modules/availability/entity"
)

const isoDateLayout = "2006-01-02"

// loadLocation resolves an IANA zone name. Unknown zones fail fast; falling
// back to UTC would corrupt every wall-clock computation downstream.
func loadLocation(name string) (*time.Location, *errors.AppError) {
	if name == "" {
		return nil, errors.NewAppError(errors.ErrConfiguration, "Timezone identifier is empty", nil)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrConfiguration, fmt.Sprintf("Unknown timezone %q", name), err)
	}
	return loc, nil
}

// ValidateTimezone checks an IANA zone name at the data-entry boundary.
func ValidateTimezone(name string) *errors.AppError {
	_, appErr := loadLocation(name)
	return appErr
}

// NewMonthWindow builds the [monthStart, monthEnd) window containing the
// reference instant, anchored to local midnights in the given timezone.
func NewMonthWindow(reference time.Time, timezone string) (entity.MonthWindow, *errors.AppError) {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return entity.MonthWindow{}, appErr
	}
	local := reference.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return entity.MonthWindow{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// NewMonthWindowFromISO accepts a "YYYY-MM" month string.
func NewMonthWindowFromISO(month, timezone string) (entity.MonthWindow, *errors.AppError) {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return entity.MonthWindow{}, appErr
	}
	ref, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return entity.MonthWindow{}, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid month %q, expected YYYY-MM", month), err)
	}
	return NewMonthWindow(ref, timezone)
}

/// expander is the slot's expansion strategy: a dated slot anchors its ranges
// to one calendar date, a recurring slot to every matching weekday in the
// window.
type expander interface {
	expand(window entity.MonthWindow, ranges []entity.TimeRange, slotLoc, targetLoc *time.Location) []entity.Interval
}

type datedExpander struct {
	date time.Time // local midnight components in the slot timezone
}

func (e datedExpander) expand(window entity.MonthWindow, ranges []entity.TimeRange, slotLoc, targetLoc *time.Location) []entity.Interval {
	built := rangesOnDay(e.date.Year(), e.date.Month(), e.date.Day(), ranges, slotLoc, targetLoc)
	return ClipToBounds(built, []entity.Interval{{Start: window.Start, End: window.End}})
}

type recurringExpander struct {
	weekday time.Weekday
}

func (e recurringExpander) expand(window entity.MonthWindow, ranges []entity.TimeRange, slotLoc, targetLoc *time.Location) []entity.Interval {
	var built []entity.Interval

	// Walk calendar days in the slot timezone; one extra day on each side
	// covers windows whose edges land mid-day elsewhere. Clipping trims the
	// excess.
	first := window.Start.In(slotLoc).AddDate(0, 0, -1)
	last := window.End.In(slotLoc).AddDate(0, 0, 1)

	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, slotLoc)
	for !day.After(last) {
		if day.Weekday() == e.weekday {
			built = append(built, rangesOnDay(day.Year(), day.Month(), day.Day(), ranges, slotLoc, targetLoc)...)
		}
		day = day.AddDate(0, 0, 1)
	}
	return ClipToBounds(built, []entity.Interval{{Start: window.Start, End: window.End}})
}

// slotExpander validates the slot shape and returns its expansion strategy.
func slotExpander(slot entity.AvailabilitySlot, slotLoc *time.Location) (expander, *errors.AppError) {
	if slot.Date != "" {
		date, err := time.ParseInLocation(isoDateLayout, slot.Date, slotLoc)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid slot date %q, expected YYYY-MM-DD", slot.Date), err)
		}
		return datedExpander{date: date}, nil
	}
	if slot.Weekday < 0 || slot.Weekday > 6 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Weekday %d out of range 0-6", slot.Weekday), nil)
	}
	return recurringExpander{weekday: time.Weekday(slot.Weekday)}, nil
}

// rangesOnDay anchors clock-time ranges to one calendar day in the slot
// timezone and reprojects to the target timezone. Zoned construction (not
// fixed-offset arithmetic) keeps a 09:00 range correct on DST transition
// days. Unparsable or degenerate ranges are skipped.
func rangesOnDay(year int, month time.Month, day int, ranges []entity.TimeRange, slotLoc, targetLoc *time.Location) []entity.Interval {
	intervals := make([]entity.Interval, 0, len(ranges))
	for _, r := range ranges {
		startMin, appErr := ParseClock(r.Start)
		if appErr != nil {
			continue
		}
		endMin, appErr := ParseClock(r.End)
		if appErr != nil {
			continue
		}
		start := time.Date(year, month, day, startMin/60, startMin%60, 0, 0, slotLoc)
		end := time.Date(year, month, day, endMin/60, endMin%60, 0, 0, slotLoc)
		iv := entity.Interval{Start: start.In(targetLoc), End: end.In(targetLoc)}
		if !validInterval(iv) {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// SlotIntervals expands one availability slot into concrete intervals inside
// the month window, converting from the slot timezone to the target timezone
// exactly once, at construction.
func SlotIntervals(slot entity.AvailabilitySlot, window entity.MonthWindow, slotTimezone, targetTimezone string) ([]entity.Interval, *errors.AppError) {
	slotLoc, appErr := loadLocation(slotTimezone)
	if appErr != nil {
		return nil, appErr
	}
	targetLoc, appErr := loadLocation(targetTimezone)
	if appErr != nil {
		return nil, appErr
	}
	exp, appErr := slotExpander(slot, slotLoc)
	if appErr != nil {
		return nil, appErr
	}
	if len(slot.Ranges) == 0 {
		return []entity.Interval{}, nil
	}
	return exp.expand(window, slot.Ranges, slotLoc, targetLoc), nil
}

// FullDayBlocks produces one local midnight-to-midnight interval per calendar
// day spanning [start, end], the "fully available" fallback for participants
// with no explicit schedule.
func FullDayBlocks(start, end time.Time, timezone string) ([]entity.Interval, *errors.AppError) {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return nil, appErr
	}
	if end.Before(start) {
		return []entity.Interval{}, nil
	}

	var blocks []entity.Interval
	local := start.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	for day.Before(end) {
		next := day.AddDate(0, 0, 1)
		blocks = append(blocks, entity.Interval{Start: day, End: next})
		day = next
	}
	return blocks, nil
}
