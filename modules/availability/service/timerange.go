package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"quickpoll/core/errors"
	"quickpoll/modules/availability/entity"
)

// ParseClock parses a strict 24h "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, *errors.AppError) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid clock time %q, expected HH:MM", s), nil)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid hour in clock time %q", s), err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid minute in clock time %q", s), err)
	}
	return hour*60 + minute, nil
}

// ValidateTimeRange rejects unparsable or degenerate (start >= end) ranges.
// The merge itself assumes well-formed input; this is the boundary check.
func ValidateTimeRange(r entity.TimeRange) *errors.AppError {
	start, appErr := ParseClock(r.Start)
	if appErr != nil {
		return appErr
	}
	end, appErr := ParseClock(r.End)
	if appErr != nil {
		return appErr
	}
	if start >= end {
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Time range %s-%s must start before it ends", r.Start, r.End), nil)
	}
	return nil
}

// MergeTimeRanges sorts clock-time ranges and merges overlapping or exactly
// adjacent ones ("09:00-10:00" + "10:00-11:00" becomes "09:00-11:00").
// Fixed-width HH:MM strings order lexicographically, so no parsing is needed
// here; malformed ranges are the caller's responsibility.
func MergeTimeRanges(ranges []entity.TimeRange) []entity.TimeRange {
	if len(ranges) == 0 {
		return []entity.TimeRange{}
	}

	sorted := make([]entity.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []entity.TimeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
