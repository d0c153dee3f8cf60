package service

import (
	"strconv"

	"quickpoll/modules/availability/entity"
)

func slotKey(slot entity.AvailabilitySlot) string {
	if slot.Date != "" {
		return slot.Date
	}
	return "w" + strconv.Itoa(slot.Weekday)
}

// MergeAvailabilitySlots combines two slot collections. Slots sharing a date
// (or a weekday when both recur) have their ranges and overrides merged;
// everything else is carried over as-is, first collection's order first.
func MergeAvailabilitySlots(listA, listB []entity.AvailabilitySlot) []entity.AvailabilitySlot {
	merged := make([]entity.AvailabilitySlot, 0, len(listA)+len(listB))
	index := make(map[string]int)

	for _, slot := range listA {
		index[slotKey(slot)] = len(merged)
		merged = append(merged, slot)
	}

	for _, slot := range listB {
		key := slotKey(slot)
		at, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, slot)
			continue
		}

		existing := merged[at]
		existing.Ranges = MergeTimeRanges(append(append([]entity.TimeRange{}, existing.Ranges...), slot.Ranges...))
		existing.Overrides = mergeOverrides(existing.Overrides, slot.Overrides)
		merged[at] = existing
	}
	return merged
}

func mergeOverrides(a, b *entity.Overrides) *entity.Overrides {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := &entity.Overrides{}
	if len(a.Additions)+len(b.Additions) > 0 {
		out.Additions = MergeTimeRanges(append(append([]entity.TimeRange{}, a.Additions...), b.Additions...))
	}
	if len(a.Removals)+len(b.Removals) > 0 {
		out.Removals = MergeTimeRanges(append(append([]entity.TimeRange{}, a.Removals...), b.Removals...))
	}
	return out
}
