package service

import (
	"sort"

	"quickpoll/modules/availability/entity"
)

// validInterval reports whether an interval can take part in the algebra.
// Zero times and end-before-start pairs come out of failed parses or bad
// input and must never contaminate a merge result.
func validInterval(iv entity.Interval) bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && iv.Start.Before(iv.End)
}

func filterValid(intervals []entity.Interval) []entity.Interval {
	out := make([]entity.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if validInterval(iv) {
			out = append(out, iv)
		}
	}
	return out
}

// MergeIntervals sorts intervals and merges overlapping or touching ones.
// Invalid intervals are dropped first.
func MergeIntervals(intervals []entity.Interval) []entity.Interval {
	valid := filterValid(intervals)
	if len(valid) == 0 {
		return []entity.Interval{}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []entity.Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// SubtractIntervals removes every subtrahend from every base interval. A
// subtrahend may eliminate a base interval, trim one edge, or split it in
// two; non-overlapping subtrahends are no-ops. Both sides are filtered for
// validity first.
func SubtractIntervals(base, subtrahends []entity.Interval) []entity.Interval {
	remaining := filterValid(base)
	for _, sub := range filterValid(subtrahends) {
		next := make([]entity.Interval, 0, len(remaining))
		for _, iv := range remaining {
			// No overlap: keep untouched.
			if !sub.Start.Before(iv.End) || !iv.Start.Before(sub.End) {
				next = append(next, iv)
				continue
			}
			// Piece before the subtrahend.
			if iv.Start.Before(sub.Start) {
				next = append(next, entity.Interval{Start: iv.Start, End: sub.Start})
			}
			// Piece after the subtrahend.
			if sub.End.Before(iv.End) {
				next = append(next, entity.Interval{Start: sub.End, End: iv.End})
			}
		}
		remaining = next
	}
	return remaining
}

// ClipToBounds intersects each interval with the union of bounds. Intervals
// with no overlap are dropped; partial overlaps are truncated to the bound
// edges.
func ClipToBounds(intervals, bounds []entity.Interval) []entity.Interval {
	mergedBounds := MergeIntervals(bounds)
	clipped := make([]entity.Interval, 0, len(intervals))
	for _, iv := range filterValid(intervals) {
		for _, b := range mergedBounds {
			if !iv.Start.Before(b.End) || !b.Start.Before(iv.End) {
				continue
			}
			piece := iv
			if b.Start.After(piece.Start) {
				piece.Start = b.Start
			}
			if b.End.Before(piece.End) {
				piece.End = b.End
			}
			clipped = append(clipped, piece)
		}
	}
	return clipped
}

// OverlapsOrContains reports whether two [start,end) intervals intersect with
// nonzero duration or one fully contains the other. Touching boundaries do
// not overlap.
func OverlapsOrContains(a, b entity.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// totalDuration sums interval lengths; used by callers asserting that
// subtraction never creates time.
func totalDuration(intervals []entity.Interval) (total int64) {
	for _, iv := range intervals {
		total += iv.End.Unix() - iv.Start.Unix()
	}
	return total
}
