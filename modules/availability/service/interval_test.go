package service

import (
	"testing"
	"time"

	"quickpoll/modules/availability/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// iv builds a same-day UTC interval from clock hours/minutes on 2024-01-15.
func iv(startHour, startMin, endHour, endMin int) entity.Interval {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return entity.Interval{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name        string
		base        []entity.Interval
		subtrahends []entity.Interval
		expected    []entity.Interval
	}{
		{
			name:        "split in two",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{iv(12, 0, 13, 0)},
			expected:    []entity.Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		},
		{
			name:        "fully covered base eliminated",
			base:        []entity.Interval{iv(12, 0, 13, 0)},
			subtrahends: []entity.Interval{iv(9, 0, 17, 0)},
			expected:    []entity.Interval{},
		},
		{
			name:        "leading edge trim",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{iv(9, 0, 10, 0)},
			expected:    []entity.Interval{iv(10, 0, 17, 0)},
		},
		{
			name:        "trailing edge trim",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{iv(16, 0, 17, 0)},
			expected:    []entity.Interval{iv(9, 0, 16, 0)},
		},
		{
			name:        "no overlap is a no-op",
			base:        []entity.Interval{iv(9, 0, 12, 0)},
			subtrahends: []entity.Interval{iv(13, 0, 14, 0)},
			expected:    []entity.Interval{iv(9, 0, 12, 0)},
		},
		{
			name:        "touching boundary is a no-op",
			base:        []entity.Interval{iv(9, 0, 12, 0)},
			subtrahends: []entity.Interval{iv(12, 0, 13, 0)},
			expected:    []entity.Interval{iv(9, 0, 12, 0)},
		},
		{
			name:        "multiple disjoint subtrahends leave multiple pieces",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{iv(10, 0, 11, 0), iv(14, 0, 15, 0)},
			expected:    []entity.Interval{iv(9, 0, 10, 0), iv(11, 0, 14, 0), iv(15, 0, 17, 0)},
		},
		{
			name:        "empty subtrahends leave base untouched",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{},
			expected:    []entity.Interval{iv(9, 0, 17, 0)},
		},
		{
			name:        "invalid subtrahend filtered out",
			base:        []entity.Interval{iv(9, 0, 17, 0)},
			subtrahends: []entity.Interval{{Start: iv(13, 0, 12, 0).Start, End: iv(13, 0, 12, 0).End}},
			expected:    []entity.Interval{iv(9, 0, 17, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SubtractIntervals(tt.base, tt.subtrahends))
		})
	}
}

func TestSubtractIntervals_Conservation(t *testing.T) {
	base := []entity.Interval{iv(9, 0, 17, 0)}
	baseDuration := totalDuration(base)

	subtrahendSets := [][]entity.Interval{
		{},
		{iv(12, 0, 13, 0)},
		{iv(8, 0, 18, 0)},
		{iv(10, 0, 11, 0), iv(10, 30, 12, 0), iv(16, 0, 19, 0)},
		{iv(17, 0, 18, 0)}, // touching only
	}

	for _, subs := range subtrahendSets {
		remaining := SubtractIntervals(base, subs)
		require.LessOrEqual(t, totalDuration(remaining), baseDuration)

		overlaps := false
		for _, s := range subs {
			if OverlapsOrContains(s, base[0]) {
				overlaps = true
			}
		}
		if !overlaps {
			assert.Equal(t, baseDuration, totalDuration(remaining))
		} else {
			assert.Less(t, totalDuration(remaining), baseDuration)
		}
	}
}

func TestMergeIntervals(t *testing.T) {
	t.Run("overlapping and touching merge", func(t *testing.T) {
		got := MergeIntervals([]entity.Interval{iv(10, 0, 11, 0), iv(9, 0, 10, 0), iv(10, 30, 12, 0)})
		assert.Equal(t, []entity.Interval{iv(9, 0, 12, 0)}, got)
	})

	t.Run("invalid intervals dropped", func(t *testing.T) {
		invalid := entity.Interval{Start: iv(13, 0, 14, 0).End, End: iv(13, 0, 14, 0).Start}
		got := MergeIntervals([]entity.Interval{iv(9, 0, 10, 0), invalid, {}})
		assert.Equal(t, []entity.Interval{iv(9, 0, 10, 0)}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, []entity.Interval{}, MergeIntervals(nil))
	})

	t.Run("idempotent", func(t *testing.T) {
		input := []entity.Interval{iv(9, 0, 10, 30), iv(10, 0, 11, 0), iv(13, 0, 14, 0)}
		once := MergeIntervals(input)
		assert.Equal(t, once, MergeIntervals(once))
	})
}

func TestClipToBounds(t *testing.T) {
	bounds := []entity.Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)}

	tests := []struct {
		name      string
		intervals []entity.Interval
		expected  []entity.Interval
	}{
		{
			name:      "inside bound unchanged",
			intervals: []entity.Interval{iv(10, 0, 11, 0)},
			expected:  []entity.Interval{iv(10, 0, 11, 0)},
		},
		{
			name:      "outside bounds dropped",
			intervals: []entity.Interval{iv(12, 0, 13, 0)},
			expected:  []entity.Interval{},
		},
		{
			name:      "partial overlap truncated",
			intervals: []entity.Interval{iv(11, 0, 14, 0)},
			expected:  []entity.Interval{iv(11, 0, 12, 0), iv(13, 0, 14, 0)},
		},
		{
			name:      "spanning interval split per bound",
			intervals: []entity.Interval{iv(8, 0, 18, 0)},
			expected:  []entity.Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClipToBounds(tt.intervals, bounds))
		})
	}
}

func TestOverlapsOrContains(t *testing.T) {
	assert.False(t, OverlapsOrContains(iv(9, 0, 10, 0), iv(10, 0, 11, 0)), "touching boundaries do not overlap")
	assert.True(t, OverlapsOrContains(iv(9, 0, 17, 0), iv(10, 0, 11, 0)), "containment overlaps")
	assert.True(t, OverlapsOrContains(iv(10, 0, 11, 0), iv(9, 0, 17, 0)), "containment is symmetric")
	assert.True(t, OverlapsOrContains(iv(9, 0, 10, 30), iv(10, 0, 11, 0)))
	assert.False(t, OverlapsOrContains(iv(9, 0, 10, 0), iv(11, 0, 12, 0)))
}
