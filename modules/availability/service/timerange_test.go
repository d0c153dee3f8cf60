package service

import (
	"math/rand"
	"testing"

	"quickpoll/modules/availability/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(start, end string) entity.TimeRange {
	return entity.TimeRange{Start: start, End: end}
}

func TestMergeTimeRanges(t *testing.T) {
	tests := []struct {
		name     string
		input    []entity.TimeRange
		expected []entity.TimeRange
	}{
		{
			name:     "empty input",
			input:    []entity.TimeRange{},
			expected: []entity.TimeRange{},
		},
		{
			name:     "single range",
			input:    []entity.TimeRange{tr("09:00", "10:00")},
			expected: []entity.TimeRange{tr("09:00", "10:00")},
		},
		{
			name:     "overlapping ranges merge",
			input:    []entity.TimeRange{tr("09:00", "10:00"), tr("09:30", "11:00")},
			expected: []entity.TimeRange{tr("09:00", "11:00")},
		},
		{
			name:     "adjacent ranges merge",
			input:    []entity.TimeRange{tr("09:00", "10:00"), tr("10:00", "11:00")},
			expected: []entity.TimeRange{tr("09:00", "11:00")},
		},
		{
			name:     "disjoint ranges stay separate",
			input:    []entity.TimeRange{tr("13:00", "14:00"), tr("09:00", "10:00")},
			expected: []entity.TimeRange{tr("09:00", "10:00"), tr("13:00", "14:00")},
		},
		{
			name:     "contained range absorbed",
			input:    []entity.TimeRange{tr("09:00", "17:00"), tr("10:00", "11:00")},
			expected: []entity.TimeRange{tr("09:00", "17:00")},
		},
		{
			name: "chain of touching ranges collapses",
			input: []entity.TimeRange{
				tr("11:00", "12:00"), tr("09:00", "10:00"), tr("10:00", "11:00"),
			},
			expected: []entity.TimeRange{tr("09:00", "12:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeTimeRanges(tt.input))
		})
	}
}

func TestMergeTimeRanges_Idempotent(t *testing.T) {
	input := []entity.TimeRange{
		tr("09:00", "10:30"), tr("10:00", "11:00"), tr("13:00", "14:00"), tr("08:00", "09:00"),
	}
	once := MergeTimeRanges(input)
	twice := MergeTimeRanges(once)
	assert.Equal(t, once, twice)
}

func TestMergeTimeRanges_OrderInvariant(t *testing.T) {
	input := []entity.TimeRange{
		tr("09:00", "10:30"), tr("10:00", "11:00"), tr("13:00", "14:00"),
		tr("08:00", "09:00"), tr("16:00", "18:00"),
	}
	expected := MergeTimeRanges(input)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]entity.TimeRange, len(input))
		copy(shuffled, input)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, expected, MergeTimeRanges(shuffled))
	}
}

func TestMergeTimeRanges_DoesNotMutateInput(t *testing.T) {
	input := []entity.TimeRange{tr("10:00", "11:00"), tr("09:00", "10:30")}
	MergeTimeRanges(input)
	assert.Equal(t, []entity.TimeRange{tr("10:00", "11:00"), tr("09:00", "10:30")}, input)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"09-30", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, appErr := ParseClock(tt.input)
			if tt.wantErr {
				require.NotNil(t, appErr)
				return
			}
			require.Nil(t, appErr)
			assert.Equal(t, tt.minutes, got)
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	require.Nil(t, ValidateTimeRange(tr("09:00", "17:00")))

	appErr := ValidateTimeRange(tr("17:00", "09:00"))
	require.NotNil(t, appErr)

	appErr = ValidateTimeRange(tr("09:00", "09:00"))
	require.NotNil(t, appErr)

	appErr = ValidateTimeRange(tr("night", "17:00"))
	require.NotNil(t, appErr)
}
