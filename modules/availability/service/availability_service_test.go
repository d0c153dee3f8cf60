package service

import (
	"context"
	"testing"
	"time"

	"quickpoll/core/errors"
	"quickpoll/modules/availability/dto"
	"quickpoll/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlockRepo is an in-memory AvailabilityRepositoryInterface.
type fakeBlockRepo struct {
	blocks map[uuid.UUID]*entity.AvailabilityBlock
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[uuid.UUID]*entity.AvailabilityBlock)}
}

func (f *fakeBlockRepo) CreateBlock(_ context.Context, block *entity.AvailabilityBlock) (*entity.AvailabilityBlock, error) {
	clone := *block
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	f.blocks[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeBlockRepo) GetBlockByID(_ context.Context, id uuid.UUID) (*entity.AvailabilityBlock, error) {
	if b, ok := f.blocks[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, nil
}

func (f *fakeBlockRepo) GetBlocksByOwnerID(_ context.Context, ownerID uuid.UUID) ([]entity.AvailabilityBlock, error) {
	var result []entity.AvailabilityBlock
	for _, b := range f.blocks {
		if b.OwnerID == ownerID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeBlockRepo) GetDefaultBlockByOwnerID(_ context.Context, ownerID uuid.UUID) (*entity.AvailabilityBlock, error) {
	for _, b := range f.blocks {
		if b.OwnerID == ownerID && b.IsDefault {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeBlockRepo) UpdateBlock(_ context.Context, block *entity.AvailabilityBlock) error {
	clone := *block
	f.blocks[block.ID] = &clone
	return nil
}

func (f *fakeBlockRepo) DeleteBlock(_ context.Context, id uuid.UUID) error {
	delete(f.blocks, id)
	return nil
}

func (f *fakeBlockRepo) ClearDefaultForOwner(_ context.Context, ownerID uuid.UUID) error {
	for _, b := range f.blocks {
		if b.OwnerID == ownerID {
			b.IsDefault = false
		}
	}
	return nil
}

func weekdaySchedule() []entity.AvailabilitySlot {
	return []entity.AvailabilitySlot{
		{Weekday: 1, Ranges: []entity.TimeRange{{Start: "09:00", End: "17:00"}}},
		{Weekday: 3, Ranges: []entity.TimeRange{{Start: "09:00", End: "12:00"}}},
	}
}

func TestValidateSlots(t *testing.T) {
	tests := []struct {
		name     string
		slots    []entity.AvailabilitySlot
		timezone string
		wantCode errors.ErrorCode
	}{
		{"valid schedule", weekdaySchedule(), "Europe/Berlin", ""},
		{"unknown timezone", weekdaySchedule(), "Nowhere/Land", errors.ErrConfiguration},
		{
			"weekday out of range",
			[]entity.AvailabilitySlot{{Weekday: 7}},
			"UTC", errors.ErrInvalidInput,
		},
		{
			"bad clock time",
			[]entity.AvailabilitySlot{{Weekday: 1, Ranges: []entity.TimeRange{{Start: "9:00", End: "17:00"}}}},
			"UTC", errors.ErrInvalidInput,
		},
		{
			"start at or after end",
			[]entity.AvailabilitySlot{{Weekday: 1, Ranges: []entity.TimeRange{{Start: "17:00", End: "09:00"}}}},
			"UTC", errors.ErrInvalidInput,
		},
		{
			"bad date",
			[]entity.AvailabilitySlot{{Date: "15-01-2024"}},
			"UTC", errors.ErrInvalidInput,
		},
		{
			"bad override range",
			[]entity.AvailabilitySlot{{
				Weekday:   1,
				Overrides: &entity.Overrides{Removals: []entity.TimeRange{{Start: "25:00", End: "26:00"}}},
			}},
			"UTC", errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ValidateSlots(tt.slots, tt.timezone)
			if tt.wantCode == "" {
				assert.Nil(t, appErr)
			} else {
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestCreateBlock_RejectsInvalidSchedule(t *testing.T) {
	svc := NewAvailabilityService(newFakeBlockRepo())

	_, appErr := svc.CreateBlock(context.Background(), uuid.New(), &dto.CreateBlockRequest{
		Title:    "Broken",
		Timezone: "UTC",
		WeeklyAvailability: []entity.AvailabilitySlot{
			{Weekday: 1, Ranges: []entity.TimeRange{{Start: "17:00", End: "09:00"}}},
		},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateBlock_DefaultDemotesPrevious(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := NewAvailabilityService(repo)
	ownerID := uuid.New()

	first, appErr := svc.CreateBlock(context.Background(), ownerID, &dto.CreateBlockRequest{
		Title:              "Office hours",
		Timezone:           "UTC",
		WeeklyAvailability: weekdaySchedule(),
		IsDefault:          true,
	})
	require.Nil(t, appErr)
	assert.True(t, first.IsDefault)

	second, appErr := svc.CreateBlock(context.Background(), ownerID, &dto.CreateBlockRequest{
		Title:              "Evenings",
		Timezone:           "UTC",
		WeeklyAvailability: weekdaySchedule(),
		IsDefault:          true,
	})
	require.Nil(t, appErr)
	assert.True(t, second.IsDefault)

	slots, tz, appErr := svc.DefaultBlockSlots(context.Background(), ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "UTC", tz)
	assert.Len(t, slots, 2)

	stored := repo.blocks[uuid.MustParse(first.ID)]
	assert.False(t, stored.IsDefault, "only one default block per owner")
}

func TestDuplicateBlock(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := NewAvailabilityService(repo)
	ownerID := uuid.New()

	original, appErr := svc.CreateBlock(context.Background(), ownerID, &dto.CreateBlockRequest{
		Title:              "Office hours",
		Timezone:           "Europe/Berlin",
		WeeklyAvailability: weekdaySchedule(),
		IsDefault:          true,
	})
	require.Nil(t, appErr)

	copied, appErr := svc.DuplicateBlock(context.Background(), uuid.MustParse(original.ID), ownerID)
	require.Nil(t, appErr)
	assert.Equal(t, "Office hours (copy)", copied.Title)
	assert.Equal(t, original.WeeklyAvailability, copied.WeeklyAvailability)
	assert.False(t, copied.IsDefault, "copies never inherit default status")

	_, appErr = svc.DuplicateBlock(context.Background(), uuid.MustParse(original.ID), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestGetBlockIntervals(t *testing.T) {
	repo := newFakeBlockRepo()
	svc := NewAvailabilityService(repo)
	ownerID := uuid.New()

	created, appErr := svc.CreateBlock(context.Background(), ownerID, &dto.CreateBlockRequest{
		Title:              "Mornings",
		Timezone:           "UTC",
		WeeklyAvailability: []entity.AvailabilitySlot{{Weekday: 1, Ranges: []entity.TimeRange{{Start: "09:00", End: "12:00"}}}},
	})
	require.Nil(t, appErr)

	resp, appErr := svc.GetBlockIntervals(context.Background(), uuid.MustParse(created.ID), "2024-01", "")
	require.Nil(t, appErr)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Len(t, resp.Intervals, 5)
}
