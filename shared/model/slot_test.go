package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turfbook/shared/model"
)

func TestSlotValidate(t *testing.T) {
	tests := []struct {
		name    string
		slot    model.Slot
		wantErr error
	}{
		{
			name: "valid slot",
			slot: model.Slot{Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"},
		},
		{
			name:    "missing date",
			slot:    model.Slot{StartTime: "18:00", EndTime: "19:00"},
			wantErr: model.ErrSlotDateRequired,
		},
		{
			name:    "date in wrong format",
			slot:    model.Slot{Date: "14-03-2026", StartTime: "18:00", EndTime: "19:00"},
			wantErr: model.ErrSlotDateInvalid,
		},
		{
			name:    "missing start time",
			slot:    model.Slot{Date: "2026-03-14", EndTime: "19:00"},
			wantErr: model.ErrSlotStartTimeRequired,
		},
		{
			name:    "start time in wrong format",
			slot:    model.Slot{Date: "2026-03-14", StartTime: "6pm", EndTime: "19:00"},
			wantErr: model.ErrSlotStartTimeInvalid,
		},
		{
			name:    "missing end time",
			slot:    model.Slot{Date: "2026-03-14", StartTime: "18:00"},
			wantErr: model.ErrSlotEndTimeRequired,
		},
		{
			name:    "end time in wrong format",
			slot:    model.Slot{Date: "2026-03-14", StartTime: "18:00", EndTime: "7pm"},
			wantErr: model.ErrSlotEndTimeInvalid,
		},
		{
			name:    "end equals start",
			slot:    model.Slot{Date: "2026-03-14", StartTime: "18:00", EndTime: "18:00"},
			wantErr: model.ErrSlotTimeOrder,
		},
		{
			name:    "end before start",
			slot:    model.Slot{Date: "2026-03-14", StartTime: "19:00", EndTime: "18:00"},
			wantErr: model.ErrSlotTimeOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlotValidateFillsDay(t *testing.T) {
	slot := model.Slot{Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"}

	assert.NoError(t, slot.Validate())
	assert.Equal(t, "Saturday", slot.Day)

	// A caller-provided day name is preserved, even a wrong one: the
	// date is the only thing that matters for matching.
	slot = model.Slot{Day: "Monday", Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"}

	assert.NoError(t, slot.Validate())
	assert.Equal(t, "Monday", slot.Day)
}

func TestValidateSlots(t *testing.T) {
	assert.Error(t, model.ValidateSlots(nil))
	assert.Error(t, model.ValidateSlots([]model.Slot{}))

	valid := []model.Slot{
		{Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"},
		{Date: "2026-03-14", StartTime: "19:00", EndTime: "20:00"},
	}
	assert.NoError(t, model.ValidateSlots(valid))

	mixed := append(valid, model.Slot{Date: "bad", StartTime: "18:00", EndTime: "19:00"})
	assert.Error(t, model.ValidateSlots(mixed))
}

func TestSameInterval(t *testing.T) {
	base := model.Slot{Day: "Saturday", Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"}

	same := model.Slot{Day: "Caturday", Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"}
	assert.True(t, base.SameInterval(same), "day names must not participate in matching")

	// Same weekday one week later is a different slot.
	nextWeek := model.Slot{Day: "Saturday", Date: "2026-03-21", StartTime: "18:00", EndTime: "19:00"}
	assert.False(t, base.SameInterval(nextWeek))

	otherTime := model.Slot{Date: "2026-03-14", StartTime: "19:00", EndTime: "20:00"}
	assert.False(t, base.SameInterval(otherTime))
}
