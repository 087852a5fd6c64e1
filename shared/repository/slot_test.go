package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"turfbook/shared/model"
	"turfbook/shared/repository"
)

func TestSlotTuplePredicate(t *testing.T) {
	slots := []model.Slot{
		{Day: "Saturday", Date: "2026-03-14", StartTime: "18:00", EndTime: "19:00"},
		{Day: "Saturday", Date: "2026-03-21", StartTime: "18:00", EndTime: "19:00"},
	}

	predicate, args := repository.SlotTuplePredicate(slots)

	assert.Equal(t,
		"((slot_date = :slot_date_0 AND start_time = :start_time_0 AND end_time = :end_time_0)"+
			" OR (slot_date = :slot_date_1 AND start_time = :start_time_1 AND end_time = :end_time_1))",
		predicate)

	assert.Equal(t, "2026-03-14", args["slot_date_0"])
	assert.Equal(t, "2026-03-21", args["slot_date_1"])
	assert.Equal(t, "18:00", args["start_time_0"])
	assert.Equal(t, "19:00", args["end_time_1"])

	// The weekday name never appears in the predicate arguments.
	for key := range args {
		assert.NotContains(t, key, "day")
	}
	assert.Len(t, args, 6)
}

func TestSlotTuplePredicateSingle(t *testing.T) {
	predicate, args := repository.SlotTuplePredicate([]model.Slot{
		{Date: "2026-03-14", StartTime: "07:00", EndTime: "08:00"},
	})

	assert.Equal(t, "((slot_date = :slot_date_0 AND start_time = :start_time_0 AND end_time = :end_time_0))", predicate)
	assert.Len(t, args, 3)
}
