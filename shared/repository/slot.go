package repository

import (
	"fmt"
	"strings"

	"turfbook/shared/model"
)

// SlotTuplePredicate builds a named-parameter predicate matching rows on
// the exact (slot_date, start_time, end_time) tuple of each candidate
// slot. The weekday name never participates: slots on different dates are
// different slots even when the weekday repeats.
func SlotTuplePredicate(slots []model.Slot) (string, map[string]any) {
	clauses := make([]string, len(slots))
	args := map[string]any{}

	for i, slot := range slots {
		clauses[i] = fmt.Sprintf("(slot_date = :slot_date_%d AND start_time = :start_time_%d AND end_time = :end_time_%d)", i, i, i)

		args[fmt.Sprintf("slot_date_%d", i)] = slot.Date
		args[fmt.Sprintf("start_time_%d", i)] = slot.StartTime
		args[fmt.Sprintf("end_time_%d", i)] = slot.EndTime
	}

	return "(" + strings.Join(clauses, " OR ") + ")", args
}
