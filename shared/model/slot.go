package model

import (
	"errors"
	"time"

	"turfbook/shared/constant"
)

var (
	ErrSlotDateRequired      = errors.New("slot date is required")
	ErrSlotDateInvalid       = errors.New("slot date must be formatted as YYYY-MM-DD")
	ErrSlotStartTimeRequired = errors.New("slot start time is required")
	ErrSlotStartTimeInvalid  = errors.New("slot start time must be formatted as HH:MM")
	ErrSlotEndTimeRequired   = errors.New("slot end time is required")
	ErrSlotEndTimeInvalid    = errors.New("slot end time must be formatted as HH:MM")
	ErrSlotTimeOrder         = errors.New("slot end time must be after start time")
)

// Slot is one bookable interval of a turf. Conflict identity is the
// (turf, Date, StartTime, EndTime) tuple; Day is display-only and must
// never participate in conflict matching.
type Slot struct {
	Day       string `db:"day"        json:"day"`
	Date      string `db:"slot_date"  json:"date"`
	StartTime string `db:"start_time" json:"startTime"`
	EndTime   string `db:"end_time"   json:"endTime"`
}

// Validate checks the slot field formats and returns the first violated
// constraint as a named error.
func (s *Slot) Validate() error {
	if s.Date == "" {
		return ErrSlotDateRequired
	}

	date, err := time.Parse(constant.SlotDateFormat, s.Date)
	if err != nil {
		return ErrSlotDateInvalid
	}

	if s.StartTime == "" {
		return ErrSlotStartTimeRequired
	}

	start, err := time.Parse(constant.SlotTimeFormat, s.StartTime)
	if err != nil {
		return ErrSlotStartTimeInvalid
	}

	if s.EndTime == "" {
		return ErrSlotEndTimeRequired
	}

	end, err := time.Parse(constant.SlotTimeFormat, s.EndTime)
	if err != nil {
		return ErrSlotEndTimeInvalid
	}

	if !end.After(start) {
		return ErrSlotTimeOrder
	}

	if s.Day == "" {
		s.Day = date.Weekday().String()
	}

	return nil
}

// ValidateSlots validates a whole candidate set. The set must be non-empty.
func ValidateSlots(slots []Slot) error {
	if len(slots) == 0 {
		return errors.New("at least one slot is required")
	}

	for i := range slots {
		if err := slots[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// SameInterval reports whether two slots occupy the identical interval.
// Date is compared as the full calendar date, never the weekday name.
func (s *Slot) SameInterval(other Slot) bool {
	return s.Date == other.Date &&
		s.StartTime == other.StartTime &&
		s.EndTime == other.EndTime
}
