package model

import (
	"fmt"
	"time"

	gModel "turfbook/shared/model"
	"turfbook/shared/constant"
)

const (
	TableName  = "turf_reservations"
	EntityName = "reservation"

	FieldID         = "id"
	FieldCustomerID = "customer_id"
	FieldTurfID     = "turf_id"
	FieldSlotDate   = "slot_date"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldReservedAt = "reserved_at"
	FieldExpiresAt  = "expires_at"
)

// Reservation is a temporary, exclusive hold on one slot. At most one
// reservation may exist per (turf, date, start, end) tuple; the store
// enforces this with a unique index.
type Reservation struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	TurfID     string `db:"turf_id"`
	gModel.Slot
	ReservedAt time.Time `db:"reserved_at"`
	ExpiresAt  time.Time `db:"expires_at"`
}

// Live reports whether the hold is still active at the given instant.
// Expired rows are treated as absent everywhere, whether or not the
// sweeper has removed them yet.
func (r *Reservation) Live(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// TimeLeftMinutes returns the remaining hold time rounded up to whole
// minutes, floored at 1 so a hold about to lapse is never reported as
// "0 minutes left".
func (r *Reservation) TimeLeftMinutes(now time.Time) int {
	remaining := r.ExpiresAt.Sub(now)

	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

// ConflictError reports that a requested slot is occupied, either by a
// pending/confirmed booking (SLOT_BOOKED) or by another customer's live
// hold (SLOT_RESERVED, with the remaining hold time attached). The
// transactional pre-check and the unique-index violation both surface
// through this one type.
type ConflictError struct {
	Code            string
	Slot            gModel.Slot
	TimeLeftMinutes int
}

func (e *ConflictError) Error() string {
	if e.Code == constant.ConflictCodeSlotReserved {
		return fmt.Sprintf("slot %s %s-%s is reserved by another customer for the next %d minute(s)",
			e.Slot.Date, e.Slot.StartTime, e.Slot.EndTime, e.TimeLeftMinutes)
	}

	return fmt.Sprintf("slot %s %s-%s is already booked", e.Slot.Date, e.Slot.StartTime, e.Slot.EndTime)
}

func NewSlotBooked(slot gModel.Slot) error {
	return &ConflictError{
		Code: constant.ConflictCodeSlotBooked,
		Slot: slot,
	}
}

func NewSlotReserved(slot gModel.Slot, timeLeftMinutes int) error {
	return &ConflictError{
		Code:            constant.ConflictCodeSlotReserved,
		Slot:            slot,
		TimeLeftMinutes: timeLeftMinutes,
	}
}
