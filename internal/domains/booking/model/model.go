package model

import (
	"turfbook/shared/model"
)

const (
	TableName  = "turf_bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldCustomerID  = "customer_id"
	FieldOwnerID     = "owner_id"
	FieldTurfID      = "turf_id"
	FieldSlotDate    = "slot_date"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldTotalAmount = "total_amount"
	FieldCreatedBy   = "created_by"
)

// Booking is a durable request to occupy one slot. Only pending and
// confirmed bookings occupy the slot; rejected ones free it. The status
// transition out of pending happens exactly once.
type Booking struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	OwnerID    string `db:"owner_id"`
	TurfID     string `db:"turf_id"`
	model.Slot
	Status      string  `db:"status"`
	TotalAmount float64 `db:"total_amount"`
	model.Metadata
}
