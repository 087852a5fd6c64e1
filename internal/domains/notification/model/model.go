package model

import (
	"time"

	gModel "turfbook/shared/model"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingRejected  = "booking_rejected"
)

// Job is one queued notification: a booking status change the customer
// should hear about. Message content and the customer's contact details
// are resolved downstream by the delivery providers.
type Job struct {
	BookingID  string      `json:"booking_id"`
	CustomerID string      `json:"customer_id"`
	TurfID     string      `json:"turf_id"`
	Event      string      `json:"event"`
	Slot       gModel.Slot `json:"slot"`
	EnqueuedAt time.Time   `json:"enqueued_at"`
}
