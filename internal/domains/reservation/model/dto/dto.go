package dto

import (
	"time"

	"turfbook/internal/domains/reservation/model"
	"turfbook/shared/constant"
	gModel "turfbook/shared/model"
)

const (
	ActionReserve = "reserve"
	ActionRelease = "release"
)

type ReserveRequest struct {
	Action string        `json:"action"  validate:"required,oneof=reserve release"`
	TurfID string        `json:"turfId"  validate:"required"`
	Slots  []gModel.Slot `json:"slots"   validate:"omitempty,dive"`
}

type ReserveResponse struct {
	Success            bool   `json:"success"`
	ExpiresAt          string `json:"expiresAt"`
	ReservationMinutes int    `json:"reservationMinutes"`
}

func (r *ReserveResponse) FromExpiry(expiresAt time.Time, windowMinutes int) {
	r.Success = true
	r.ExpiresAt = expiresAt.Format(constant.DateFormat)
	r.ReservationMinutes = windowMinutes
}

type VerifyRequest struct {
	TurfID string        `json:"turfId" validate:"required"`
	Slots  []gModel.Slot `json:"slots"  validate:"required,min=1,dive"`
}

type ReservedSlot struct {
	gModel.Slot
	TimeLeft int `json:"timeLeft"`
}

type VerifyResponse struct {
	Available     bool           `json:"available"`
	BookedSlots   []gModel.Slot  `json:"bookedSlots,omitempty"`
	ReservedSlots []ReservedSlot `json:"reservedSlots,omitempty"`
}

type ConflictResponse struct {
	Error    string      `json:"error"`
	Slot     gModel.Slot `json:"slot"`
	TimeLeft int         `json:"timeLeft,omitempty"`
	Code     string      `json:"code"`
}

func (r *ConflictResponse) FromConflict(conflict *model.ConflictError) {
	r.Error = conflict.Error()
	r.Slot = conflict.Slot
	r.TimeLeft = conflict.TimeLeftMinutes
	r.Code = conflict.Code
}
