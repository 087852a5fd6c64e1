package dto

import (
	"github.com/google/uuid"

	"turfbook/internal/domains/booking/model"
	"turfbook/shared"
	"turfbook/shared/constant"
	gDto "turfbook/shared/dto"
	gModel "turfbook/shared/model"
	"turfbook/shared/timezone"
)

type CreateBookingRequest struct {
	TurfID string        `json:"turf_id" validate:"required"`
	Slots  []gModel.Slot `json:"slots"   validate:"required,min=1,dive"`
}

// ToModels builds one pending booking row per requested slot, all priced
// off the turf's per-slot rate.
func (c *CreateBookingRequest) ToModels(customer, owner string, pricePerSlot float64) []model.Booking {
	bookings := make([]model.Booking, len(c.Slots))

	for i, slot := range c.Slots {
		bookings[i] = model.Booking{
			ID:          uuid.NewString(),
			CustomerID:  customer,
			OwnerID:     owner,
			TurfID:      c.TurfID,
			Slot:        slot,
			Status:      constant.BookingStatusPending,
			TotalAmount: pricePerSlot,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  customer,
				ModifiedBy: customer,
			},
		}
	}

	return bookings
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected"`
}

type BookingResponse struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	OwnerID     string      `json:"owner_id"`
	TurfID      string      `json:"turf_id"`
	Slot        gModel.Slot `json:"slot"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.OwnerID = model.OwnerID
	r.TurfID = model.TurfID
	r.Slot = model.Slot
	r.Status = model.Status
	r.TotalAmount = model.TotalAmount
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
