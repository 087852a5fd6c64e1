package dto

import (
	"turfbook/internal/domains/turf/model"
	"turfbook/shared"
	gDto "turfbook/shared/dto"
	gModel "turfbook/shared/model"
	"turfbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateTurfRequest struct {
	Name         string  `json:"name"           validate:"required,max=100"`
	Description  string  `json:"description"    validate:"omitempty,max=500"`
	Location     string  `json:"location"       validate:"required,max=200"`
	PricePerSlot float64 `json:"price_per_slot" validate:"required,gte=0"`
	OpenTime     string  `json:"open_time"      validate:"required,slottime"`
	CloseTime    string  `json:"close_time"     validate:"required,slottime"`
	Active       *bool   `json:"active"         validate:"omitempty"`
}

func (c *CreateTurfRequest) ToModel(owner string) model.Turf {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Turf{
		ID:           uuid.NewString(),
		OwnerID:      owner,
		Name:         c.Name,
		Description:  c.Description,
		Location:     c.Location,
		PricePerSlot: c.PricePerSlot,
		OpenTime:     c.OpenTime,
		CloseTime:    c.CloseTime,
		Active:       active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  owner,
			ModifiedBy: owner,
		},
	}
}

type UpdateTurfRequest struct {
	Name         string   `db:"name"           json:"name"           validate:"omitempty,max=100"`
	Description  string   `db:"description"    json:"description"    validate:"omitempty,max=500"`
	Location     string   `db:"location"       json:"location"       validate:"omitempty,max=200"`
	PricePerSlot *float64 `db:"price_per_slot" json:"price_per_slot" validate:"omitempty,gte=0"`
	OpenTime     string   `db:"open_time"      json:"open_time"      validate:"omitempty,slottime"`
	CloseTime    string   `db:"close_time"     json:"close_time"     validate:"omitempty,slottime"`
	Active       *bool    `db:"active"         json:"active"         validate:"omitempty"`
}

type TurfResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	PricePerSlot float64 `json:"price_per_slot"`
	OpenTime     string  `json:"open_time"`
	CloseTime    string  `json:"close_time"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *TurfResponse) FromModel(model model.Turf) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Name = model.Name
	r.Description = model.Description
	r.Location = model.Location
	r.PricePerSlot = model.PricePerSlot
	r.OpenTime = model.OpenTime
	r.CloseTime = model.CloseTime
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetTurfsResponse struct {
	Turfs     []TurfResponse `json:"turfs"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTurfsResponse) FromModels(models []model.Turf, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Turfs = make([]TurfResponse, len(models))
	for i, mod := range models {
		r.Turfs[i].FromModel(mod)
	}
}
