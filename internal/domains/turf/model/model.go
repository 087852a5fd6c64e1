package model

import "turfbook/shared/model"

const (
	TableName  = "turfs"
	EntityName = "turf"

	FieldID           = "id"
	FieldOwnerID      = "owner_id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldLocation     = "location"
	FieldPricePerSlot = "price_per_slot"
	FieldOpenTime     = "open_time"
	FieldCloseTime    = "close_time"
	FieldActive       = "active"
)

type Turf struct {
	ID           string  `db:"id"`
	OwnerID      string  `db:"owner_id"`
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	Location     string  `db:"location"`
	PricePerSlot float64 `db:"price_per_slot"`
	OpenTime     string  `db:"open_time"`
	CloseTime    string  `db:"close_time"`
	Active       bool    `db:"active"`
	model.Metadata
}
