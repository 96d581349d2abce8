package model

import (
	"time"

	"pos/shared/model"
)

const (
	TableName  = "activity_logs"
	EntityName = "activity_log"

	FieldID            = "id"
	FieldSalesPersonID = "sales_person_id"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldAddress       = "address"
	FieldLoggedAt      = "logged_at"

	UnknownAddress = "Unknown"
)

// Location is the last position reported by a sales person's device.
type Location struct {
	Latitude  float64 `json:"latitude"  validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Address   string  `json:"address"   validate:"omitempty,max=255"`
}

// ActivityLog coordinates are nullable; rows without them are removed by the cleanup job.
type ActivityLog struct {
	ID            string    `db:"id"`
	SalesPersonID string    `db:"sales_person_id"`
	Latitude      *float64  `db:"latitude"`
	Longitude     *float64  `db:"longitude"`
	Address       string    `db:"address"`
	LoggedAt      time.Time `db:"logged_at"`
	model.Metadata
}
